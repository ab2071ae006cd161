package uploads

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestServiceRecordAssignsIDAndTime(t *testing.T) {
	fixed := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	svc := NewService(NewMemoryRepo())
	svc.Now = func() time.Time { return fixed }

	rec, err := svc.Record(context.Background(), Record{ImageID: "foo.png", SizeBytes: 3})
	require.NoError(t, err)
	require.NotEmpty(t, rec.ID)
	require.True(t, rec.CreatedAt.Equal(fixed))
}

func TestServiceRecordRequiresImageID(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	_, err := svc.Record(context.Background(), Record{})
	require.True(t, errors.Is(err, ErrInvalidInput))
}

func TestServiceRecentNewestFirstWithLimit(t *testing.T) {
	base := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	tick := 0
	svc := NewService(NewMemoryRepo())
	svc.Now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	for _, id := range []string{"a.png", "b.png", "c.png"} {
		_, err := svc.Record(context.Background(), Record{ImageID: id})
		require.NoError(t, err)
	}

	got, err := svc.Recent(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "c.png", got[0].ImageID)
	require.Equal(t, "b.png", got[1].ImageID)

	all, err := svc.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
}
