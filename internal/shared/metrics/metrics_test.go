package metrics

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestHistogramBucketsAreCumulative(t *testing.T) {
	h := newHistogram("h", "test histogram", []float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)

	snap := h.Snapshot()
	if snap.count != 3 {
		t.Fatalf("expected 3 observations, got %d", snap.count)
	}

	var buf bytes.Buffer
	writeHistogram(&buf, "h", "test histogram", snap)
	rendered := buf.String()
	for _, want := range []string{
		`h_bucket{le="10"} 1`,
		`h_bucket{le="100"} 2`,
		`h_bucket{le="+Inf"} 3`,
		`h_sum 555`,
		`h_count 3`,
	} {
		if !strings.Contains(rendered, want) {
			t.Fatalf("missing %q in:\n%s", want, rendered)
		}
	}
}

func TestRenderIncludesCounters(t *testing.T) {
	before := uploadsTotal.v.Load()
	IncUpload(42)
	IncFetch(false)
	ObserveArchiveBuilt(120 * time.Millisecond)

	out := Render()
	for _, name := range []string{
		"image_uploads_total",
		"image_upload_bytes_total",
		"image_fetch_total",
		"image_fetch_miss_total",
		"archive_built_total",
		"archive_build_duration_ms_count",
		"image_upload_size_bytes_bucket",
	} {
		if !strings.Contains(out, name) {
			t.Fatalf("missing metric %s", name)
		}
	}
	if uploadsTotal.v.Load() != before+1 {
		t.Fatalf("expected upload counter to advance")
	}
}
