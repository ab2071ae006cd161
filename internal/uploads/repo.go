package uploads

import "context"

// Repo persists upload ledger records.
type Repo interface {
	Create(ctx context.Context, rec Record) error
	ListRecent(ctx context.Context, limit int) ([]Record, error)
}
