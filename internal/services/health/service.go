package health

import (
	"context"
	"time"
)

const pingTimeout = 2 * time.Second

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Service reports which backends the process runs on and whether the
// ledger database answers.
type Service struct {
	storeKind string
	ledger    string
	db        Pinger
}

// NewService constructs a health service. db may be nil for the memory ledger.
func NewService(storeKind, ledger string, db Pinger) *Service {
	return &Service{storeKind: storeKind, ledger: ledger, db: db}
}

// Status returns the health payload and whether every dependency is up.
func (s *Service) Status(ctx context.Context) (map[string]any, bool) {
	ok := true
	out := map[string]any{
		"store":  s.storeKind,
		"ledger": s.ledger,
	}
	if s.db != nil {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := s.db.PingContext(pingCtx); err != nil {
			ok = false
			out["ledger_error"] = err.Error()
		}
	}
	out["ok"] = ok
	return out, ok
}
