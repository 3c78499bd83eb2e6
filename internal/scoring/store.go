package scoring

import (
	"context"

	"github.com/courtline/courtline/internal/match"
	"github.com/courtline/courtline/internal/quarters"
)

// Store persists score events. Period and team lookups come from the
// embedded stores so the resolver runs in the same transaction.
type Store interface {
	quarters.Store
	match.Reader
	InsertScoreEvent(ctx context.Context, e Event) (Event, error)
	TeamPoints(ctx context.Context, matchID int64) (map[int64]int, error)
	DeleteScoreEvents(ctx context.Context, matchID int64) error
}

// Repository is a Store that can also run work inside one transaction.
type Repository interface {
	Store
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}

// PeriodResolver assigns events to periods.
type PeriodResolver interface {
	Resolve(ctx context.Context, store quarters.Store, matchID int64, pc quarters.Context) (int64, error)
}
