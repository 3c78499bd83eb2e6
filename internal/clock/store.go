package clock

import (
	"context"

	"github.com/courtline/courtline/internal/quarters"
)

// Store persists clock events.
type Store interface {
	quarters.Store
	InsertClockEvent(ctx context.Context, e Event) (Event, error)
	ListClockEvents(ctx context.Context, matchID int64) ([]Event, error)
	DeleteClockEvents(ctx context.Context, matchID int64) error
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
