package fouls

import (
	"context"

	"github.com/courtline/courtline/internal/match"
	"github.com/courtline/courtline/internal/quarters"
)

// Store persists foul events.
type Store interface {
	quarters.Store
	match.Reader
	InsertFoulEvent(ctx context.Context, e Event) (Event, error)
	// DeleteLatestFoul removes the newest foul of the player, limited to
	// periodID when it is set. It reports whether a row was removed.
	DeleteLatestFoul(ctx context.Context, matchID, teamID, playerID int64, periodID *int64) (bool, error)
	FoulCounts(ctx context.Context, matchID int64) ([]Count, error)
	DeleteFoulEvents(ctx context.Context, matchID int64) error
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
