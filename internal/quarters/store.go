package quarters

import (
	"context"
	"time"
)

// Store reads and writes periods and the match fields they depend on. The
// boolean results report whether a row was found.
type Store interface {
	MatchConfig(ctx context.Context, matchID int64) (MatchConfig, error)
	MarkMatchInProgress(ctx context.Context, matchID int64, at time.Time) error
	ActivePeriod(ctx context.Context, matchID int64) (Period, bool, error)
	LowestPendingPeriod(ctx context.Context, matchID int64) (Period, bool, error)
	MaxPeriodNumber(ctx context.Context, matchID int64) (int, error)
	PeriodByNumber(ctx context.Context, matchID int64, number int) (Period, bool, error)
	InsertPeriod(ctx context.Context, p Period) (Period, error)
	UpdatePeriod(ctx context.Context, p Period) error
	FinishActivePeriods(ctx context.Context, matchID int64, at time.Time) error
}

// Repository is a Store that can also run work inside one transaction.
type Repository interface {
	Store
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}
