package quarters

import (
	"context"
	"log/slog"

	"github.com/courtline/courtline/internal/shared"
)

// Resolver maps the period hint of an incoming event to a period id. Every
// event log uses the same Resolver so score, fouls, timeouts and clock events
// always land in the same period for the same request.
type Resolver struct {
	logger *slog.Logger
}

// NewResolver constructs a Resolver.
func NewResolver(logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{logger: logger}
}

// Resolve returns the period for pc, creating a pending period when the hint
// names one that does not exist yet. Precedence:
//
//  1. an explicit period id, returned as is;
//  2. a period number with its overtime flag;
//  3. the active period;
//  4. period one, regulation.
//
// A number already taken by a period of the other kind resolves to that
// period since numbers are unique per match.
func (r *Resolver) Resolve(ctx context.Context, store Store, matchID int64, pc Context) (int64, error) {
	cfg, err := store.MatchConfig(ctx, matchID)
	if err != nil {
		return 0, err
	}

	if pc.PeriodID != nil {
		return *pc.PeriodID, nil
	}

	if pc.Number != nil {
		if *pc.Number < 1 {
			return 0, shared.Validationf("period number %d must be positive", *pc.Number)
		}
		return r.ensure(ctx, store, cfg, *pc.Number, pc.WantsOvertime())
	}

	active, ok, err := store.ActivePeriod(ctx, matchID)
	if err != nil {
		return 0, err
	}
	if ok {
		return active.ID, nil
	}

	return r.ensure(ctx, store, cfg, 1, false)
}

func (r *Resolver) ensure(ctx context.Context, store Store, cfg MatchConfig, number int, overtime bool) (int64, error) {
	p, ok, err := store.PeriodByNumber(ctx, cfg.MatchID, number)
	if err != nil {
		return 0, err
	}
	if ok {
		return p.ID, nil
	}
	duration := cfg.Duration(overtime)
	p, err = store.InsertPeriod(ctx, Period{
		MatchID:      cfg.MatchID,
		Number:       number,
		Overtime:     overtime,
		DurationSec:  duration,
		RemainingSec: duration,
		Status:       StatusPending,
	})
	if err != nil {
		return 0, err
	}
	r.logger.Debug("period created on demand",
		slog.Int64("match_id", cfg.MatchID),
		slog.Int("number", number),
		slog.Bool("overtime", overtime))
	return p.ID, nil
}
