package clock

import (
	"context"
)

// Service records clock events. Clock events are not broadcast; the timer
// display is driven by viewers.
type Service struct {
	repo     Repository
	resolver PeriodResolver
}

// NewService constructs a Service instance.
func NewService(repo Repository, resolver PeriodResolver) *Service {
	return &Service{repo: repo, resolver: resolver}
}

// Record stores the event in the resolved period and returns it.
func (s *Service) Record(ctx context.Context, in RecordInput) (Event, error) {
	if err := in.Validate(); err != nil {
		return Event{}, err
	}
	var event Event
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx Store) error {
		periodID, err := s.resolver.Resolve(ctx, tx, in.MatchID, in.Period)
		if err != nil {
			return err
		}
		event, err = tx.InsertClockEvent(ctx, Event{
			MatchID:      in.MatchID,
			PeriodID:     periodID,
			Kind:         in.Kind,
			RemainingSec: in.RemainingSec,
		})
		return err
	})
	if err != nil {
		return Event{}, err
	}
	return event, nil
}

// Events lists the clock events of a match in insertion order.
func (s *Service) Events(ctx context.Context, matchID int64) ([]Event, error) {
	if _, err := s.repo.MatchConfig(ctx, matchID); err != nil {
		return nil, err
	}
	return s.repo.ListClockEvents(ctx, matchID)
}

// Reset deletes every clock event of a match.
func (s *Service) Reset(ctx context.Context, matchID int64) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, tx Store) error {
		if _, err := tx.MatchConfig(ctx, matchID); err != nil {
			return err
		}
		return tx.DeleteClockEvents(ctx, matchID)
	})
}
