package scoring

import (
	"context"
	"fmt"

	"github.com/courtline/courtline/internal/broadcast"
	"github.com/courtline/courtline/internal/match"
	"github.com/courtline/courtline/internal/shared"
)

// Service applies score adjustments and recomputes totals.
type Service struct {
	repo     Repository
	resolver PeriodResolver
	notifier *broadcast.Notifier
}

// NewService constructs a Service instance.
func NewService(repo Repository, resolver PeriodResolver, notifier *broadcast.Notifier) *Service {
	return &Service{repo: repo, resolver: resolver, notifier: notifier}
}

// Adjust records delta points for a team. A negative delta that would push
// the team below zero is clamped; when nothing is left to remove no event is
// written and the totals come back unchanged.
func (s *Service) Adjust(ctx context.Context, in AdjustInput) (Totals, error) {
	if err := in.Validate(); err != nil {
		return Totals{}, err
	}

	var (
		totals  Totals
		written bool
	)
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx Store) error {
		teams, err := tx.MatchTeams(ctx, in.MatchID)
		if err != nil {
			return err
		}
		if !teams.Has(in.TeamID) {
			return shared.Validationf("team %d does not play match %d", in.TeamID, in.MatchID)
		}
		points, err := tx.TeamPoints(ctx, in.MatchID)
		if err != nil {
			return err
		}

		applied := in.Delta
		if current := points[in.TeamID]; current+applied < 0 {
			applied = -current
		}
		if applied != 0 {
			periodID, err := s.resolver.Resolve(ctx, tx, in.MatchID, in.Period)
			if err != nil {
				return err
			}
			if _, err := tx.InsertScoreEvent(ctx, Event{
				MatchID:  in.MatchID,
				PeriodID: periodID,
				TeamID:   in.TeamID,
				PlayerID: in.PlayerID,
				Points:   applied,
			}); err != nil {
				return err
			}
			written = true
		}

		totals, err = totalsFor(ctx, tx, teams)
		return err
	})
	if err != nil {
		return Totals{}, err
	}
	if written {
		s.notifier.Notify(ctx, in.MatchID, broadcast.EventScoreUpdated, totals)
	}
	return totals, nil
}

// Totals returns the current score of a match.
func (s *Service) Totals(ctx context.Context, matchID int64) (Totals, error) {
	teams, err := s.repo.MatchTeams(ctx, matchID)
	if err != nil {
		return Totals{}, err
	}
	return totalsFor(ctx, s.repo, teams)
}

// Reset clears the score log of a match.
func (s *Service) Reset(ctx context.Context, matchID int64) (Totals, error) {
	var teams match.Teams
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx Store) error {
		var err error
		if teams, err = tx.MatchTeams(ctx, matchID); err != nil {
			return err
		}
		return tx.DeleteScoreEvents(ctx, matchID)
	})
	if err != nil {
		return Totals{}, err
	}
	totals := emptyTotals(teams)
	s.notifier.Notify(ctx, matchID, broadcast.EventScoreUpdated, totals)
	return totals, nil
}

type pointsReader interface {
	TeamPoints(ctx context.Context, matchID int64) (map[int64]int, error)
}

func totalsFor(ctx context.Context, r pointsReader, teams match.Teams) (Totals, error) {
	points, err := r.TeamPoints(ctx, teams.MatchID)
	if err != nil {
		return Totals{}, fmt.Errorf("scoring: totals: %w", err)
	}
	totals := emptyTotals(teams)
	totals.Home = points[teams.Home]
	totals.Away = points[teams.Away]
	return totals, nil
}

func emptyTotals(teams match.Teams) Totals {
	return Totals{MatchID: teams.MatchID, HomeTeamID: teams.Home, AwayTeamID: teams.Away}
}
