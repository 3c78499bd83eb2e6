package timeouts

import (
	"context"

	"github.com/courtline/courtline/internal/broadcast"
	"github.com/courtline/courtline/internal/match"
	"github.com/courtline/courtline/internal/shared"
)

// Service applies timeout adjustments and rebuilds the summary.
type Service struct {
	repo     Repository
	resolver PeriodResolver
	notifier *broadcast.Notifier
}

// NewService constructs a Service instance.
func NewService(repo Repository, resolver PeriodResolver, notifier *broadcast.Notifier) *Service {
	return &Service{repo: repo, resolver: resolver, notifier: notifier}
}

// Adjust records or removes a timeout. A request without any period hint is
// charged to the match with no period; otherwise the shared resolver picks
// the period.
func (s *Service) Adjust(ctx context.Context, in AdjustInput) (Summary, error) {
	if err := in.Validate(); err != nil {
		return Summary{}, err
	}

	var (
		summary Summary
		changed bool
	)
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx Store) error {
		teams, err := tx.MatchTeams(ctx, in.MatchID)
		if err != nil {
			return err
		}
		if !teams.Has(in.TeamID) {
			return shared.Validationf("team %d does not play match %d", in.TeamID, in.MatchID)
		}

		if in.Delta > 0 {
			var periodID *int64
			if !in.Period.IsEmpty() {
				id, err := s.resolver.Resolve(ctx, tx, in.MatchID, in.Period)
				if err != nil {
					return err
				}
				periodID = &id
			}
			if _, err := tx.InsertTimeoutEvent(ctx, Event{
				MatchID:  in.MatchID,
				PeriodID: periodID,
				TeamID:   in.TeamID,
				Kind:     in.Kind,
			}); err != nil {
				return err
			}
			changed = true
		} else if changed, err = tx.DeleteLatestTimeout(ctx, in.MatchID, in.TeamID, in.Kind); err != nil {
			return err
		}

		summary, err = buildSummary(ctx, tx, teams)
		return err
	})
	if err != nil {
		return Summary{}, err
	}
	if changed {
		s.notifier.Notify(ctx, in.MatchID, broadcast.EventTimeoutsSync, summary)
	}
	return summary, nil
}

// Summary returns the timeout summary of a match.
func (s *Service) Summary(ctx context.Context, matchID int64) (Summary, error) {
	teams, err := s.repo.MatchTeams(ctx, matchID)
	if err != nil {
		return Summary{}, err
	}
	return buildSummary(ctx, s.repo, teams)
}

// Reset clears the timeout log of a match.
func (s *Service) Reset(ctx context.Context, matchID int64) (Summary, error) {
	var summary Summary
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx Store) error {
		teams, err := tx.MatchTeams(ctx, matchID)
		if err != nil {
			return err
		}
		if err := tx.DeleteTimeoutEvents(ctx, matchID); err != nil {
			return err
		}
		summary, err = buildSummary(ctx, tx, teams)
		return err
	})
	if err != nil {
		return Summary{}, err
	}
	s.notifier.Notify(ctx, matchID, broadcast.EventTimeoutsSync, summary)
	return summary, nil
}

type summaryReader interface {
	Team(ctx context.Context, teamID int64) (match.Team, error)
	TimeoutCounts(ctx context.Context, matchID int64) ([]Count, error)
}

func buildSummary(ctx context.Context, r summaryReader, teams match.Teams) (Summary, error) {
	counts, err := r.TimeoutCounts(ctx, teams.MatchID)
	if err != nil {
		return Summary{}, err
	}
	summary := Summary{MatchID: teams.MatchID}
	for _, side := range []struct {
		id  int64
		dst *TeamTimeouts
	}{{teams.Home, &summary.Home}, {teams.Away, &summary.Away}} {
		team, err := r.Team(ctx, side.id)
		if err != nil {
			return Summary{}, err
		}
		*side.dst = TeamTimeouts{TeamID: side.id, TeamName: team.Name}
		for _, c := range counts {
			if c.TeamID != side.id {
				continue
			}
			switch c.Kind {
			case KindShort:
				side.dst.Short += c.Count
			case KindLong:
				side.dst.Long += c.Count
			}
		}
		side.dst.Total = side.dst.Short + side.dst.Long
	}
	return summary, nil
}
