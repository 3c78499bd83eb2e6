package match

import (
	"context"
	"time"

	"github.com/courtline/courtline/internal/announce"
	"github.com/courtline/courtline/internal/broadcast"
	"github.com/courtline/courtline/internal/quarters"
	"github.com/courtline/courtline/internal/shared"
)

// Service orchestrates the match lifecycle around the scoreboard.
type Service struct {
	repo     Repository
	notifier *broadcast.Notifier
	messages *announce.Messages
	now      func() time.Time
}

// NewService constructs a Service instance.
func NewService(repo Repository, notifier *broadcast.Notifier, messages *announce.Messages) *Service {
	if messages == nil {
		messages = announce.New("")
	}
	return &Service{repo: repo, notifier: notifier, messages: messages, now: time.Now}
}

// WithNow overrides the clock for deterministic tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Open returns the open match between the two teams, creating it with its
// pending regulation periods when none exists. The boolean reports creation.
func (s *Service) Open(ctx context.Context, in OpenInput) (Match, bool, error) {
	if err := in.Validate(); err != nil {
		return Match{}, false, err
	}
	if in.MinutesPerPeriod == 0 {
		in.MinutesPerPeriod = DefaultMinutesPerPeriod
	}
	if in.TotalPeriods == 0 {
		in.TotalPeriods = DefaultTotalPeriods
	}

	var (
		m       Match
		created bool
	)
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx Store) error {
		for _, teamID := range []int64{in.HomeTeamID, in.AwayTeamID} {
			if _, err := tx.Team(ctx, teamID); err != nil {
				return err
			}
		}
		existing, ok, err := tx.FindOpenMatch(ctx, in.HomeTeamID, in.AwayTeamID)
		if err != nil {
			return err
		}
		if ok {
			m = existing
			return nil
		}

		m, err = tx.InsertMatch(ctx, Match{
			HomeTeamID:       in.HomeTeamID,
			AwayTeamID:       in.AwayTeamID,
			ScheduledAt:      in.ScheduledAt,
			MinutesPerPeriod: in.MinutesPerPeriod,
			TotalPeriods:     in.TotalPeriods,
			Status:           StatusScheduled,
		})
		if err != nil {
			return err
		}
		cfg := quarters.MatchConfig{MatchID: m.ID, MinutesPerPeriod: m.MinutesPerPeriod, TotalPeriods: m.TotalPeriods}
		duration := cfg.Duration(false)
		for n := 1; n <= m.TotalPeriods; n++ {
			if _, err := tx.InsertPeriod(ctx, quarters.Period{
				MatchID:      m.ID,
				Number:       n,
				DurationSec:  duration,
				RemainingSec: duration,
				Status:       quarters.StatusPending,
			}); err != nil {
				return err
			}
		}
		created = true
		return nil
	})
	if err != nil {
		return Match{}, false, err
	}
	return m, created, nil
}

// FindOpen returns the scheduled or in-progress match between two teams.
func (s *Service) FindOpen(ctx context.Context, homeTeamID, awayTeamID int64) (Match, error) {
	m, ok, err := s.repo.FindOpenMatch(ctx, homeTeamID, awayTeamID)
	if err != nil {
		return Match{}, err
	}
	if !ok {
		return Match{}, shared.ErrMatchNotFound
	}
	return m, nil
}

// Get returns a match by id.
func (s *Service) Get(ctx context.Context, matchID int64) (Match, error) {
	return s.repo.GetMatch(ctx, matchID)
}

// InProgress lists the matches currently being played.
func (s *Service) InProgress(ctx context.Context) ([]Match, error) {
	return s.repo.ListMatchesByStatus(ctx, StatusInProgress)
}

// UpdateSettings changes minutes per period and period count. Existing
// period durations are refreshed the next time a period opens.
func (s *Service) UpdateSettings(ctx context.Context, matchID int64, settings Settings) (Match, error) {
	if err := settings.Validate(); err != nil {
		return Match{}, err
	}
	var m Match
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx Store) error {
		if err := tx.UpdateSettings(ctx, matchID, settings); err != nil {
			return err
		}
		var err error
		m, err = tx.GetMatch(ctx, matchID)
		return err
	})
	if err != nil {
		return Match{}, err
	}
	return m, nil
}

// Finalize ends the match and resets viewers to the base timer and period.
func (s *Service) Finalize(ctx context.Context, matchID int64) (Match, error) {
	var m Match
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx Store) error {
		if err := tx.SetStatus(ctx, matchID, StatusFinished, s.now()); err != nil {
			return err
		}
		var err error
		m, err = tx.GetMatch(ctx, matchID)
		return err
	})
	if err != nil {
		return Match{}, err
	}

	cfg := quarters.MatchConfig{MatchID: m.ID, MinutesPerPeriod: m.MinutesPerPeriod, TotalPeriods: m.TotalPeriods}
	duration := cfg.Duration(false)
	s.notifier.Announce(ctx, matchID, s.messages.MatchFinalized(matchID))
	s.notifier.Notify(ctx, matchID, broadcast.EventMatchClosed, broadcast.MatchRef{MatchID: matchID})
	s.notifier.Notify(ctx, matchID, broadcast.EventTimerSync, TimerState{Phase: "stopped", DurationSec: duration, RemainingSec: duration})
	s.notifier.Notify(ctx, matchID, broadcast.EventPeriodSync, quarters.DefaultDescriptor(cfg))
	return m, nil
}

// Reset deletes the match together with its periods and event logs.
func (s *Service) Reset(ctx context.Context, matchID int64) error {
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx Store) error {
		return tx.DeleteMatch(ctx, matchID)
	})
	if err != nil {
		return err
	}
	s.notifier.Notify(ctx, matchID, broadcast.EventMatchReset, broadcast.MatchRef{MatchID: matchID})
	return nil
}
