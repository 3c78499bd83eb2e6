// Package scoreboard assembles the full state of a match from the period
// state machine and every event log. Viewers that missed a push fetch it to
// resynchronize.
package scoreboard

import (
	"context"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/courtline/courtline/internal/broadcast"
	"github.com/courtline/courtline/internal/fouls"
	"github.com/courtline/courtline/internal/quarters"
	"github.com/courtline/courtline/internal/scoring"
	"github.com/courtline/courtline/internal/timeouts"
)

// Snapshot is everything a scoreboard display shows.
type Snapshot struct {
	MatchID     int64               `json:"matchId"`
	Period      quarters.Descriptor `json:"period"`
	Score       scoring.Totals      `json:"score"`
	Fouls       fouls.Summary       `json:"fouls"`
	Timeouts    timeouts.Summary    `json:"timeouts"`
	GeneratedAt time.Time           `json:"generatedAt"`
}

type PeriodReader interface {
	Summary(ctx context.Context, matchID int64) (quarters.Descriptor, error)
}

type ScoreReader interface {
	Totals(ctx context.Context, matchID int64) (scoring.Totals, error)
}

type FoulReader interface {
	Summary(ctx context.Context, matchID int64) (fouls.Summary, error)
}

type TimeoutReader interface {
	Summary(ctx context.Context, matchID int64) (timeouts.Summary, error)
}

// Service builds snapshots. Concurrent requests for the same match share one
// build.
type Service struct {
	periods  PeriodReader
	score    ScoreReader
	fouls    FoulReader
	timeouts TimeoutReader
	notifier *broadcast.Notifier
	group    singleflight.Group
	now      func() time.Time
}

// NewService constructs a Service instance.
func NewService(periods PeriodReader, score ScoreReader, fouls FoulReader, timeouts TimeoutReader, notifier *broadcast.Notifier) *Service {
	return &Service{
		periods:  periods,
		score:    score,
		fouls:    fouls,
		timeouts: timeouts,
		notifier: notifier,
		now:      time.Now,
	}
}

// WithNow overrides the clock for deterministic tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Snapshot returns the current state of a match.
func (s *Service) Snapshot(ctx context.Context, matchID int64) (Snapshot, error) {
	ch := s.group.DoChan(strconv.FormatInt(matchID, 10), func() (any, error) {
		return s.build(context.WithoutCancel(ctx), matchID)
	})
	select {
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Snapshot{}, res.Err
		}
		return res.Val.(Snapshot), nil
	}
}

// Publish pushes a fresh snapshot to the match's viewers.
func (s *Service) Publish(ctx context.Context, matchID int64) (Snapshot, error) {
	snap, err := s.Snapshot(ctx, matchID)
	if err != nil {
		return Snapshot{}, err
	}
	s.notifier.Notify(ctx, matchID, broadcast.EventScoreboard, snap)
	return snap, nil
}

func (s *Service) build(ctx context.Context, matchID int64) (Snapshot, error) {
	snap := Snapshot{MatchID: matchID}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		desc, err := s.periods.Summary(ctx, matchID)
		if err != nil {
			return err
		}
		snap.Period = desc
		return nil
	})
	g.Go(func() error {
		totals, err := s.score.Totals(ctx, matchID)
		if err != nil {
			return err
		}
		snap.Score = totals
		return nil
	})
	g.Go(func() error {
		summary, err := s.fouls.Summary(ctx, matchID)
		if err != nil {
			return err
		}
		snap.Fouls = summary
		return nil
	})
	g.Go(func() error {
		summary, err := s.timeouts.Summary(ctx, matchID)
		if err != nil {
			return err
		}
		snap.Timeouts = summary
		return nil
	})

	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	snap.GeneratedAt = s.now().UTC()
	return snap, nil
}
