package quarters

import (
	"context"
	"time"

	"github.com/courtline/courtline/internal/announce"
	"github.com/courtline/courtline/internal/broadcast"
	"github.com/courtline/courtline/internal/shared"
)

// Service runs the period state machine. Each transition executes in one
// transaction and is broadcast only after it commits.
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
	return &Service{
		repo:     repo,
		notifier: notifier,
		messages: messages,
		now:      time.Now,
	}
}

// WithNow overrides the clock for deterministic tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Start opens play. An already active period is kept and its duration
// refreshed; otherwise the lowest pending period opens, and when none is
// left the next number opens as overtime.
func (s *Service) Start(ctx context.Context, matchID int64) (Descriptor, error) {
	var desc Descriptor
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx Store) error {
		var err error
		desc, err = s.start(ctx, tx, matchID)
		return err
	})
	if err != nil {
		return Descriptor{}, err
	}
	s.publish(ctx, matchID, desc, s.messages.PeriodStarted(desc.Number, desc.Total, desc.Overtime))
	return desc, nil
}

func (s *Service) start(ctx context.Context, tx Store, matchID int64) (Descriptor, error) {
	cfg, err := tx.MatchConfig(ctx, matchID)
	if err != nil {
		return Descriptor{}, err
	}
	now := s.now()
	if err := tx.MarkMatchInProgress(ctx, matchID, now); err != nil {
		return Descriptor{}, err
	}

	active, ok, err := tx.ActivePeriod(ctx, matchID)
	if err != nil {
		return Descriptor{}, err
	}
	if ok {
		active.DurationSec = cfg.Duration(active.Overtime)
		if active.StartedAt == nil {
			active.StartedAt = &now
		}
		if err := tx.UpdatePeriod(ctx, active); err != nil {
			return Descriptor{}, err
		}
		return Describe(active, cfg), nil
	}

	next, ok, err := tx.LowestPendingPeriod(ctx, matchID)
	if err != nil {
		return Descriptor{}, err
	}
	if !ok {
		maxNumber, err := tx.MaxPeriodNumber(ctx, matchID)
		if err != nil {
			return Descriptor{}, err
		}
		number := maxNumber + 1
		if next, err = s.insertPending(ctx, tx, cfg, number, true); err != nil {
			return Descriptor{}, err
		}
	}
	return s.open(ctx, tx, cfg, next, now)
}

// Restart rewinds the active period's clock to its full duration. Without
// an active period it behaves like Start.
func (s *Service) Restart(ctx context.Context, matchID int64) (Descriptor, error) {
	var (
		desc      Descriptor
		restarted bool
	)
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx Store) error {
		active, ok, err := tx.ActivePeriod(ctx, matchID)
		if err != nil {
			return err
		}
		if !ok {
			desc, err = s.start(ctx, tx, matchID)
			return err
		}
		cfg, err := tx.MatchConfig(ctx, matchID)
		if err != nil {
			return err
		}
		now := s.now()
		active.DurationSec = cfg.Duration(active.Overtime)
		active.RemainingSec = active.DurationSec
		active.StartedAt = &now
		if err := tx.UpdatePeriod(ctx, active); err != nil {
			return err
		}
		desc = Describe(active, cfg)
		restarted = true
		return nil
	})
	if err != nil {
		return Descriptor{}, err
	}
	text := s.messages.PeriodStarted(desc.Number, desc.Total, desc.Overtime)
	if restarted {
		text = s.messages.PeriodRestarted(desc.Number, desc.Total, desc.Overtime)
	}
	s.publish(ctx, matchID, desc, text)
	return desc, nil
}

// Finish closes the active period. The match itself stays in progress; only
// finalizing the match ends it. With nothing active the highest period is
// described unchanged.
func (s *Service) Finish(ctx context.Context, matchID int64) (Descriptor, error) {
	var (
		desc     Descriptor
		finished bool
	)
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx Store) error {
		cfg, err := tx.MatchConfig(ctx, matchID)
		if err != nil {
			return err
		}
		active, ok, err := tx.ActivePeriod(ctx, matchID)
		if err != nil {
			return err
		}
		if ok {
			now := s.now()
			active.Status = StatusFinished
			active.EndedAt = &now
			if err := tx.UpdatePeriod(ctx, active); err != nil {
				return err
			}
			desc = Describe(active, cfg)
			desc.Label = FinishLabel(active)
			finished = true
			return nil
		}

		maxNumber, err := tx.MaxPeriodNumber(ctx, matchID)
		if err != nil {
			return err
		}
		last, ok, err := tx.PeriodByNumber(ctx, matchID, max(1, maxNumber))
		if err != nil {
			return err
		}
		if ok {
			desc = Describe(last, cfg)
		} else {
			desc = DefaultDescriptor(cfg)
		}
		return nil
	})
	if err != nil {
		return Descriptor{}, err
	}
	text := s.messages.NoActivePeriod()
	if finished {
		text = s.messages.PeriodFinished(desc.Number, desc.Total, desc.Overtime, string(desc.Label))
	}
	s.publish(ctx, matchID, desc, text)
	return desc, nil
}

// SetNumber jumps to regulation period n, clamped to [1, total]. Whatever is
// active is finished first.
func (s *Service) SetNumber(ctx context.Context, matchID int64, n int) (Descriptor, error) {
	var desc Descriptor
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx Store) error {
		cfg, err := tx.MatchConfig(ctx, matchID)
		if err != nil {
			return err
		}
		desc, err = s.setNumber(ctx, tx, cfg, n)
		return err
	})
	if err != nil {
		return Descriptor{}, err
	}
	s.publish(ctx, matchID, desc, s.messages.PeriodSet(desc.Number))
	return desc, nil
}

func (s *Service) setNumber(ctx context.Context, tx Store, cfg MatchConfig, n int) (Descriptor, error) {
	n = min(max(n, 1), max(cfg.TotalPeriods, 1))
	now := s.now()
	if err := tx.FinishActivePeriods(ctx, cfg.MatchID, now); err != nil {
		return Descriptor{}, err
	}

	p, ok, err := tx.PeriodByNumber(ctx, cfg.MatchID, n)
	if err != nil {
		return Descriptor{}, err
	}
	if ok {
		p.Overtime = false
	} else if p, err = s.insertPending(ctx, tx, cfg, n, false); err != nil {
		return Descriptor{}, err
	}

	desc, err := s.open(ctx, tx, cfg, p, now)
	if err != nil {
		return Descriptor{}, err
	}
	if err := tx.MarkMatchInProgress(ctx, cfg.MatchID, now); err != nil {
		return Descriptor{}, err
	}
	return desc, nil
}

// Next advances one regulation period, or opens the first when none is
// active. It never enters overtime.
func (s *Service) Next(ctx context.Context, matchID int64) (Descriptor, error) {
	var desc Descriptor
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx Store) error {
		cfg, err := tx.MatchConfig(ctx, matchID)
		if err != nil {
			return err
		}
		target := 1
		active, ok, err := tx.ActivePeriod(ctx, matchID)
		if err != nil {
			return err
		}
		if ok {
			target = active.Number + 1
		}
		desc, err = s.setNumber(ctx, tx, cfg, min(target, cfg.TotalPeriods))
		return err
	})
	if err != nil {
		return Descriptor{}, err
	}
	s.publish(ctx, matchID, desc, s.messages.PeriodAdvanced(desc.Number, desc.Total))
	return desc, nil
}

// Previous is always rejected. Viewers are told why; nothing changes.
func (s *Service) Previous(ctx context.Context, matchID int64) error {
	if _, err := s.repo.MatchConfig(ctx, matchID); err != nil {
		return err
	}
	s.notifier.Announce(ctx, matchID, s.messages.CannotGoBack())
	return shared.ErrIllegalTransition
}

// EnterOvertime finishes the active period and opens the next number as a
// five minute overtime.
func (s *Service) EnterOvertime(ctx context.Context, matchID int64) (Descriptor, error) {
	var desc Descriptor
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx Store) error {
		cfg, err := tx.MatchConfig(ctx, matchID)
		if err != nil {
			return err
		}
		now := s.now()
		if err := tx.FinishActivePeriods(ctx, matchID, now); err != nil {
			return err
		}
		maxNumber, err := tx.MaxPeriodNumber(ctx, matchID)
		if err != nil {
			return err
		}
		p, err := s.insertPending(ctx, tx, cfg, maxNumber+1, true)
		if err != nil {
			return err
		}
		if desc, err = s.open(ctx, tx, cfg, p, now); err != nil {
			return err
		}
		return tx.MarkMatchInProgress(ctx, matchID, now)
	})
	if err != nil {
		return Descriptor{}, err
	}
	s.publish(ctx, matchID, desc, s.messages.PeriodStarted(desc.Number, desc.Total, true))
	return desc, nil
}

// Summary describes the active period, or period one when none is active.
func (s *Service) Summary(ctx context.Context, matchID int64) (Descriptor, error) {
	cfg, err := s.repo.MatchConfig(ctx, matchID)
	if err != nil {
		return Descriptor{}, err
	}
	active, ok, err := s.repo.ActivePeriod(ctx, matchID)
	if err != nil {
		return Descriptor{}, err
	}
	if !ok {
		return DefaultDescriptor(cfg), nil
	}
	return Describe(active, cfg), nil
}

func (s *Service) insertPending(ctx context.Context, tx Store, cfg MatchConfig, number int, overtime bool) (Period, error) {
	duration := cfg.Duration(overtime)
	return tx.InsertPeriod(ctx, Period{
		MatchID:      cfg.MatchID,
		Number:       number,
		Overtime:     overtime,
		DurationSec:  duration,
		RemainingSec: duration,
		Status:       StatusPending,
	})
}

// open makes p the active period with a full clock.
func (s *Service) open(ctx context.Context, tx Store, cfg MatchConfig, p Period, now time.Time) (Descriptor, error) {
	p.Status = StatusActive
	p.DurationSec = cfg.Duration(p.Overtime)
	p.RemainingSec = p.DurationSec
	if p.StartedAt == nil {
		p.StartedAt = &now
	}
	p.EndedAt = nil
	if err := tx.UpdatePeriod(ctx, p); err != nil {
		return Descriptor{}, err
	}
	return Describe(p, cfg), nil
}

func (s *Service) publish(ctx context.Context, matchID int64, desc Descriptor, text string) {
	s.notifier.Notify(ctx, matchID, broadcast.EventPeriodSync, desc)
	s.notifier.Announce(ctx, matchID, text)
}
