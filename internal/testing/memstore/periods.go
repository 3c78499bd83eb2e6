package memstore

import (
	"context"
	"time"

	"github.com/courtline/courtline/internal/match"
	"github.com/courtline/courtline/internal/quarters"
	"github.com/courtline/courtline/internal/shared"
)

func (s *Store) MatchConfig(ctx context.Context, matchID int64) (quarters.MatchConfig, error) {
	var cfg quarters.MatchConfig
	err := s.do("MatchConfig", func(st *state) error {
		m, ok := st.matches[matchID]
		if !ok {
			return shared.ErrMatchNotFound
		}
		cfg = quarters.MatchConfig{MatchID: m.ID, MinutesPerPeriod: m.MinutesPerPeriod, TotalPeriods: m.TotalPeriods}
		return nil
	})
	return cfg, err
}

func (s *Store) MarkMatchInProgress(ctx context.Context, matchID int64, at time.Time) error {
	return s.do("MarkMatchInProgress", func(st *state) error {
		m, ok := st.matches[matchID]
		if !ok {
			return shared.ErrMatchNotFound
		}
		m.Status = match.StatusInProgress
		if m.StartedAt == nil {
			m.StartedAt = &at
		}
		st.matches[matchID] = m
		return nil
	})
}

func (s *Store) ActivePeriod(ctx context.Context, matchID int64) (quarters.Period, bool, error) {
	return s.findPeriod("ActivePeriod", matchID, func(p quarters.Period) bool {
		return p.Status == quarters.StatusActive
	})
}

func (s *Store) LowestPendingPeriod(ctx context.Context, matchID int64) (quarters.Period, bool, error) {
	return s.findPeriod("LowestPendingPeriod", matchID, func(p quarters.Period) bool {
		return p.Status == quarters.StatusPending
	})
}

func (s *Store) PeriodByNumber(ctx context.Context, matchID int64, number int) (quarters.Period, bool, error) {
	return s.findPeriod("PeriodByNumber", matchID, func(p quarters.Period) bool {
		return p.Number == number
	})
}

func (s *Store) MaxPeriodNumber(ctx context.Context, matchID int64) (int, error) {
	var n int
	err := s.do("MaxPeriodNumber", func(st *state) error {
		for _, p := range st.periods {
			if p.MatchID == matchID && p.Number > n {
				n = p.Number
			}
		}
		return nil
	})
	return n, err
}

func (s *Store) InsertPeriod(ctx context.Context, p quarters.Period) (quarters.Period, error) {
	err := s.do("InsertPeriod", func(st *state) error {
		if _, ok := st.matches[p.MatchID]; !ok {
			return shared.ErrMatchNotFound
		}
		for _, other := range st.periods {
			if other.MatchID != p.MatchID {
				continue
			}
			if other.Number == p.Number {
				return conflict("period %d of match %d exists", p.Number, p.MatchID)
			}
			if p.Status == quarters.StatusActive && other.Status == quarters.StatusActive {
				return conflict("match %d already has an active period", p.MatchID)
			}
		}
		p.ID = st.id()
		st.periods[p.ID] = p
		return nil
	})
	if err != nil {
		return quarters.Period{}, err
	}
	return p, nil
}

func (s *Store) UpdatePeriod(ctx context.Context, p quarters.Period) error {
	return s.do("UpdatePeriod", func(st *state) error {
		current, ok := st.periods[p.ID]
		if !ok {
			return missing("period %d", p.ID)
		}
		if p.Status == quarters.StatusActive {
			for _, other := range st.periods {
				if other.ID != p.ID && other.MatchID == current.MatchID && other.Status == quarters.StatusActive {
					return conflict("match %d already has an active period", current.MatchID)
				}
			}
		}
		p.MatchID = current.MatchID
		p.Number = current.Number
		st.periods[p.ID] = p
		return nil
	})
}

func (s *Store) FinishActivePeriods(ctx context.Context, matchID int64, at time.Time) error {
	return s.do("FinishActivePeriods", func(st *state) error {
		for id, p := range st.periods {
			if p.MatchID == matchID && p.Status == quarters.StatusActive {
				p.Status = quarters.StatusFinished
				p.EndedAt = &at
				st.periods[id] = p
			}
		}
		return nil
	})
}

func (s *Store) findPeriod(method string, matchID int64, pred func(quarters.Period) bool) (quarters.Period, bool, error) {
	var (
		found quarters.Period
		ok    bool
	)
	err := s.do(method, func(st *state) error {
		for _, p := range st.periodsOf(matchID) {
			if pred(p) {
				found, ok = p, true
				return nil
			}
		}
		return nil
	})
	return found, ok, err
}
