package memstore

import (
	"context"

	"github.com/courtline/courtline/internal/clock"
	"github.com/courtline/courtline/internal/fouls"
	"github.com/courtline/courtline/internal/scoring"
	"github.com/courtline/courtline/internal/shared"
	"github.com/courtline/courtline/internal/timeouts"
)

// checkRefs mirrors the foreign keys of the event tables.
func (st *state) checkRefs(matchID int64, periodID *int64) error {
	if _, ok := st.matches[matchID]; !ok {
		return shared.ErrMatchNotFound
	}
	if periodID == nil {
		return nil
	}
	p, ok := st.periods[*periodID]
	if !ok || p.MatchID != matchID {
		return missing("period %d", *periodID)
	}
	return nil
}

func (s *Store) InsertScoreEvent(ctx context.Context, e scoring.Event) (scoring.Event, error) {
	err := s.do("InsertScoreEvent", func(st *state) error {
		if err := st.checkRefs(e.MatchID, &e.PeriodID); err != nil {
			return err
		}
		e.ID = st.id()
		e.CreatedAt = s.now()
		st.scores = append(st.scores, e)
		return nil
	})
	if err != nil {
		return scoring.Event{}, err
	}
	return e, nil
}

func (s *Store) TeamPoints(ctx context.Context, matchID int64) (map[int64]int, error) {
	points := map[int64]int{}
	err := s.do("TeamPoints", func(st *state) error {
		for _, e := range st.scores {
			if e.MatchID == matchID {
				points[e.TeamID] += e.Points
			}
		}
		return nil
	})
	return points, err
}

func (s *Store) DeleteScoreEvents(ctx context.Context, matchID int64) error {
	return s.do("DeleteScoreEvents", func(st *state) error {
		st.scores = filter(st.scores, func(e scoring.Event) bool { return e.MatchID != matchID })
		return nil
	})
}

func (s *Store) InsertFoulEvent(ctx context.Context, e fouls.Event) (fouls.Event, error) {
	err := s.do("InsertFoulEvent", func(st *state) error {
		if err := st.checkRefs(e.MatchID, &e.PeriodID); err != nil {
			return err
		}
		e.ID = st.id()
		e.CreatedAt = s.now()
		st.fouls = append(st.fouls, e)
		return nil
	})
	if err != nil {
		return fouls.Event{}, err
	}
	return e, nil
}

func (s *Store) DeleteLatestFoul(ctx context.Context, matchID, teamID, playerID int64, periodID *int64) (bool, error) {
	var removed bool
	err := s.do("DeleteLatestFoul", func(st *state) error {
		for i := len(st.fouls) - 1; i >= 0; i-- {
			e := st.fouls[i]
			if e.MatchID != matchID || e.TeamID != teamID || e.PlayerID != playerID {
				continue
			}
			if periodID != nil && e.PeriodID != *periodID {
				continue
			}
			st.fouls = append(st.fouls[:i:i], st.fouls[i+1:]...)
			removed = true
			return nil
		}
		return nil
	})
	return removed, err
}

func (s *Store) FoulCounts(ctx context.Context, matchID int64) ([]fouls.Count, error) {
	type key struct{ team, player int64 }
	var out []fouls.Count
	err := s.do("FoulCounts", func(st *state) error {
		index := map[key]int{}
		for _, e := range st.fouls {
			if e.MatchID != matchID {
				continue
			}
			k := key{e.TeamID, e.PlayerID}
			i, ok := index[k]
			if !ok {
				i = len(out)
				index[k] = i
				out = append(out, fouls.Count{TeamID: e.TeamID, PlayerID: e.PlayerID})
			}
			out[i].Fouls++
		}
		return nil
	})
	return out, err
}

func (s *Store) DeleteFoulEvents(ctx context.Context, matchID int64) error {
	return s.do("DeleteFoulEvents", func(st *state) error {
		st.fouls = filter(st.fouls, func(e fouls.Event) bool { return e.MatchID != matchID })
		return nil
	})
}

func (s *Store) InsertTimeoutEvent(ctx context.Context, e timeouts.Event) (timeouts.Event, error) {
	err := s.do("InsertTimeoutEvent", func(st *state) error {
		if err := st.checkRefs(e.MatchID, e.PeriodID); err != nil {
			return err
		}
		e.ID = st.id()
		e.CreatedAt = s.now()
		st.timeouts = append(st.timeouts, e)
		return nil
	})
	if err != nil {
		return timeouts.Event{}, err
	}
	return e, nil
}

func (s *Store) DeleteLatestTimeout(ctx context.Context, matchID, teamID int64, kind timeouts.Kind) (bool, error) {
	var removed bool
	err := s.do("DeleteLatestTimeout", func(st *state) error {
		for i := len(st.timeouts) - 1; i >= 0; i-- {
			e := st.timeouts[i]
			if e.MatchID == matchID && e.TeamID == teamID && e.Kind == kind {
				st.timeouts = append(st.timeouts[:i:i], st.timeouts[i+1:]...)
				removed = true
				return nil
			}
		}
		return nil
	})
	return removed, err
}

func (s *Store) TimeoutCounts(ctx context.Context, matchID int64) ([]timeouts.Count, error) {
	type key struct {
		team int64
		kind timeouts.Kind
	}
	var out []timeouts.Count
	err := s.do("TimeoutCounts", func(st *state) error {
		index := map[key]int{}
		for _, e := range st.timeouts {
			if e.MatchID != matchID {
				continue
			}
			k := key{e.TeamID, e.Kind}
			i, ok := index[k]
			if !ok {
				i = len(out)
				index[k] = i
				out = append(out, timeouts.Count{TeamID: e.TeamID, Kind: e.Kind})
			}
			out[i].Count++
		}
		return nil
	})
	return out, err
}

func (s *Store) DeleteTimeoutEvents(ctx context.Context, matchID int64) error {
	return s.do("DeleteTimeoutEvents", func(st *state) error {
		st.timeouts = filter(st.timeouts, func(e timeouts.Event) bool { return e.MatchID != matchID })
		return nil
	})
}

func (s *Store) InsertClockEvent(ctx context.Context, e clock.Event) (clock.Event, error) {
	err := s.do("InsertClockEvent", func(st *state) error {
		if err := st.checkRefs(e.MatchID, &e.PeriodID); err != nil {
			return err
		}
		e.ID = st.id()
		e.CreatedAt = s.now()
		st.clock = append(st.clock, e)
		return nil
	})
	if err != nil {
		return clock.Event{}, err
	}
	return e, nil
}

func (s *Store) ListClockEvents(ctx context.Context, matchID int64) ([]clock.Event, error) {
	out := []clock.Event{}
	err := s.do("ListClockEvents", func(st *state) error {
		for _, e := range st.clock {
			if e.MatchID == matchID {
				out = append(out, e)
			}
		}
		return nil
	})
	return out, err
}

func (s *Store) DeleteClockEvents(ctx context.Context, matchID int64) error {
	return s.do("DeleteClockEvents", func(st *state) error {
		st.clock = filter(st.clock, func(e clock.Event) bool { return e.MatchID != matchID })
		return nil
	})
}
