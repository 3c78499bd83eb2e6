package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/courtline/courtline/internal/clock"
	"github.com/courtline/courtline/internal/fouls"
	"github.com/courtline/courtline/internal/match"
	"github.com/courtline/courtline/internal/scoring"
	"github.com/courtline/courtline/internal/shared"
	"github.com/courtline/courtline/internal/timeouts"
)

func (s *Store) MatchTeams(ctx context.Context, matchID int64) (match.Teams, error) {
	var teams match.Teams
	err := s.do("MatchTeams", func(st *state) error {
		m, ok := st.matches[matchID]
		if !ok {
			return shared.ErrMatchNotFound
		}
		teams = m.Teams()
		return nil
	})
	return teams, err
}

func (s *Store) Team(ctx context.Context, teamID int64) (match.Team, error) {
	var team match.Team
	err := s.do("Team", func(st *state) error {
		t, ok := st.teams[teamID]
		if !ok {
			return missing("team %d", teamID)
		}
		team = t
		return nil
	})
	return team, err
}

func (s *Store) TeamPlayers(ctx context.Context, teamID int64) ([]match.Player, error) {
	var players []match.Player
	err := s.do("TeamPlayers", func(st *state) error {
		for _, p := range st.players {
			if p.TeamID == teamID {
				players = append(players, p)
			}
		}
		sort.Slice(players, func(i, j int) bool { return *players[i].Jersey < *players[j].Jersey })
		return nil
	})
	return players, err
}

func (s *Store) GetMatch(ctx context.Context, matchID int64) (match.Match, error) {
	var m match.Match
	err := s.do("GetMatch", func(st *state) error {
		var ok bool
		if m, ok = st.matches[matchID]; !ok {
			return shared.ErrMatchNotFound
		}
		return nil
	})
	return m, err
}

func (s *Store) FindOpenMatch(ctx context.Context, homeTeamID, awayTeamID int64) (match.Match, bool, error) {
	var (
		found match.Match
		ok    bool
	)
	err := s.do("FindOpenMatch", func(st *state) error {
		for _, m := range st.matches {
			if m.HomeTeamID != homeTeamID || m.AwayTeamID != awayTeamID || m.Status == match.StatusFinished {
				continue
			}
			if !ok || m.ID > found.ID {
				found, ok = m, true
			}
		}
		return nil
	})
	return found, ok, err
}

func (s *Store) ListMatchesByStatus(ctx context.Context, status match.Status) ([]match.Match, error) {
	var out []match.Match
	err := s.do("ListMatchesByStatus", func(st *state) error {
		for _, m := range st.matches {
			if m.Status == status {
				out = append(out, m)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return nil
	})
	return out, err
}

func (s *Store) InsertMatch(ctx context.Context, m match.Match) (match.Match, error) {
	err := s.do("InsertMatch", func(st *state) error {
		for _, id := range []int64{m.HomeTeamID, m.AwayTeamID} {
			if _, ok := st.teams[id]; !ok {
				return missing("team %d", id)
			}
		}
		m.ID = st.id()
		m.CreatedAt = s.now()
		st.matches[m.ID] = m
		return nil
	})
	if err != nil {
		return match.Match{}, err
	}
	return m, nil
}

func (s *Store) UpdateSettings(ctx context.Context, matchID int64, settings match.Settings) error {
	return s.do("UpdateSettings", func(st *state) error {
		m, ok := st.matches[matchID]
		if !ok {
			return shared.ErrMatchNotFound
		}
		m.MinutesPerPeriod = settings.MinutesPerPeriod
		m.TotalPeriods = settings.TotalPeriods
		st.matches[matchID] = m
		return nil
	})
}

func (s *Store) SetStatus(ctx context.Context, matchID int64, status match.Status, at time.Time) error {
	return s.do("SetStatus", func(st *state) error {
		m, ok := st.matches[matchID]
		if !ok {
			return shared.ErrMatchNotFound
		}
		m.Status = status
		m.FinishedAt = nil
		if status == match.StatusFinished {
			m.FinishedAt = &at
		}
		st.matches[matchID] = m
		return nil
	})
}

// DeleteMatch cascades to periods and every event log.
func (s *Store) DeleteMatch(ctx context.Context, matchID int64) error {
	return s.do("DeleteMatch", func(st *state) error {
		if _, ok := st.matches[matchID]; !ok {
			return shared.ErrMatchNotFound
		}
		delete(st.matches, matchID)
		for id, p := range st.periods {
			if p.MatchID == matchID {
				delete(st.periods, id)
			}
		}
		st.dropEvents(matchID)
		return nil
	})
}

func (st *state) dropEvents(matchID int64) {
	st.scores = filter(st.scores, func(e scoring.Event) bool { return e.MatchID != matchID })
	st.fouls = filter(st.fouls, func(e fouls.Event) bool { return e.MatchID != matchID })
	st.timeouts = filter(st.timeouts, func(e timeouts.Event) bool { return e.MatchID != matchID })
	st.clock = filter(st.clock, func(e clock.Event) bool { return e.MatchID != matchID })
}

func filter[T any](in []T, keep func(T) bool) []T {
	out := in[:0:0]
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}
