// Package memstore is an in-memory stand-in for the Postgres stores. A single
// Store value satisfies the Store interface of every scoreboard package, and
// DB.WithTx gives serializable, all-or-nothing transactions so service tests
// can assert rollback behaviour without a database.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/courtline/courtline/internal/clock"
	"github.com/courtline/courtline/internal/fouls"
	"github.com/courtline/courtline/internal/match"
	"github.com/courtline/courtline/internal/quarters"
	"github.com/courtline/courtline/internal/scoring"
	"github.com/courtline/courtline/internal/shared"
	_ "github.com/courtline/courtline/internal/testing/guard"
	"github.com/courtline/courtline/internal/timeouts"
)

type state struct {
	nextID   int64
	teams    map[int64]match.Team
	players  map[int64]match.Player
	matches  map[int64]match.Match
	periods  map[int64]quarters.Period
	scores   []scoring.Event
	fouls    []fouls.Event
	timeouts []timeouts.Event
	clock    []clock.Event
}

func newState() *state {
	return &state{
		teams:   map[int64]match.Team{},
		players: map[int64]match.Player{},
		matches: map[int64]match.Match{},
		periods: map[int64]quarters.Period{},
	}
}

func (s *state) clone() *state {
	c := &state{
		nextID:   s.nextID,
		teams:    make(map[int64]match.Team, len(s.teams)),
		players:  make(map[int64]match.Player, len(s.players)),
		matches:  make(map[int64]match.Match, len(s.matches)),
		periods:  make(map[int64]quarters.Period, len(s.periods)),
		scores:   append([]scoring.Event(nil), s.scores...),
		fouls:    append([]fouls.Event(nil), s.fouls...),
		timeouts: append([]timeouts.Event(nil), s.timeouts...),
		clock:    append([]clock.Event(nil), s.clock...),
	}
	for k, v := range s.teams {
		c.teams[k] = v
	}
	for k, v := range s.players {
		c.players[k] = v
	}
	for k, v := range s.matches {
		c.matches[k] = v
	}
	for k, v := range s.periods {
		c.periods[k] = v
	}
	return c
}

func (s *state) id() int64 {
	s.nextID++
	return s.nextID
}

// DB owns the committed state.
type DB struct {
	mu    sync.Mutex
	st    *state
	fail  map[string]error
	clock func() time.Time
}

// New returns an empty DB.
func New() *DB {
	return &DB{st: newState(), fail: map[string]error{}, clock: time.Now}
}

// FailOn makes the named store method return err until cleared with a nil err.
func (d *DB) FailOn(method string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err == nil {
		delete(d.fail, method)
		return
	}
	d.fail[method] = err
}

// WithTx runs fn against a private copy of the state and commits it only when
// fn succeeds. Transactions are serialized.
func (d *DB) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	work := d.st.clone()
	if err := fn(&Store{db: d, tx: work}); err != nil {
		return err
	}
	d.st = work
	return nil
}

// Store reads and writes either the committed state or a transaction copy.
func (d *DB) Store() *Store {
	return &Store{db: d}
}

// AddTeam seeds a team.
func (d *DB) AddTeam(name string) match.Team {
	d.mu.Lock()
	defer d.mu.Unlock()
	t := match.Team{ID: d.st.id(), Name: name}
	d.st.teams[t.ID] = t
	return t
}

// AddPlayer seeds a roster player.
func (d *DB) AddPlayer(teamID int64, jersey int, name string) match.Player {
	d.mu.Lock()
	defer d.mu.Unlock()
	p := match.Player{ID: d.st.id(), TeamID: teamID, Jersey: &jersey, Name: name}
	d.st.players[p.ID] = p
	return p
}

// MovePlayer transfers a player to another roster. Logged events keep the
// team they were recorded for.
func (d *DB) MovePlayer(playerID, teamID int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p, ok := d.st.players[playerID]; ok {
		p.TeamID = teamID
		d.st.players[playerID] = p
	}
}

// Periods returns the periods of a match ordered by number.
func (d *DB) Periods(matchID int64) []quarters.Period {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.st.periodsOf(matchID)
}

// Match returns the committed match row.
func (d *DB) Match(matchID int64) (match.Match, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	m, ok := d.st.matches[matchID]
	return m, ok
}

// ScoreEvents returns the committed score log of a match.
func (d *DB) ScoreEvents(matchID int64) []scoring.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []scoring.Event
	for _, e := range d.st.scores {
		if e.MatchID == matchID {
			out = append(out, e)
		}
	}
	return out
}

// FoulEvents returns the committed foul log of a match.
func (d *DB) FoulEvents(matchID int64) []fouls.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []fouls.Event
	for _, e := range d.st.fouls {
		if e.MatchID == matchID {
			out = append(out, e)
		}
	}
	return out
}

// TimeoutEvents returns the committed timeout log of a match.
func (d *DB) TimeoutEvents(matchID int64) []timeouts.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []timeouts.Event
	for _, e := range d.st.timeouts {
		if e.MatchID == matchID {
			out = append(out, e)
		}
	}
	return out
}

func (s *state) periodsOf(matchID int64) []quarters.Period {
	var out []quarters.Period
	for _, p := range s.periods {
		if p.MatchID == matchID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// Store implements the Store interfaces of quarters, match, scoring, fouls,
// timeouts and clock.
type Store struct {
	db *DB
	tx *state
}

func (s *Store) do(method string, fn func(st *state) error) error {
	if s.tx != nil {
		if err := s.db.fail[method]; err != nil {
			return err
		}
		return fn(s.tx)
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.fail[method]; err != nil {
		return err
	}
	return fn(s.db.st)
}

func (s *Store) now() time.Time {
	return s.db.clock()
}

func conflict(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), shared.ErrConflict)
}

func missing(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), shared.ErrNotFound)
}
