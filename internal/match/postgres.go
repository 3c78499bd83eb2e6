package match

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/courtline/courtline/internal/platform/db"
	"github.com/courtline/courtline/internal/quarters"
	"github.com/courtline/courtline/internal/shared"
)

const matchColumns = `id, home_team_id, away_team_id, scheduled_at, minutes_per_period, total_periods,
	status, started_at, finished_at, created_at`

// PGStore implements Store on a pool or a transaction.
type PGStore struct {
	*quarters.PGStore
	q db.Querier
}

// NewPGStore constructs a PGStore bound to q.
func NewPGStore(q db.Querier) *PGStore {
	return &PGStore{PGStore: quarters.NewPGStore(q), q: q}
}

func (s *PGStore) MatchTeams(ctx context.Context, matchID int64) (Teams, error) {
	t := Teams{MatchID: matchID}
	err := s.q.QueryRow(ctx, `SELECT home_team_id, away_team_id FROM matches WHERE id = $1`, matchID).
		Scan(&t.Home, &t.Away)
	if errors.Is(err, pgx.ErrNoRows) {
		return Teams{}, shared.ErrMatchNotFound
	}
	if err != nil {
		return Teams{}, fmt.Errorf("match: load teams: %w", err)
	}
	return t, nil
}

func (s *PGStore) Team(ctx context.Context, teamID int64) (Team, error) {
	t := Team{ID: teamID}
	err := s.q.QueryRow(ctx, `SELECT name FROM teams WHERE id = $1`, teamID).Scan(&t.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return Team{}, fmt.Errorf("team %d: %w", teamID, shared.ErrNotFound)
	}
	if err != nil {
		return Team{}, fmt.Errorf("match: load team: %w", err)
	}
	return t, nil
}

func (s *PGStore) TeamPlayers(ctx context.Context, teamID int64) ([]Player, error) {
	rows, err := s.q.Query(ctx, `SELECT id, team_id, jersey, name, position FROM players
		WHERE team_id = $1 ORDER BY jersey NULLS LAST, name`, teamID)
	if err != nil {
		return nil, fmt.Errorf("match: list players: %w", err)
	}
	defer rows.Close()

	var players []Player
	for rows.Next() {
		var p Player
		if err := rows.Scan(&p.ID, &p.TeamID, &p.Jersey, &p.Name, &p.Position); err != nil {
			return nil, fmt.Errorf("match: scan player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (s *PGStore) GetMatch(ctx context.Context, matchID int64) (Match, error) {
	m, err := scanMatch(s.q.QueryRow(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = $1`, matchID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Match{}, shared.ErrMatchNotFound
	}
	if err != nil {
		return Match{}, fmt.Errorf("match: load match: %w", err)
	}
	return m, nil
}

func (s *PGStore) FindOpenMatch(ctx context.Context, homeTeamID, awayTeamID int64) (Match, bool, error) {
	m, err := scanMatch(s.q.QueryRow(ctx, `SELECT `+matchColumns+` FROM matches
		WHERE home_team_id = $1 AND away_team_id = $2 AND status IN ('scheduled', 'in_progress')
		ORDER BY id DESC LIMIT 1`, homeTeamID, awayTeamID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Match{}, false, nil
	}
	if err != nil {
		return Match{}, false, fmt.Errorf("match: find open match: %w", err)
	}
	return m, true, nil
}

func (s *PGStore) ListMatchesByStatus(ctx context.Context, status Status) ([]Match, error) {
	rows, err := s.q.Query(ctx, `SELECT `+matchColumns+` FROM matches WHERE status = $1 ORDER BY id`, status)
	if err != nil {
		return nil, fmt.Errorf("match: list by status: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("match: scan match: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (s *PGStore) InsertMatch(ctx context.Context, m Match) (Match, error) {
	err := s.q.QueryRow(ctx, `INSERT INTO matches
		(home_team_id, away_team_id, scheduled_at, minutes_per_period, total_periods, status)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`,
		m.HomeTeamID, m.AwayTeamID, m.ScheduledAt, m.MinutesPerPeriod, m.TotalPeriods, m.Status).
		Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return Match{}, fmt.Errorf("match: insert match: %w", db.MapError(err))
	}
	return m, nil
}

func (s *PGStore) UpdateSettings(ctx context.Context, matchID int64, settings Settings) error {
	tag, err := s.q.Exec(ctx, `UPDATE matches SET minutes_per_period = $2, total_periods = $3 WHERE id = $1`,
		matchID, settings.MinutesPerPeriod, settings.TotalPeriods)
	if err != nil {
		return fmt.Errorf("match: update settings: %w", db.MapError(err))
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrMatchNotFound
	}
	return nil
}

func (s *PGStore) SetStatus(ctx context.Context, matchID int64, status Status, at time.Time) error {
	var finishedAt *time.Time
	if status == StatusFinished {
		finishedAt = &at
	}
	tag, err := s.q.Exec(ctx, `UPDATE matches SET status = $2, finished_at = $3 WHERE id = $1`,
		matchID, status, finishedAt)
	if err != nil {
		return fmt.Errorf("match: set status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrMatchNotFound
	}
	return nil
}

// DeleteMatch removes the match; periods and event logs cascade.
func (s *PGStore) DeleteMatch(ctx context.Context, matchID int64) error {
	tag, err := s.q.Exec(ctx, `DELETE FROM matches WHERE id = $1`, matchID)
	if err != nil {
		return fmt.Errorf("match: delete match: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrMatchNotFound
	}
	return nil
}

func scanMatch(row pgx.Row) (Match, error) {
	var m Match
	var status string
	if err := row.Scan(&m.ID, &m.HomeTeamID, &m.AwayTeamID, &m.ScheduledAt, &m.MinutesPerPeriod,
		&m.TotalPeriods, &status, &m.StartedAt, &m.FinishedAt, &m.CreatedAt); err != nil {
		return Match{}, err
	}
	m.Status = Status(status)
	return m, nil
}

// PGRepository is the Postgres Repository.
type PGRepository struct {
	*PGStore
	pool *pgxpool.Pool
}

// NewRepository constructs a PGRepository using the provided pool.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{PGStore: NewPGStore(pool), pool: pool}
}

// WithTx runs fn inside a read-committed transaction.
func (r *PGRepository) WithTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, NewPGStore(tx))
	})
}
