package quarters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/courtline/courtline/internal/platform/db"
	"github.com/courtline/courtline/internal/shared"
)

const periodColumns = `id, match_id, number, is_overtime, duration_sec, remaining_sec, status, started_at, ended_at`

// PGStore implements Store on a pool or a transaction.
type PGStore struct {
	q db.Querier
}

// NewPGStore constructs a PGStore bound to q.
func NewPGStore(q db.Querier) *PGStore {
	return &PGStore{q: q}
}

func (s *PGStore) MatchConfig(ctx context.Context, matchID int64) (MatchConfig, error) {
	cfg := MatchConfig{MatchID: matchID}
	err := s.q.QueryRow(ctx,
		`SELECT minutes_per_period, total_periods FROM matches WHERE id = $1`, matchID).
		Scan(&cfg.MinutesPerPeriod, &cfg.TotalPeriods)
	if errors.Is(err, pgx.ErrNoRows) {
		return MatchConfig{}, shared.ErrMatchNotFound
	}
	if err != nil {
		return MatchConfig{}, fmt.Errorf("quarters: load match config: %w", err)
	}
	return cfg, nil
}

func (s *PGStore) MarkMatchInProgress(ctx context.Context, matchID int64, at time.Time) error {
	tag, err := s.q.Exec(ctx,
		`UPDATE matches SET status = 'in_progress', started_at = COALESCE(started_at, $2) WHERE id = $1`,
		matchID, at)
	if err != nil {
		return fmt.Errorf("quarters: mark match in progress: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrMatchNotFound
	}
	return nil
}

func (s *PGStore) ActivePeriod(ctx context.Context, matchID int64) (Period, bool, error) {
	return s.one(ctx, `SELECT `+periodColumns+` FROM periods
		WHERE match_id = $1 AND status = 'active' ORDER BY number LIMIT 1`, matchID)
}

func (s *PGStore) LowestPendingPeriod(ctx context.Context, matchID int64) (Period, bool, error) {
	return s.one(ctx, `SELECT `+periodColumns+` FROM periods
		WHERE match_id = $1 AND status = 'pending' ORDER BY number LIMIT 1`, matchID)
}

func (s *PGStore) PeriodByNumber(ctx context.Context, matchID int64, number int) (Period, bool, error) {
	return s.one(ctx, `SELECT `+periodColumns+` FROM periods
		WHERE match_id = $1 AND number = $2`, matchID, number)
}

func (s *PGStore) MaxPeriodNumber(ctx context.Context, matchID int64) (int, error) {
	var n int
	if err := s.q.QueryRow(ctx,
		`SELECT COALESCE(MAX(number), 0) FROM periods WHERE match_id = $1`, matchID).Scan(&n); err != nil {
		return 0, fmt.Errorf("quarters: max period number: %w", err)
	}
	return n, nil
}

func (s *PGStore) InsertPeriod(ctx context.Context, p Period) (Period, error) {
	err := s.q.QueryRow(ctx, `INSERT INTO periods
		(match_id, number, is_overtime, duration_sec, remaining_sec, status, started_at, ended_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		p.MatchID, p.Number, p.Overtime, p.DurationSec, p.RemainingSec, p.Status, p.StartedAt, p.EndedAt).
		Scan(&p.ID)
	if err != nil {
		return Period{}, fmt.Errorf("quarters: insert period %d: %w", p.Number, db.MapError(err))
	}
	return p, nil
}

func (s *PGStore) UpdatePeriod(ctx context.Context, p Period) error {
	_, err := s.q.Exec(ctx, `UPDATE periods SET
		is_overtime = $2, duration_sec = $3, remaining_sec = $4, status = $5, started_at = $6, ended_at = $7
		WHERE id = $1`,
		p.ID, p.Overtime, p.DurationSec, p.RemainingSec, p.Status, p.StartedAt, p.EndedAt)
	if err != nil {
		return fmt.Errorf("quarters: update period %d: %w", p.ID, db.MapError(err))
	}
	return nil
}

func (s *PGStore) FinishActivePeriods(ctx context.Context, matchID int64, at time.Time) error {
	_, err := s.q.Exec(ctx, `UPDATE periods SET status = 'finished', ended_at = $2
		WHERE match_id = $1 AND status = 'active'`, matchID, at)
	if err != nil {
		return fmt.Errorf("quarters: finish active periods: %w", err)
	}
	return nil
}

func (s *PGStore) one(ctx context.Context, query string, args ...any) (Period, bool, error) {
	p, err := scanPeriod(s.q.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return Period{}, false, nil
	}
	if err != nil {
		return Period{}, false, fmt.Errorf("quarters: load period: %w", err)
	}
	return p, true, nil
}

func scanPeriod(row pgx.Row) (Period, error) {
	var p Period
	var status string
	if err := row.Scan(&p.ID, &p.MatchID, &p.Number, &p.Overtime, &p.DurationSec, &p.RemainingSec,
		&status, &p.StartedAt, &p.EndedAt); err != nil {
		return Period{}, err
	}
	p.Status = Status(status)
	return p, nil
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
