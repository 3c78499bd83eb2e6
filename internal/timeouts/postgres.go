package timeouts

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/courtline/courtline/internal/match"
	"github.com/courtline/courtline/internal/platform/db"
)

// PGStore implements Store on a pool or a transaction.
type PGStore struct {
	*match.PGStore
	q db.Querier
}

// NewPGStore constructs a PGStore bound to q.
func NewPGStore(q db.Querier) *PGStore {
	return &PGStore{PGStore: match.NewPGStore(q), q: q}
}

func (s *PGStore) InsertTimeoutEvent(ctx context.Context, e Event) (Event, error) {
	err := s.q.QueryRow(ctx, `INSERT INTO timeout_events (match_id, period_id, team_id, kind)
		VALUES ($1, $2, $3, $4) RETURNING id, created_at`,
		e.MatchID, e.PeriodID, e.TeamID, e.Kind).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return Event{}, fmt.Errorf("timeouts: insert event: %w", db.MapError(err))
	}
	return e, nil
}

func (s *PGStore) DeleteLatestTimeout(ctx context.Context, matchID, teamID int64, kind Kind) (bool, error) {
	tag, err := s.q.Exec(ctx, `DELETE FROM timeout_events WHERE id = (
		SELECT id FROM timeout_events
		WHERE match_id = $1 AND team_id = $2 AND kind = $3
		ORDER BY id DESC LIMIT 1)`, matchID, teamID, kind)
	if err != nil {
		return false, fmt.Errorf("timeouts: delete latest: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PGStore) TimeoutCounts(ctx context.Context, matchID int64) ([]Count, error) {
	rows, err := s.q.Query(ctx, `SELECT team_id, kind, COUNT(*) FROM timeout_events
		WHERE match_id = $1 GROUP BY team_id, kind ORDER BY team_id, kind`, matchID)
	if err != nil {
		return nil, fmt.Errorf("timeouts: count: %w", err)
	}
	defer rows.Close()

	var counts []Count
	for rows.Next() {
		var c Count
		var kind string
		if err := rows.Scan(&c.TeamID, &kind, &c.Count); err != nil {
			return nil, fmt.Errorf("timeouts: scan count: %w", err)
		}
		c.Kind = Kind(kind)
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (s *PGStore) DeleteTimeoutEvents(ctx context.Context, matchID int64) error {
	if _, err := s.q.Exec(ctx, `DELETE FROM timeout_events WHERE match_id = $1`, matchID); err != nil {
		return fmt.Errorf("timeouts: delete events: %w", err)
	}
	return nil
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
