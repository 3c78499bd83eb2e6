package scoring

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

func (s *PGStore) InsertScoreEvent(ctx context.Context, e Event) (Event, error) {
	err := s.q.QueryRow(ctx, `INSERT INTO score_events (match_id, period_id, team_id, player_id, points)
		VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`,
		e.MatchID, e.PeriodID, e.TeamID, e.PlayerID, e.Points).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return Event{}, fmt.Errorf("scoring: insert event: %w", db.MapError(err))
	}
	return e, nil
}

func (s *PGStore) TeamPoints(ctx context.Context, matchID int64) (map[int64]int, error) {
	rows, err := s.q.Query(ctx, `SELECT team_id, COALESCE(SUM(points), 0) FROM score_events
		WHERE match_id = $1 GROUP BY team_id`, matchID)
	if err != nil {
		return nil, fmt.Errorf("scoring: sum points: %w", err)
	}
	defer rows.Close()

	points := make(map[int64]int)
	for rows.Next() {
		var teamID int64
		var total int
		if err := rows.Scan(&teamID, &total); err != nil {
			return nil, fmt.Errorf("scoring: scan points: %w", err)
		}
		points[teamID] = total
	}
	return points, rows.Err()
}

func (s *PGStore) DeleteScoreEvents(ctx context.Context, matchID int64) error {
	if _, err := s.q.Exec(ctx, `DELETE FROM score_events WHERE match_id = $1`, matchID); err != nil {
		return fmt.Errorf("scoring: delete events: %w", err)
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
