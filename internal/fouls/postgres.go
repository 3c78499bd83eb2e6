package fouls

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

func (s *PGStore) InsertFoulEvent(ctx context.Context, e Event) (Event, error) {
	err := s.q.QueryRow(ctx, `INSERT INTO foul_events (match_id, period_id, team_id, player_id)
		VALUES ($1, $2, $3, $4) RETURNING id, created_at`,
		e.MatchID, e.PeriodID, e.TeamID, e.PlayerID).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return Event{}, fmt.Errorf("fouls: insert event: %w", db.MapError(err))
	}
	return e, nil
}

func (s *PGStore) DeleteLatestFoul(ctx context.Context, matchID, teamID, playerID int64, periodID *int64) (bool, error) {
	tag, err := s.q.Exec(ctx, `DELETE FROM foul_events WHERE id = (
		SELECT id FROM foul_events
		WHERE match_id = $1 AND team_id = $2 AND player_id = $3
		  AND ($4::BIGINT IS NULL OR period_id = $4)
		ORDER BY id DESC LIMIT 1)`, matchID, teamID, playerID, periodID)
	if err != nil {
		return false, fmt.Errorf("fouls: delete latest: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PGStore) FoulCounts(ctx context.Context, matchID int64) ([]Count, error) {
	rows, err := s.q.Query(ctx, `SELECT team_id, player_id, COUNT(*) FROM foul_events
		WHERE match_id = $1 GROUP BY team_id, player_id ORDER BY team_id, player_id`, matchID)
	if err != nil {
		return nil, fmt.Errorf("fouls: count: %w", err)
	}
	defer rows.Close()

	var counts []Count
	for rows.Next() {
		var c Count
		if err := rows.Scan(&c.TeamID, &c.PlayerID, &c.Fouls); err != nil {
			return nil, fmt.Errorf("fouls: scan count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (s *PGStore) DeleteFoulEvents(ctx context.Context, matchID int64) error {
	if _, err := s.q.Exec(ctx, `DELETE FROM foul_events WHERE match_id = $1`, matchID); err != nil {
		return fmt.Errorf("fouls: delete events: %w", err)
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
