package clock

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/courtline/courtline/internal/platform/db"
	"github.com/courtline/courtline/internal/quarters"
)

// PGStore implements Store on a pool or a transaction.
type PGStore struct {
	*quarters.PGStore
	q db.Querier
}

// NewPGStore constructs a PGStore bound to q.
func NewPGStore(q db.Querier) *PGStore {
	return &PGStore{PGStore: quarters.NewPGStore(q), q: q}
}

func (s *PGStore) InsertClockEvent(ctx context.Context, e Event) (Event, error) {
	err := s.q.QueryRow(ctx, `INSERT INTO clock_events (match_id, period_id, kind, remaining_sec)
		VALUES ($1, $2, $3, $4) RETURNING id, created_at`,
		e.MatchID, e.PeriodID, e.Kind, e.RemainingSec).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return Event{}, fmt.Errorf("clock: insert event: %w", db.MapError(err))
	}
	return e, nil
}

func (s *PGStore) ListClockEvents(ctx context.Context, matchID int64) ([]Event, error) {
	rows, err := s.q.Query(ctx, `SELECT id, match_id, period_id, kind, remaining_sec, created_at
		FROM clock_events WHERE match_id = $1 ORDER BY id`, matchID)
	if err != nil {
		return nil, fmt.Errorf("clock: list events: %w", err)
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		var e Event
		var kind string
		if err := rows.Scan(&e.ID, &e.MatchID, &e.PeriodID, &kind, &e.RemainingSec, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("clock: scan event: %w", err)
		}
		e.Kind = Kind(kind)
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *PGStore) DeleteClockEvents(ctx context.Context, matchID int64) error {
	if _, err := s.q.Exec(ctx, `DELETE FROM clock_events WHERE match_id = $1`, matchID); err != nil {
		return fmt.Errorf("clock: delete events: %w", err)
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
