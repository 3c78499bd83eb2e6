package memstore

import (
	"context"

	"github.com/courtline/courtline/internal/clock"
	"github.com/courtline/courtline/internal/fouls"
	"github.com/courtline/courtline/internal/match"
	"github.com/courtline/courtline/internal/quarters"
	"github.com/courtline/courtline/internal/scoring"
	"github.com/courtline/courtline/internal/timeouts"
)

// Repository adapts the DB to every package's Repository interface.
type Repository struct {
	*Store
}

// Repo returns a Repository over d.
func (d *DB) Repo() Repository {
	return Repository{Store: d.Store()}
}

// Quarters adapts the DB to quarters.Repository.
func (d *DB) Quarters() quarters.Repository { return quartersRepo{d.Repo()} }

// Matches adapts the DB to match.Repository.
func (d *DB) Matches() match.Repository { return matchRepo{d.Repo()} }

// Scoring adapts the DB to scoring.Repository.
func (d *DB) Scoring() scoring.Repository { return scoringRepo{d.Repo()} }

// Fouls adapts the DB to fouls.Repository.
func (d *DB) Fouls() fouls.Repository { return foulsRepo{d.Repo()} }

// Timeouts adapts the DB to timeouts.Repository.
func (d *DB) Timeouts() timeouts.Repository { return timeoutsRepo{d.Repo()} }

// Clock adapts the DB to clock.Repository.
func (d *DB) Clock() clock.Repository { return clockRepo{d.Repo()} }

type quartersRepo struct{ Repository }

func (r quartersRepo) WithTx(ctx context.Context, fn func(ctx context.Context, tx quarters.Store) error) error {
	return r.db.WithTx(ctx, func(tx *Store) error { return fn(ctx, tx) })
}

type matchRepo struct{ Repository }

func (r matchRepo) WithTx(ctx context.Context, fn func(ctx context.Context, tx match.Store) error) error {
	return r.db.WithTx(ctx, func(tx *Store) error { return fn(ctx, tx) })
}

type scoringRepo struct{ Repository }

func (r scoringRepo) WithTx(ctx context.Context, fn func(ctx context.Context, tx scoring.Store) error) error {
	return r.db.WithTx(ctx, func(tx *Store) error { return fn(ctx, tx) })
}

type foulsRepo struct{ Repository }

func (r foulsRepo) WithTx(ctx context.Context, fn func(ctx context.Context, tx fouls.Store) error) error {
	return r.db.WithTx(ctx, func(tx *Store) error { return fn(ctx, tx) })
}

type timeoutsRepo struct{ Repository }

func (r timeoutsRepo) WithTx(ctx context.Context, fn func(ctx context.Context, tx timeouts.Store) error) error {
	return r.db.WithTx(ctx, func(tx *Store) error { return fn(ctx, tx) })
}

type clockRepo struct{ Repository }

func (r clockRepo) WithTx(ctx context.Context, fn func(ctx context.Context, tx clock.Store) error) error {
	return r.db.WithTx(ctx, func(tx *Store) error { return fn(ctx, tx) })
}
