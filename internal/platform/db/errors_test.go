package db

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/courtline/courtline/internal/shared"
)

func TestMapErrorTagsConstraintViolations(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "periods_one_active"}
	assert.True(t, errors.Is(MapError(unique), shared.ErrConflict))
	assert.Contains(t, MapError(unique).Error(), "periods_one_active")

	fk := &pgconn.PgError{Code: "23503", ConstraintName: "score_events_team_id_fkey"}
	assert.Equal(t, shared.KindNotFound, shared.KindOf(MapError(fk)))

	check := &pgconn.PgError{Code: "23514", ConstraintName: "score_events_points_check"}
	assert.Equal(t, shared.KindValidation, shared.KindOf(MapError(check)))
}

func TestMapErrorPassesThroughOtherErrors(t *testing.T) {
	plain := errors.New("connection reset")
	assert.Same(t, plain, MapError(plain))

	other := &pgconn.PgError{Code: "40001"}
	assert.Equal(t, shared.KindFatal, shared.KindOf(MapError(other)))
}
