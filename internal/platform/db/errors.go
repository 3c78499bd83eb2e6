package db

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/courtline/courtline/internal/shared"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// MapError tags constraint violations with the matching error kind so the
// transport layer can report them. Other errors pass through untouched.
func MapError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return fmt.Errorf("%w: %s", shared.ErrConflict, pgErr.ConstraintName)
	case pgForeignKeyViolation:
		return fmt.Errorf("%w: %s", shared.ErrNotFound, pgErr.ConstraintName)
	case pgCheckViolation:
		return fmt.Errorf("%w: %s", shared.ErrValidation, pgErr.ConstraintName)
	default:
		return err
	}
}
