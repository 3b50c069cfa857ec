package db

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ridi/hms/internal/platform/apperr"
)

// Postgres SQLSTATE codes translated into validation failures.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	checkViolation      = "23514"
	notNullViolation    = "23502"
)

// Translate maps a pgx error onto the apperr taxonomy. op names the
// operation for the error message, entity the row kind for not-found.
func Translate(err error, op, entity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(entity)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return apperr.Validation("%s already exists (%s)", entity, pgErr.ConstraintName)
		case foreignKeyViolation:
			return apperr.Validation("%s references a record that does not exist (%s)", entity, pgErr.ConstraintName)
		case checkViolation, notNullViolation:
			return apperr.Validation("invalid %s: %s", entity, pgErr.Message)
		}
	}
	return apperr.Backend(fmt.Sprintf("%s %s", op, entity), err)
}
