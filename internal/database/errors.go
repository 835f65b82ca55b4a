package database

import (
	"context"
	"errors"
	"net"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/tapri-app/tapri-api/internal/apperr"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

// MapError translates a pgx error into the apperr taxonomy. entity names the
// row kind for NotFound and Duplicate messages.
func MapError(err error, entity string) error {
	if err == nil {
		return nil
	}

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(entity)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return apperr.Duplicate(entity + " already exists")
		case codeForeignKeyViolation:
			return apperr.NotFound("referenced record")
		case codeCheckViolation:
			return apperr.Validation(pgErr.ColumnName, entity+" violates a constraint")
		}
		return apperr.Internal(entity+" query failed", err)
	}

	if IsConnectionError(err) {
		return apperr.StoreUnavailable(err)
	}

	return apperr.Internal(entity+" query failed", err)
}

// IsUniqueViolation reports whether err is a unique violation and, if so,
// which constraint was hit.
func IsUniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

func IsConnectionError(err error) bool {
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return pgconn.Timeout(err) || errors.Is(err, context.DeadlineExceeded)
}
