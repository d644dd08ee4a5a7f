package database

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	apperrors "github.com/utafrali/StallReview/pkg/errors"
)

// PostgreSQL SQLSTATE codes the repositories react to.
const (
	sqlStateUniqueViolation     = "23505"
	sqlStateForeignKeyViolation = "23503"
	sqlStateCheckViolation      = "23514"
)

// connPatterns are substrings of driver errors caused by a broken or
// unreachable connection rather than by the statement itself.
var connPatterns = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"no such host",
	"i/o timeout",
	"connect: connection",
	"dial tcp",
	"EOF",
	"connection timed out",
	"server closed the connection unexpectedly",
	"could not connect",
	"closed pool",
}

// isConnectionError returns true if the error looks like a transient connection
// problem rather than a SQL syntax or constraint error.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 08 is "connection exception".
		return strings.HasPrefix(pgErr.Code, "08")
	}
	if pgconn.Timeout(err) {
		return true
	}
	msg := err.Error()
	for _, p := range connPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// sqlState returns the SQLSTATE of a PostgreSQL error. Errors that do not
// carry a *pgconn.PgError (e.g. those produced by mocks) are matched on the
// "SQLSTATE xxxxx" text the driver prints.
func sqlState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	msg := err.Error()
	for _, code := range []string{sqlStateUniqueViolation, sqlStateForeignKeyViolation, sqlStateCheckViolation} {
		if strings.Contains(msg, code) {
			return code
		}
	}
	return ""
}

// WriteError describes a failed write for ClassifyWrite.
type WriteError struct {
	Resource string // e.g. "user"
	Field    string // unique field reported on a duplicate, e.g. "username"
	Value    string // value of Field
}

// ClassifyWrite turns a driver error from an INSERT/UPDATE/DELETE into a typed
// application error: duplicates become AlreadyExists, dangling references and
// check failures become Conflict, and lost connections become Unavailable.
// Anything else is wrapped with the given operation name.
func ClassifyWrite(err error, op string, w WriteError) error {
	if err == nil {
		return nil
	}
	if isConnectionError(err) {
		return apperrors.Unavailable(err)
	}
	switch sqlState(err) {
	case sqlStateUniqueViolation:
		return apperrors.AlreadyExists(w.Resource, w.Field, w.Value)
	case sqlStateForeignKeyViolation:
		return apperrors.Conflict(w.Resource + " references a record that does not exist")
	case sqlStateCheckViolation:
		return apperrors.Conflict(w.Resource + " violates a store constraint")
	}
	return apperrors.Wrap(err, op)
}

// ClassifyRead maps read errors: pgx.ErrNoRows becomes ErrNotFound, lost
// connections become Unavailable, and anything else is wrapped with op.
func ClassifyRead(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	if isConnectionError(err) {
		return apperrors.Unavailable(err)
	}
	return apperrors.Wrap(err, op)
}
