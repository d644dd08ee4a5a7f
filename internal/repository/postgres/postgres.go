// Package postgres implements the repository interfaces on PostgreSQL via pgx.
package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/StallReview/pkg/database"
	apperrors "github.com/utafrali/StallReview/pkg/errors"
)

// scanFunc reads one entity from the current row.
type scanFunc[T any] func(row pgx.Row) (*T, error)

// collect drains rows into a non-nil slice and closes them.
func collect[T any](rows pgx.Rows, scan scanFunc[T]) ([]T, error) {
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// lookupError turns a missing row into a NotFound error naming the lookup key
// and classifies everything else.
func lookupError(err error, op, resource, field string, value any) error {
	if errors.Is(err, pgx.ErrNoRows) {
		if field == "id" {
			return apperrors.NotFound(resource, value)
		}
		return apperrors.NotFoundBy(resource, field, value)
	}
	return database.ClassifyRead(err, op)
}
