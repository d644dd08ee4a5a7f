package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/StallReview/internal/domain"
	"github.com/utafrali/StallReview/pkg/database"
	apperrors "github.com/utafrali/StallReview/pkg/errors"
)

const reviewColumns = `id, stall_id, user_id, rating, comment, created_at`

// ReviewRepository implements repository.ReviewRepository using PostgreSQL.
type ReviewRepository struct {
	db database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(db database.DBTX) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func scanReview(row pgx.Row) (*domain.Review, error) {
	var rv domain.Review
	if err := row.Scan(&rv.ID, &rv.StallID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
		return nil, err
	}
	return &rv, nil
}

// Create inserts a review. The rating CHECK constraint and the foreign keys
// surface as conflicts.
func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) (err error) {
	const query = `
		INSERT INTO reviews (stall_id, user_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	ctx, end := database.TraceQuery(ctx, "reviews.Create", query)
	defer func() { end(err) }()

	err = r.db.QueryRow(ctx, query, rv.StallID, rv.UserID, rv.Rating, rv.Comment).Scan(&rv.ID, &rv.CreatedAt)
	return database.ClassifyWrite(err, "insert review", database.WriteError{Resource: "review"})
}

// List returns all reviews ordered by id.
func (r *ReviewRepository) List(ctx context.Context) (_ []domain.Review, err error) {
	const query = `SELECT ` + reviewColumns + ` FROM reviews ORDER BY id`
	return r.list(ctx, "reviews.List", query)
}

// ListByStallID returns the reviews of one stall.
func (r *ReviewRepository) ListByStallID(ctx context.Context, stallID int64) (_ []domain.Review, err error) {
	const query = `SELECT ` + reviewColumns + ` FROM reviews WHERE stall_id = $1 ORDER BY id`
	return r.list(ctx, "reviews.ListByStallID", query, stallID)
}

// ListByUserID returns the reviews written by one user.
func (r *ReviewRepository) ListByUserID(ctx context.Context, userID int64) (_ []domain.Review, err error) {
	const query = `SELECT ` + reviewColumns + ` FROM reviews WHERE user_id = $1 ORDER BY id`
	return r.list(ctx, "reviews.ListByUserID", query, userID)
}

func (r *ReviewRepository) list(ctx context.Context, op, query string, args ...any) (_ []domain.Review, err error) {
	ctx, end := database.TraceQuery(ctx, op, query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, database.ClassifyRead(err, op)
	}
	reviews, err := collect(rows, scanReview)
	if err != nil {
		return nil, database.ClassifyRead(err, op)
	}
	return reviews, nil
}

// GetByID retrieves a review by id.
func (r *ReviewRepository) GetByID(ctx context.Context, id int64) (_ *domain.Review, err error) {
	const query = `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "reviews.GetByID", query)
	defer func() { end(err) }()

	rv, err := scanReview(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, lookupError(err, "get review", "review", "id", id)
	}
	return rv, nil
}

// Delete removes a review by id.
func (r *ReviewRepository) Delete(ctx context.Context, id int64) (err error) {
	const query = `DELETE FROM reviews WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "reviews.Delete", query)
	defer func() { end(err) }()

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return database.ClassifyWrite(err, "delete review", database.WriteError{Resource: "review"})
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("review", id)
	}
	return nil
}
