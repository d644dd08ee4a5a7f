package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/StallReview/internal/domain"
	apperrors "github.com/utafrali/StallReview/pkg/errors"
)

func newReviewTestFixture(t *testing.T) (*ReviewRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return NewReviewRepository(mock), mock
}

func reviewRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "stall_id", "user_id", "rating", "comment", "created_at"})
}

func TestReviewRepository_Create_Success(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	now := time.Now().UTC()
	rv := &domain.Review{StallID: 1, UserID: 2, Rating: 5, Comment: "great"}
	mock.ExpectQuery("INSERT INTO reviews").
		WithArgs(rv.StallID, rv.UserID, rv.Rating, rv.Comment).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(3), now))

	require.NoError(t, repo.Create(context.Background(), rv))
	assert.Equal(t, int64(3), rv.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Create_CheckViolation(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	rv := &domain.Review{StallID: 1, UserID: 2, Rating: 9}
	mock.ExpectQuery("INSERT INTO reviews").
		WithArgs(rv.StallID, rv.UserID, rv.Rating, rv.Comment).
		WillReturnError(errors.New(`new row violates check constraint "reviews_rating_check" (SQLSTATE 23514)`))

	err := repo.Create(context.Background(), rv)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_ListByStallID(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT .+ FROM reviews WHERE stall_id =").
		WithArgs(int64(1)).
		WillReturnRows(reviewRows().
			AddRow(int64(1), int64(1), int64(2), 4, "ok", now).
			AddRow(int64(2), int64(1), int64(3), 2, "meh", now))

	reviews, err := repo.ListByStallID(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, 4, reviews[0].Rating)
	assert.Equal(t, int64(3), reviews[1].UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_ListByUserID_Empty(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM reviews WHERE user_id =").
		WithArgs(int64(8)).
		WillReturnRows(reviewRows())

	reviews, err := repo.ListByUserID(context.Background(), 8)
	require.NoError(t, err)
	assert.NotNil(t, reviews)
	assert.Empty(t, reviews)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Delete(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{"deleted", 1, nil},
		{"missing", 0, apperrors.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newReviewTestFixture(t)
			defer mock.Close()

			mock.ExpectExec("DELETE FROM reviews WHERE id =").
				WithArgs(int64(5)).
				WillReturnResult(pgxmock.NewResult("DELETE", tt.affected))

			err := repo.Delete(context.Background(), 5)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
