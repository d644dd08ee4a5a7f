package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/StallReview/internal/domain"
	apperrors "github.com/utafrali/StallReview/pkg/errors"
)

func newStallTestFixture(t *testing.T) (*StallRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return NewStallRepository(mock), mock
}

func strPtr(s string) *string { return &s }

func stallRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "stall_name", "owner_name", "thumbnail_url", "created_at"})
}

func TestStallRepository_Create_Success(t *testing.T) {
	repo, mock := newStallTestFixture(t)
	defer mock.Close()

	now := time.Now().UTC().Truncate(time.Microsecond)
	s := &domain.Stall{StallName: "Nasi Lemak", OwnerName: "Hana", ThumbnailURL: strPtr("http://x/1.png")}

	mock.ExpectQuery("INSERT INTO stalls").
		WithArgs(s.StallName, s.OwnerName, s.ThumbnailURL).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), now))

	err := repo.Create(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, int64(7), s.ID)
	assert.Equal(t, now, s.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStallRepository_Create_ConnectionLost(t *testing.T) {
	repo, mock := newStallTestFixture(t)
	defer mock.Close()

	s := &domain.Stall{StallName: "Satay", OwnerName: "Ali"}
	mock.ExpectQuery("INSERT INTO stalls").
		WithArgs(s.StallName, s.OwnerName, s.ThumbnailURL).
		WillReturnError(errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"))

	err := repo.Create(context.Background(), s)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrServiceUnavail)
	assert.Zero(t, s.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStallRepository_List_OrderedAndNonNil(t *testing.T) {
	repo, mock := newStallTestFixture(t)
	defer mock.Close()

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT .+ FROM stalls ORDER BY id").
		WillReturnRows(stallRows().
			AddRow(int64(1), "A", "oa", strPtr("u1"), now).
			AddRow(int64(2), "B", "ob", strPtr("u2"), now))

	stalls, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, stalls, 2)
	assert.Equal(t, "A", stalls[0].StallName)
	assert.Equal(t, "u2", *stalls[1].ThumbnailURL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStallRepository_List_Empty(t *testing.T) {
	repo, mock := newStallTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM stalls ORDER BY id").WillReturnRows(stallRows())

	stalls, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, stalls)
	assert.Empty(t, stalls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStallRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newStallTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM stalls WHERE id =").
		WithArgs(int64(99)).
		WillReturnError(pgx.ErrNoRows)

	s, err := repo.GetByID(context.Background(), 99)
	assert.Nil(t, s)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "stall with id 99 not found", appErr.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStallRepository_GetByName(t *testing.T) {
	repo, mock := newStallTestFixture(t)
	defer mock.Close()

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT .+ FROM stalls WHERE stall_name =").
		WithArgs("Satay").
		WillReturnRows(stallRows().AddRow(int64(3), "Satay", "Ali", strPtr("u"), now))

	s, err := repo.GetByName(context.Background(), "Satay")
	require.NoError(t, err)
	assert.Equal(t, int64(3), s.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStallRepository_GetByOwnerName_NotFound(t *testing.T) {
	repo, mock := newStallTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM stalls WHERE owner_name =").
		WithArgs("Nobody").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByOwnerName(context.Background(), "Nobody")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Contains(t, err.Error(), `owner_name "Nobody"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStallRepository_UpdateThumbnailURL(t *testing.T) {
	repo, mock := newStallTestFixture(t)
	defer mock.Close()

	now := time.Now().UTC()
	url := strPtr("http://cdn/new.png")
	mock.ExpectQuery("UPDATE stalls SET thumbnail_url").
		WithArgs(url, int64(3)).
		WillReturnRows(stallRows().AddRow(int64(3), "Satay", "Ali", url, now))

	s, err := repo.UpdateThumbnailURL(context.Background(), 3, url)
	require.NoError(t, err)
	assert.Equal(t, "http://cdn/new.png", *s.ThumbnailURL)
	assert.NoError(t, mock.ExpectationsWereMet())
}
