package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/StallReview/internal/domain"
	"github.com/utafrali/StallReview/pkg/database"
)

const stallColumns = `id, stall_name, owner_name, thumbnail_url, created_at`

// StallRepository implements repository.StallRepository using PostgreSQL.
type StallRepository struct {
	db database.DBTX
}

// NewStallRepository creates a new PostgreSQL-backed stall repository.
func NewStallRepository(db database.DBTX) *StallRepository {
	return &StallRepository{db: db}
}

func scanStall(row pgx.Row) (*domain.Stall, error) {
	var s domain.Stall
	if err := row.Scan(&s.ID, &s.StallName, &s.OwnerName, &s.ThumbnailURL, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a stall and populates its ID and CreatedAt.
func (r *StallRepository) Create(ctx context.Context, s *domain.Stall) (err error) {
	const query = `
		INSERT INTO stalls (stall_name, owner_name, thumbnail_url)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	ctx, end := database.TraceQuery(ctx, "stalls.Create", query)
	defer func() { end(err) }()

	err = r.db.QueryRow(ctx, query, s.StallName, s.OwnerName, s.ThumbnailURL).Scan(&s.ID, &s.CreatedAt)
	return database.ClassifyWrite(err, "insert stall", database.WriteError{
		Resource: "stall", Field: "stall_name", Value: s.StallName,
	})
}

// List returns all stalls ordered by id.
func (r *StallRepository) List(ctx context.Context) (_ []domain.Stall, err error) {
	const query = `SELECT ` + stallColumns + ` FROM stalls ORDER BY id`

	ctx, end := database.TraceQuery(ctx, "stalls.List", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, database.ClassifyRead(err, "list stalls")
	}
	stalls, err := collect(rows, scanStall)
	if err != nil {
		return nil, database.ClassifyRead(err, "scan stalls")
	}
	return stalls, nil
}

// GetByID retrieves a stall by id.
func (r *StallRepository) GetByID(ctx context.Context, id int64) (_ *domain.Stall, err error) {
	const query = `SELECT ` + stallColumns + ` FROM stalls WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "stalls.GetByID", query)
	defer func() { end(err) }()

	s, err := scanStall(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, lookupError(err, "get stall", "stall", "id", id)
	}
	return s, nil
}

// GetByName retrieves the lowest-id stall with the given name.
func (r *StallRepository) GetByName(ctx context.Context, name string) (_ *domain.Stall, err error) {
	const query = `SELECT ` + stallColumns + ` FROM stalls WHERE stall_name = $1 ORDER BY id LIMIT 1`

	ctx, end := database.TraceQuery(ctx, "stalls.GetByName", query)
	defer func() { end(err) }()

	s, err := scanStall(r.db.QueryRow(ctx, query, name))
	if err != nil {
		return nil, lookupError(err, "get stall by name", "stall", "stall_name", name)
	}
	return s, nil
}

// GetByOwnerName retrieves the lowest-id stall owned by owner.
func (r *StallRepository) GetByOwnerName(ctx context.Context, owner string) (_ *domain.Stall, err error) {
	const query = `SELECT ` + stallColumns + ` FROM stalls WHERE owner_name = $1 ORDER BY id LIMIT 1`

	ctx, end := database.TraceQuery(ctx, "stalls.GetByOwnerName", query)
	defer func() { end(err) }()

	s, err := scanStall(r.db.QueryRow(ctx, query, owner))
	if err != nil {
		return nil, lookupError(err, "get stall by owner", "stall", "owner_name", owner)
	}
	return s, nil
}

// UpdateThumbnailURL sets or clears the thumbnail and returns the updated stall.
func (r *StallRepository) UpdateThumbnailURL(ctx context.Context, id int64, url *string) (_ *domain.Stall, err error) {
	const query = `
		UPDATE stalls SET thumbnail_url = $1
		WHERE id = $2
		RETURNING ` + stallColumns

	ctx, end := database.TraceQuery(ctx, "stalls.UpdateThumbnailURL", query)
	defer func() { end(err) }()

	s, err := scanStall(r.db.QueryRow(ctx, query, url, id))
	if err != nil {
		return nil, lookupError(err, "update stall thumbnail", "stall", "id", id)
	}
	return s, nil
}
