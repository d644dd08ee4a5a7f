package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/StallReview/internal/domain"
	"github.com/utafrali/StallReview/pkg/database"
)

const itemColumns = `id, stall_id, item_name, price, created_at`

// ItemRepository implements repository.ItemRepository using PostgreSQL.
type ItemRepository struct {
	db database.DBTX
}

// NewItemRepository creates a new PostgreSQL-backed item repository.
func NewItemRepository(db database.DBTX) *ItemRepository {
	return &ItemRepository{db: db}
}

func scanItem(row pgx.Row) (*domain.Item, error) {
	var it domain.Item
	if err := row.Scan(&it.ID, &it.StallID, &it.ItemName, &it.Price, &it.CreatedAt); err != nil {
		return nil, err
	}
	return &it, nil
}

// Create inserts an item. A stall_id with no matching stall is a conflict.
func (r *ItemRepository) Create(ctx context.Context, it *domain.Item) (err error) {
	const query = `
		INSERT INTO items (stall_id, item_name, price)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	ctx, end := database.TraceQuery(ctx, "items.Create", query)
	defer func() { end(err) }()

	err = r.db.QueryRow(ctx, query, it.StallID, it.ItemName, it.Price).Scan(&it.ID, &it.CreatedAt)
	return database.ClassifyWrite(err, "insert item", database.WriteError{
		Resource: "item", Field: "item_name", Value: it.ItemName,
	})
}

// List returns all items ordered by id.
func (r *ItemRepository) List(ctx context.Context) (_ []domain.Item, err error) {
	const query = `SELECT ` + itemColumns + ` FROM items ORDER BY id`

	ctx, end := database.TraceQuery(ctx, "items.List", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, database.ClassifyRead(err, "list items")
	}
	items, err := collect(rows, scanItem)
	if err != nil {
		return nil, database.ClassifyRead(err, "scan items")
	}
	return items, nil
}

// GetByID retrieves an item by id.
func (r *ItemRepository) GetByID(ctx context.Context, id int64) (_ *domain.Item, err error) {
	const query = `SELECT ` + itemColumns + ` FROM items WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "items.GetByID", query)
	defer func() { end(err) }()

	it, err := scanItem(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, lookupError(err, "get item", "item", "id", id)
	}
	return it, nil
}

// ListByStallID returns the items of one stall. An unknown stall has none.
func (r *ItemRepository) ListByStallID(ctx context.Context, stallID int64) (_ []domain.Item, err error) {
	const query = `SELECT ` + itemColumns + ` FROM items WHERE stall_id = $1 ORDER BY id`

	ctx, end := database.TraceQuery(ctx, "items.ListByStallID", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query, stallID)
	if err != nil {
		return nil, database.ClassifyRead(err, "list items by stall")
	}
	items, err := collect(rows, scanItem)
	if err != nil {
		return nil, database.ClassifyRead(err, "scan items")
	}
	return items, nil
}
