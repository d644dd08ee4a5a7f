package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/utafrali/StallReview/internal/domain"
	"github.com/utafrali/StallReview/pkg/database"
)

const userColumns = `id, username, email, password_hash, created_at`

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	db database.DBTX
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(db database.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a user. Usernames and emails are unique; the duplicate is
// reported against the column whose constraint fired.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) (err error) {
	const query = `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	ctx, end := database.TraceQuery(ctx, "users.Create", query)
	defer func() { end(err) }()

	err = r.db.QueryRow(ctx, query, u.Username, u.Email, u.PasswordHash).Scan(&u.ID, &u.CreatedAt)
	if err == nil {
		return nil
	}

	w := database.WriteError{Resource: "user", Field: "username", Value: u.Username}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.Contains(pgErr.ConstraintName, "email") {
		w.Field, w.Value = "email", u.Email
	}
	return database.ClassifyWrite(err, "insert user", w)
}

// List returns all users ordered by id.
func (r *UserRepository) List(ctx context.Context) (_ []domain.User, err error) {
	const query = `SELECT ` + userColumns + ` FROM users ORDER BY id`

	ctx, end := database.TraceQuery(ctx, "users.List", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, database.ClassifyRead(err, "list users")
	}
	users, err := collect(rows, scanUser)
	if err != nil {
		return nil, database.ClassifyRead(err, "scan users")
	}
	return users, nil
}

// GetByID retrieves a user by id.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (_ *domain.User, err error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "users.GetByID", query)
	defer func() { end(err) }()

	u, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, lookupError(err, "get user", "user", "id", id)
	}
	return u, nil
}

// GetByUsername retrieves a user by username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (_ *domain.User, err error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	ctx, end := database.TraceQuery(ctx, "users.GetByUsername", query)
	defer func() { end(err) }()

	u, err := scanUser(r.db.QueryRow(ctx, query, username))
	if err != nil {
		return nil, lookupError(err, "get user by username", "user", "username", username)
	}
	return u, nil
}

// GetByEmail retrieves a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (_ *domain.User, err error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	ctx, end := database.TraceQuery(ctx, "users.GetByEmail", query)
	defer func() { end(err) }()

	u, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		return nil, lookupError(err, "get user by email", "user", "email", email)
	}
	return u, nil
}
