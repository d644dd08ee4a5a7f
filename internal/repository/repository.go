package repository

import (
	"context"
	"errors"

	"github.com/utafrali/StallReview/internal/domain"
)

// ErrRankingStale is returned by RankingCache.Set when the ranking was
// invalidated after the generation it was computed at.
var ErrRankingStale = errors.New("ranking invalidated while it was computed")

// Lookups by key return an error matching apperrors.ErrNotFound when no row
// exists. List methods return a non-nil slice ordered by id ascending.

// StallRepository defines persistence operations for stalls.
type StallRepository interface {
	// Create inserts the stall and fills in its ID and CreatedAt.
	Create(ctx context.Context, stall *domain.Stall) error

	// List returns every stall.
	List(ctx context.Context) ([]domain.Stall, error)

	// GetByID retrieves a stall by its identifier.
	GetByID(ctx context.Context, id int64) (*domain.Stall, error)

	// GetByName retrieves the first stall with the given display name.
	GetByName(ctx context.Context, name string) (*domain.Stall, error)

	// GetByOwnerName retrieves the first stall owned by owner.
	GetByOwnerName(ctx context.Context, owner string) (*domain.Stall, error)

	// UpdateThumbnailURL replaces the stall's thumbnail; nil clears it.
	UpdateThumbnailURL(ctx context.Context, id int64, url *string) (*domain.Stall, error)
}

// ItemRepository defines persistence operations for items.
type ItemRepository interface {
	Create(ctx context.Context, item *domain.Item) error
	List(ctx context.Context) ([]domain.Item, error)
	GetByID(ctx context.Context, id int64) (*domain.Item, error)
	ListByStallID(ctx context.Context, stallID int64) ([]domain.Item, error)
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// Create inserts the user. A taken username or email yields
	// apperrors.ErrAlreadyExists.
	Create(ctx context.Context, user *domain.User) error
	List(ctx context.Context) ([]domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// ReviewRepository defines persistence operations for reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	List(ctx context.Context) ([]domain.Review, error)
	GetByID(ctx context.Context, id int64) (*domain.Review, error)
	ListByStallID(ctx context.Context, stallID int64) ([]domain.Review, error)
	ListByUserID(ctx context.Context, userID int64) ([]domain.Review, error)

	// Delete removes a review; an unknown id yields apperrors.ErrNotFound.
	Delete(ctx context.Context, id int64) error
}

// RankingCache stores the computed top-ranking between review changes.
// Every Invalidate starts a new generation; a ranking is only stored for the
// generation it was computed at.
type RankingCache interface {
	// Generation returns the current generation. Read it before loading the
	// reviews a ranking is computed from.
	Generation(ctx context.Context) (int64, error)

	// Get returns the cached ranking and whether one was present.
	Get(ctx context.Context) ([]domain.Stall, bool, error)

	// Set stores the ranking computed at generation, or returns
	// ErrRankingStale if the cache was invalidated since.
	Set(ctx context.Context, generation int64, ranking []domain.Stall) error

	// Invalidate drops the cached ranking and starts a new generation.
	Invalidate(ctx context.Context) error
}
