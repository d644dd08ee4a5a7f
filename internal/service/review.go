package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/utafrali/StallReview/internal/domain"
	"github.com/utafrali/StallReview/internal/event"
	"github.com/utafrali/StallReview/internal/rating"
	"github.com/utafrali/StallReview/internal/repository"
	apperrors "github.com/utafrali/StallReview/pkg/errors"
)

// ReviewService implements the business logic for reviews and the rating
// aggregates derived from them.
type ReviewService struct {
	reviews repository.ReviewRepository
	stalls  repository.StallRepository
	users   repository.UserRepository
	cache   repository.RankingCache
	events  event.Publisher
	logger  *slog.Logger
}

// NewReviewService creates a new review service. cache may be nil, in which
// case the ranking is recomputed on every request.
func NewReviewService(
	reviews repository.ReviewRepository,
	stalls repository.StallRepository,
	users repository.UserRepository,
	cache repository.RankingCache,
	events event.Publisher,
	logger *slog.Logger,
) *ReviewService {
	return &ReviewService{
		reviews: reviews,
		stalls:  stalls,
		users:   users,
		cache:   cache,
		events:  events,
		logger:  logger,
	}
}

// CreateReviewInput holds the parameters for creating a review. UserID is
// always the authenticated caller.
type CreateReviewInput struct {
	StallID int64
	UserID  int64
	Rating  int
	Comment string
}

// Create validates the rating, checks that the stall and the author exist,
// and persists the review.
func (s *ReviewService) Create(ctx context.Context, input CreateReviewInput) (*domain.Review, error) {
	if !domain.ValidRating(input.Rating) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("rating must be between %d and %d", domain.MinRating, domain.MaxRating))
	}
	if _, err := s.stalls.GetByID(ctx, input.StallID); err != nil {
		return nil, fmt.Errorf("check stall: %w", err)
	}
	if _, err := s.users.GetByID(ctx, input.UserID); err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}

	review := &domain.Review{
		StallID: input.StallID,
		UserID:  input.UserID,
		Rating:  input.Rating,
		Comment: input.Comment,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	invalidateRanking(ctx, s.cache, s.logger)
	logPublishError(ctx, s.logger, event.TopicReviewCreated, review.ID,
		s.events.PublishReviewCreated(ctx, review))

	s.logger.InfoContext(ctx, "review created",
		slog.Int64("review_id", review.ID),
		slog.Int64("stall_id", review.StallID),
		slog.Int("rating", review.Rating),
	)
	return review, nil
}

// List returns every review.
func (s *ReviewService) List(ctx context.Context) ([]domain.Review, error) {
	reviews, err := s.reviews.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

// ListByStall returns the reviews of one stall.
func (s *ReviewService) ListByStall(ctx context.Context, stallID int64) ([]domain.Review, error) {
	reviews, err := s.reviews.ListByStallID(ctx, stallID)
	if err != nil {
		return nil, fmt.Errorf("list reviews by stall: %w", err)
	}
	return reviews, nil
}

// ListByUser returns the reviews written by one user.
func (s *ReviewService) ListByUser(ctx context.Context, userID int64) ([]domain.Review, error) {
	reviews, err := s.reviews.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list reviews by user: %w", err)
	}
	return reviews, nil
}

// TopRanking returns up to rating.RankingSize stalls with the highest mean
// rating among those with at least rating.MinReviewsForRanking reviews.
// A cached ranking is served when present; cache errors fall back to
// recomputing. A freshly computed ranking is only cached if no review write
// invalidated the cache while it was being computed.
func (s *ReviewService) TopRanking(ctx context.Context) ([]domain.Stall, error) {
	var (
		generation int64
		cacheable  bool
	)
	if s.cache != nil {
		gen, err := s.cache.Generation(ctx)
		if err != nil {
			s.logger.WarnContext(ctx, "ranking cache generation read failed",
				slog.String("error", err.Error()),
			)
		} else {
			generation, cacheable = gen, true

			ranking, ok, err := s.cache.Get(ctx)
			switch {
			case err != nil:
				s.logger.WarnContext(ctx, "ranking cache read failed",
					slog.String("error", err.Error()),
				)
			case ok:
				return ranking, nil
			}
		}
	}

	reviews, err := s.reviews.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reviews for ranking: %w", err)
	}

	scores := rating.TopStalls(reviews, rating.MinReviewsForRanking, rating.RankingSize)
	ranking := make([]domain.Stall, 0, len(scores))
	for _, score := range scores {
		stall, err := s.stalls.GetByID(ctx, score.StallID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("resolve ranked stall: %w", err)
		}
		ranking = append(ranking, *stall)
	}

	if cacheable {
		s.storeRanking(ctx, generation, ranking)
	}
	return ranking, nil
}

func (s *ReviewService) storeRanking(ctx context.Context, generation int64, ranking []domain.Stall) {
	err := s.cache.Set(ctx, generation, ranking)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrRankingStale):
		s.logger.DebugContext(ctx, "ranking changed while computing, not cached",
			slog.Int64("generation", generation),
		)
	default:
		s.logger.WarnContext(ctx, "ranking cache write failed",
			slog.String("error", err.Error()),
		)
	}
}

// Average summarizes the ratings of an existing stall. A stall without
// reviews has a nil average and a zero count.
func (s *ReviewService) Average(ctx context.Context, stallID int64) (*domain.RatingSummary, error) {
	if _, err := s.stalls.GetByID(ctx, stallID); err != nil {
		return nil, fmt.Errorf("get stall: %w", err)
	}

	reviews, err := s.reviews.ListByStallID(ctx, stallID)
	if err != nil {
		return nil, fmt.Errorf("list reviews by stall: %w", err)
	}

	summary := rating.Summarize(stallID, reviews)
	return &summary, nil
}

// Delete removes a review written by callerID.
func (s *ReviewService) Delete(ctx context.Context, reviewID, callerID int64) error {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return fmt.Errorf("get review: %w", err)
	}
	if review.UserID != callerID {
		return apperrors.Forbidden("only the author can delete a review")
	}

	if err := s.reviews.Delete(ctx, reviewID); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	invalidateRanking(ctx, s.cache, s.logger)
	logPublishError(ctx, s.logger, event.TopicReviewDeleted, review.ID,
		s.events.PublishReviewDeleted(ctx, review))

	s.logger.InfoContext(ctx, "review deleted",
		slog.Int64("review_id", reviewID),
		slog.Int64("user_id", callerID),
	)
	return nil
}
