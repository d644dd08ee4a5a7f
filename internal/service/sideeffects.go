package service

import (
	"context"
	"log/slog"

	"github.com/utafrali/StallReview/internal/repository"
)

// invalidateRanking drops the cached ranking after a write that can change
// it. The cache is optional and failures only cost a recomputation.
func invalidateRanking(ctx context.Context, cache repository.RankingCache, logger *slog.Logger) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx); err != nil {
		logger.WarnContext(ctx, "failed to invalidate ranking cache",
			slog.String("error", err.Error()),
		)
	}
}

// logPublishError records a failed event publish. Publishing never fails
// the request that triggered it.
func logPublishError(ctx context.Context, logger *slog.Logger, topic string, id int64, err error) {
	if err == nil {
		return
	}
	logger.ErrorContext(ctx, "failed to publish event",
		slog.String("topic", topic),
		slog.Int64("aggregate_id", id),
		slog.String("error", err.Error()),
	)
}
