package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/utafrali/StallReview/internal/domain"
	"github.com/utafrali/StallReview/internal/event"
	"github.com/utafrali/StallReview/internal/repository"
	apperrors "github.com/utafrali/StallReview/pkg/errors"
)

// StallService implements the business logic for stalls.
type StallService struct {
	stalls repository.StallRepository
	cache  repository.RankingCache
	events event.Publisher
	logger *slog.Logger
}

// NewStallService creates a new stall service. cache may be nil.
func NewStallService(
	stalls repository.StallRepository,
	cache repository.RankingCache,
	events event.Publisher,
	logger *slog.Logger,
) *StallService {
	return &StallService{
		stalls: stalls,
		cache:  cache,
		events: events,
		logger: logger,
	}
}

// CreateStallInput holds the parameters for creating a stall.
type CreateStallInput struct {
	StallName    string
	OwnerName    string
	ThumbnailURL *string
}

// Create persists a new stall.
func (s *StallService) Create(ctx context.Context, input CreateStallInput) (*domain.Stall, error) {
	if strings.TrimSpace(input.StallName) == "" {
		return nil, apperrors.InvalidInput("stall name is required")
	}
	if strings.TrimSpace(input.OwnerName) == "" {
		return nil, apperrors.InvalidInput("owner name is required")
	}

	stall := &domain.Stall{
		StallName:    input.StallName,
		OwnerName:    input.OwnerName,
		ThumbnailURL: normalizeURL(input.ThumbnailURL),
	}
	if err := s.stalls.Create(ctx, stall); err != nil {
		return nil, fmt.Errorf("create stall: %w", err)
	}

	logPublishError(ctx, s.logger, event.TopicStallCreated, stall.ID,
		s.events.PublishStallCreated(ctx, stall))

	s.logger.InfoContext(ctx, "stall created",
		slog.Int64("stall_id", stall.ID),
		slog.String("stall_name", stall.StallName),
	)
	return stall, nil
}

// List returns every stall.
func (s *StallService) List(ctx context.Context) ([]domain.Stall, error) {
	stalls, err := s.stalls.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stalls: %w", err)
	}
	return stalls, nil
}

// Get returns one stall by id.
func (s *StallService) Get(ctx context.Context, id int64) (*domain.Stall, error) {
	stall, err := s.stalls.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get stall: %w", err)
	}
	return stall, nil
}

// GetByName returns the first stall with the given name.
func (s *StallService) GetByName(ctx context.Context, name string) (*domain.Stall, error) {
	stall, err := s.stalls.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("get stall by name: %w", err)
	}
	return stall, nil
}

// GetByOwner returns the first stall run by owner.
func (s *StallService) GetByOwner(ctx context.Context, owner string) (*domain.Stall, error) {
	stall, err := s.stalls.GetByOwnerName(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("get stall by owner: %w", err)
	}
	return stall, nil
}

// UpdateThumbnail sets the stall's thumbnail URL; nil or blank clears it.
// The cached ranking embeds stalls, so it is invalidated as well.
func (s *StallService) UpdateThumbnail(ctx context.Context, id int64, url *string) (*domain.Stall, error) {
	stall, err := s.stalls.UpdateThumbnailURL(ctx, id, normalizeURL(url))
	if err != nil {
		return nil, fmt.Errorf("update stall thumbnail: %w", err)
	}

	invalidateRanking(ctx, s.cache, s.logger)

	s.logger.InfoContext(ctx, "stall thumbnail updated", slog.Int64("stall_id", id))
	return stall, nil
}

func normalizeURL(url *string) *string {
	if url == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*url)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
