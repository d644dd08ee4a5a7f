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

// ItemService implements the business logic for items.
type ItemService struct {
	items  repository.ItemRepository
	stalls repository.StallRepository
	events event.Publisher
	logger *slog.Logger
}

// NewItemService creates a new item service.
func NewItemService(
	items repository.ItemRepository,
	stalls repository.StallRepository,
	events event.Publisher,
	logger *slog.Logger,
) *ItemService {
	return &ItemService{
		items:  items,
		stalls: stalls,
		events: events,
		logger: logger,
	}
}

// CreateItemInput holds the parameters for creating an item.
type CreateItemInput struct {
	StallID  int64
	ItemName string
	Price    int64
}

// Create persists an item under an existing stall.
func (s *ItemService) Create(ctx context.Context, input CreateItemInput) (*domain.Item, error) {
	if strings.TrimSpace(input.ItemName) == "" {
		return nil, apperrors.InvalidInput("item name is required")
	}
	if _, err := s.stalls.GetByID(ctx, input.StallID); err != nil {
		return nil, fmt.Errorf("check stall: %w", err)
	}

	item := &domain.Item{
		StallID:  input.StallID,
		ItemName: input.ItemName,
		Price:    input.Price,
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	logPublishError(ctx, s.logger, event.TopicItemCreated, item.ID,
		s.events.PublishItemCreated(ctx, item))

	s.logger.InfoContext(ctx, "item created",
		slog.Int64("item_id", item.ID),
		slog.Int64("stall_id", item.StallID),
	)
	return item, nil
}

// List returns every item.
func (s *ItemService) List(ctx context.Context) ([]domain.Item, error) {
	items, err := s.items.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// ListByStall returns the items of one stall. An unknown stall has none.
func (s *ItemService) ListByStall(ctx context.Context, stallID int64) ([]domain.Item, error) {
	items, err := s.items.ListByStallID(ctx, stallID)
	if err != nil {
		return nil, fmt.Errorf("list items by stall: %w", err)
	}
	return items, nil
}
