package event

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/utafrali/StallReview/internal/domain"
	pkgkafka "github.com/utafrali/StallReview/pkg/kafka"
	"github.com/utafrali/StallReview/pkg/logger"
)

// Kafka topic constants for marketplace domain events.
const (
	TopicStallCreated   = "stallreview.stall.created"
	TopicItemCreated    = "stallreview.item.created"
	TopicUserRegistered = "stallreview.user.registered"
	TopicReviewCreated  = "stallreview.review.created"
	TopicReviewDeleted  = "stallreview.review.deleted"
)

// Aggregate type constants.
const (
	AggregateTypeStall  = "stall"
	AggregateTypeItem   = "item"
	AggregateTypeUser   = "user"
	AggregateTypeReview = "review"
)

// SourceStallReview identifies events originating from this service.
const SourceStallReview = "stallreview"

// StallCreatedData is the payload for a stall.created event.
type StallCreatedData struct {
	ID           int64   `json:"id"`
	StallName    string  `json:"stall_name"`
	OwnerName    string  `json:"owner_name"`
	ThumbnailURL *string `json:"thumbnail_URL,omitempty"`
}

// ItemCreatedData is the payload for an item.created event.
type ItemCreatedData struct {
	ID       int64  `json:"id"`
	StallID  int64  `json:"stall_id"`
	ItemName string `json:"item_name"`
	Price    int64  `json:"price"`
}

// UserRegisteredData is the payload for a user.registered event. The email
// is left out so the topic carries no contact data.
type UserRegisteredData struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// ReviewData is the payload for review.created and review.deleted events.
type ReviewData struct {
	ID      int64 `json:"id"`
	StallID int64 `json:"stall_id"`
	UserID  int64 `json:"user_id"`
	Rating  int   `json:"rating"`
}

// Publisher emits domain events after a successful write.
type Publisher interface {
	PublishStallCreated(ctx context.Context, stall *domain.Stall) error
	PublishItemCreated(ctx context.Context, item *domain.Item) error
	PublishUserRegistered(ctx context.Context, user *domain.User) error
	PublishReviewCreated(ctx context.Context, review *domain.Review) error
	PublishReviewDeleted(ctx context.Context, review *domain.Review) error
}

// eventWriter is the part of *pkgkafka.Producer used here.
type eventWriter interface {
	Publish(ctx context.Context, event *pkgkafka.Event) error
}

// Producer publishes marketplace domain events to Kafka.
type Producer struct {
	kafka  eventWriter
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishStallCreated publishes a stall.created event.
func (p *Producer) PublishStallCreated(ctx context.Context, s *domain.Stall) error {
	return p.publish(ctx, TopicStallCreated, s.ID, AggregateTypeStall, StallCreatedData{
		ID:           s.ID,
		StallName:    s.StallName,
		OwnerName:    s.OwnerName,
		ThumbnailURL: s.ThumbnailURL,
	})
}

// PublishItemCreated publishes an item.created event keyed by the stall, so
// the items of one stall stay ordered.
func (p *Producer) PublishItemCreated(ctx context.Context, it *domain.Item) error {
	return p.publish(ctx, TopicItemCreated, it.StallID, AggregateTypeItem, ItemCreatedData{
		ID:       it.ID,
		StallID:  it.StallID,
		ItemName: it.ItemName,
		Price:    it.Price,
	})
}

// PublishUserRegistered publishes a user.registered event.
func (p *Producer) PublishUserRegistered(ctx context.Context, u *domain.User) error {
	return p.publish(ctx, TopicUserRegistered, u.ID, AggregateTypeUser, UserRegisteredData{
		ID:       u.ID,
		Username: u.Username,
	})
}

// PublishReviewCreated publishes a review.created event keyed by stall.
func (p *Producer) PublishReviewCreated(ctx context.Context, rv *domain.Review) error {
	return p.publish(ctx, TopicReviewCreated, rv.StallID, AggregateTypeReview, reviewData(rv))
}

// PublishReviewDeleted publishes a review.deleted event keyed by stall.
func (p *Producer) PublishReviewDeleted(ctx context.Context, rv *domain.Review) error {
	return p.publish(ctx, TopicReviewDeleted, rv.StallID, AggregateTypeReview, reviewData(rv))
}

func reviewData(rv *domain.Review) ReviewData {
	return ReviewData{ID: rv.ID, StallID: rv.StallID, UserID: rv.UserID, Rating: rv.Rating}
}

func (p *Producer) publish(ctx context.Context, topic string, key int64, aggregateType string, data any) error {
	event, err := pkgkafka.NewEvent(topic, strconv.FormatInt(key, 10), aggregateType, SourceStallReview, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		event.WithCorrelationID(id)
	}

	if err := p.kafka.Publish(ctx, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published domain event",
		slog.String("topic", topic),
		slog.String("aggregate_id", event.AggregateID),
	)
	return nil
}

// NopPublisher drops every event. It is used when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishStallCreated(context.Context, *domain.Stall) error   { return nil }
func (NopPublisher) PublishItemCreated(context.Context, *domain.Item) error     { return nil }
func (NopPublisher) PublishUserRegistered(context.Context, *domain.User) error  { return nil }
func (NopPublisher) PublishReviewCreated(context.Context, *domain.Review) error { return nil }
func (NopPublisher) PublishReviewDeleted(context.Context, *domain.Review) error { return nil }
