// Package redis implements the ranking cache on Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/StallReview/internal/domain"
	"github.com/utafrali/StallReview/internal/repository"
)

const (
	// RankingKey holds the JSON-encoded top ranking.
	RankingKey = "stallreview:ranking:top"
	// GenerationKey counts invalidations. It never expires.
	GenerationKey = "stallreview:ranking:generation"
)

// RankingCache implements repository.RankingCache using Redis.
type RankingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRankingCache creates a Redis-backed ranking cache. Entries expire after
// ttl even if no review write invalidates them; zero means no expiry.
func NewRankingCache(client *redis.Client, ttl time.Duration) *RankingCache {
	return &RankingCache{
		client: client,
		ttl:    ttl,
	}
}

// Generation returns the invalidation counter; an absent key is generation 0.
func (c *RankingCache) Generation(ctx context.Context) (int64, error) {
	return readGeneration(ctx, c.client)
}

// Get returns the cached ranking. A missing key is a miss, not an error.
func (c *RankingCache) Get(ctx context.Context) ([]domain.Stall, bool, error) {
	data, err := c.client.Get(ctx, RankingKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get ranking: %w", err)
	}

	var ranking []domain.Stall
	if err := json.Unmarshal(data, &ranking); err != nil {
		return nil, false, fmt.Errorf("unmarshal ranking: %w", err)
	}
	if ranking == nil {
		ranking = []domain.Stall{}
	}

	return ranking, true, nil
}

// Set stores the ranking with the configured TTL if the generation is still
// the one the ranking was computed at. The generation key is watched, so an
// Invalidate racing with the write aborts it.
func (c *RankingCache) Set(ctx context.Context, generation int64, ranking []domain.Stall) error {
	data, err := json.Marshal(ranking)
	if err != nil {
		return fmt.Errorf("marshal ranking: %w", err)
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readGeneration(ctx, tx)
		if err != nil {
			return err
		}
		if current != generation {
			return repository.ErrRankingStale
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, RankingKey, data, c.ttl)
			return nil
		})
		return err
	}, GenerationKey)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrRankingStale), errors.Is(err, redis.TxFailedErr):
		return repository.ErrRankingStale
	default:
		return fmt.Errorf("redis set ranking: %w", err)
	}
}

// Invalidate drops the cached ranking and bumps the generation in one
// transaction.
func (c *RankingCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, GenerationKey)
		pipe.Del(ctx, RankingKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis invalidate ranking: %w", err)
	}
	return nil
}

// stringGetter is satisfied by both *redis.Client and *redis.Tx.
type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readGeneration(ctx context.Context, g stringGetter) (int64, error) {
	gen, err := g.Get(ctx, GenerationKey).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("redis get ranking generation: %w", err)
	}
	return gen, nil
}
