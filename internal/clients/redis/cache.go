package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/Minkhantthwin/Backend/internal/domain"
	"github.com/Minkhantthwin/Backend/internal/pkg/logger"
)

// RecommendationCache memoizes ranked recommendation lists per user. It is a
// pure read-path optimization: a miss or a Redis failure just means the
// aggregator recomputes.
type RecommendationCache interface {
	Get(ctx context.Context, userID uuid.UUID, variant string) ([]domain.RecommendationResult, bool)
	Set(ctx context.Context, userID uuid.UUID, variant string, results []domain.RecommendationResult)
	InvalidateUser(ctx context.Context, userID uuid.UUID)
	Close() error
}

type recommendationCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewRecommendationCache(log *logger.Logger, ttl time.Duration) (RecommendationCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	if ttl <= 0 {
		ttl = time.Hour
	}
	return &recommendationCache{
		log: log.With("client", "RecommendationCache"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

func cacheKey(userID uuid.UUID, variant string) string {
	return fmt.Sprintf("reco:%s:%s", userID.String(), variant)
}

func (c *recommendationCache) Get(ctx context.Context, userID uuid.UUID, variant string) ([]domain.RecommendationResult, bool) {
	raw, err := c.rdb.Get(ctx, cacheKey(userID, variant)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("cache get failed", "user_id", userID.String(), "error", err)
		}
		return nil, false
	}
	var results []domain.RecommendationResult
	if err := json.Unmarshal(raw, &results); err != nil {
		c.log.Warn("cache entry corrupt, dropping", "user_id", userID.String(), "error", err)
		_ = c.rdb.Del(ctx, cacheKey(userID, variant)).Err()
		return nil, false
	}
	return results, true
}

func (c *recommendationCache) Set(ctx context.Context, userID uuid.UUID, variant string, results []domain.RecommendationResult) {
	raw, err := json.Marshal(results)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(userID, variant), raw, c.ttl).Err(); err != nil {
		c.log.Warn("cache set failed", "user_id", userID.String(), "error", err)
	}
}

// InvalidateUser drops every cached variant for the user. Called by the
// dual-write coordinator after any write that can change recommendations.
func (c *recommendationCache) InvalidateUser(ctx context.Context, userID uuid.UUID) {
	pattern := fmt.Sprintf("reco:%s:*", userID.String())
	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		_ = c.rdb.Del(ctx, iter.Val()).Err()
	}
	if err := iter.Err(); err != nil {
		c.log.Warn("cache invalidation scan failed", "user_id", userID.String(), "error", err)
	}
}

func (c *recommendationCache) Close() error {
	return c.rdb.Close()
}
