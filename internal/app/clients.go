package app

import (
	"context"
	"time"

	"github.com/Minkhantthwin/Backend/internal/clients/redis"
	"github.com/Minkhantthwin/Backend/internal/data/graph"
	"github.com/Minkhantthwin/Backend/internal/pkg/logger"
	"github.com/Minkhantthwin/Backend/internal/platform/neo4jdb"
)

// wireGraph connects the graph mirror. The mirror is optional: without
// NEO4J_URI the app runs in degraded mode and every write reports drift.
func wireGraph(log *logger.Logger) (*neo4jdb.Client, graph.Store) {
	client, err := neo4jdb.NewFromEnv(log)
	if err != nil {
		log.Warn("Neo4j init failed, running without graph mirror", "error", err)
		return nil, nil
	}
	if client == nil {
		log.Warn("NEO4J_URI not set, running without graph mirror")
		return nil, nil
	}

	store := graph.NewStore(client, log)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.EnsureSchema(ctx); err != nil {
		log.Warn("Neo4j schema setup failed", "error", err)
	}
	return client, store
}

// wireCache connects the recommendation cache. Also optional: without Redis
// every recommendation request recomputes.
func wireCache(log *logger.Logger, ttl time.Duration) redis.RecommendationCache {
	cache, err := redis.NewRecommendationCache(log, ttl)
	if err != nil {
		log.Warn("Redis init failed, running without recommendation cache", "error", err)
		return nil
	}
	return cache
}
