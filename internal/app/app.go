package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Minkhantthwin/Backend/internal/clients/redis"
	"github.com/Minkhantthwin/Backend/internal/data/repos"
	"github.com/Minkhantthwin/Backend/internal/db"
	"github.com/Minkhantthwin/Backend/internal/pkg/logger"
	"github.com/Minkhantthwin/Backend/internal/platform/neo4jdb"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    repos.Repos
	Services Services

	graphClient *neo4jdb.Client
	cache       redis.RecommendationCache
	server      *http.Server
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	graphClient, graphStore := wireGraph(log)
	cache := wireCache(log, cfg.CacheTTL)

	reposet := repos.Wire(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, graphStore, cache)
	handlerset := wireHandlers(log, serviceset, reposet)
	router := wireRouter(log, handlerset)

	return &App{
		Log:         log,
		DB:          theDB,
		Router:      router,
		Cfg:         cfg,
		Repos:       reposet,
		Services:    serviceset,
		graphClient: graphClient,
		cache:       cache,
	}, nil
}

func (a *App) Run(addr string) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	a.server = &http.Server{
		Addr:    addr,
		Handler: a.Router,
	}
	a.Log.Info("Server listening", "addr", addr)
	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, then releases clients.
func (a *App) Shutdown(ctx context.Context) {
	if a == nil {
		return
	}
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			a.Log.Warn("HTTP shutdown failed", "error", err)
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.Log.Warn("Redis close failed", "error", err)
		}
	}
	if a.graphClient != nil {
		cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.graphClient.Close(cctx); err != nil {
			a.Log.Warn("Neo4j close failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
