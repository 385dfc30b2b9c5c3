package app

import (
	"gorm.io/gorm"

	"github.com/Minkhantthwin/Backend/internal/clients/redis"
	"github.com/Minkhantthwin/Backend/internal/data/graph"
	"github.com/Minkhantthwin/Backend/internal/data/repos"
	"github.com/Minkhantthwin/Backend/internal/pkg/logger"
	"github.com/Minkhantthwin/Backend/internal/services"
)

type Services struct {
	Writer         services.DualWriteService
	Qualification  services.QualificationService
	Recommendation services.RecommendationService
	Audit          services.SyncAuditService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet repos.Repos, graphStore graph.Store, cache redis.RecommendationCache) Services {
	log.Info("Wiring services...")
	writer := services.NewDualWriteService(db, reposet, graphStore, cache, cfg.GraphTimeout, log)
	qualification := services.NewQualificationService(reposet, writer, cfg.EvalConcurrency, log)
	recommendation := services.NewRecommendationService(reposet, graphStore, qualification, cache, cfg.Scoring, log)
	audit := services.NewSyncAuditService(reposet, graphStore, log)
	return Services{
		Writer:         writer,
		Qualification:  qualification,
		Recommendation: recommendation,
		Audit:          audit,
	}
}
