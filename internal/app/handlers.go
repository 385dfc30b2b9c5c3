package app

import (
	"github.com/gin-gonic/gin"

	"github.com/Minkhantthwin/Backend/internal/data/repos"
	httpx "github.com/Minkhantthwin/Backend/internal/http"
	httpH "github.com/Minkhantthwin/Backend/internal/http/handlers"
	"github.com/Minkhantthwin/Backend/internal/pkg/logger"
)

type Handlers struct {
	Health         *httpH.HealthHandler
	User           *httpH.UserHandler
	Catalog        *httpH.CatalogHandler
	Application    *httpH.ApplicationHandler
	Qualification  *httpH.QualificationHandler
	Recommendation *httpH.RecommendationHandler
	Audit          *httpH.AuditHandler
}

func wireHandlers(log *logger.Logger, serviceset Services, reposet repos.Repos) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:         httpH.NewHealthHandler(),
		User:           httpH.NewUserHandler(log, serviceset.Writer, reposet),
		Catalog:        httpH.NewCatalogHandler(log, serviceset.Writer, reposet),
		Application:    httpH.NewApplicationHandler(log, serviceset.Writer),
		Qualification:  httpH.NewQualificationHandler(log, serviceset.Qualification),
		Recommendation: httpH.NewRecommendationHandler(log, serviceset.Recommendation),
		Audit:          httpH.NewAuditHandler(log, serviceset.Audit),
	}
}

func wireRouter(log *logger.Logger, handlers Handlers) *gin.Engine {
	return httpx.NewRouter(httpx.RouterConfig{
		Log:                   log,
		HealthHandler:         handlers.Health,
		UserHandler:           handlers.User,
		CatalogHandler:        handlers.Catalog,
		ApplicationHandler:    handlers.Application,
		QualificationHandler:  handlers.Qualification,
		RecommendationHandler: handlers.Recommendation,
		AuditHandler:          handlers.Audit,
	})
}
