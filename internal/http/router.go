package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/Minkhantthwin/Backend/internal/http/handlers"
	httpMW "github.com/Minkhantthwin/Backend/internal/http/middleware"
	"github.com/Minkhantthwin/Backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	HealthHandler         *httpH.HealthHandler
	UserHandler           *httpH.UserHandler
	CatalogHandler        *httpH.CatalogHandler
	ApplicationHandler    *httpH.ApplicationHandler
	QualificationHandler  *httpH.QualificationHandler
	RecommendationHandler *httpH.RecommendationHandler
	AuditHandler          *httpH.AuditHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	r.Use(httpMW.CORS())
	r.Use(httpMW.RequestLogger(cfg.Log))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Users
		if cfg.UserHandler != nil {
			api.POST("/users", cfg.UserHandler.CreateUser)
			api.GET("/users/:id", cfg.UserHandler.GetUser)
			api.PUT("/users/:id", cfg.UserHandler.UpdateUser)
			api.DELETE("/users/:id", cfg.UserHandler.DeleteUser)

			api.POST("/users/:id/interests", cfg.UserHandler.AddInterest)
			api.PUT("/users/:id/interests", cfg.UserHandler.ReplaceInterests)
			api.POST("/users/:id/test-scores", cfg.UserHandler.AddTestScore)
			api.POST("/users/:id/qualifications", cfg.UserHandler.AddQualification)
			api.GET("/users/:id/applications", cfg.UserHandler.ListApplications)
		}

		// Catalog
		if cfg.CatalogHandler != nil {
			api.POST("/regions", cfg.CatalogHandler.CreateRegion)
			api.GET("/regions/:id", cfg.CatalogHandler.GetRegion)
			api.PUT("/regions/:id", cfg.CatalogHandler.UpdateRegion)
			api.DELETE("/regions/:id", cfg.CatalogHandler.DeleteRegion)
			api.GET("/regions/:id/universities", cfg.CatalogHandler.ListRegionUniversities)

			api.POST("/universities", cfg.CatalogHandler.CreateUniversity)
			api.GET("/universities/:id", cfg.CatalogHandler.GetUniversity)
			api.PUT("/universities/:id", cfg.CatalogHandler.UpdateUniversity)
			api.DELETE("/universities/:id", cfg.CatalogHandler.DeleteUniversity)

			api.POST("/programs", cfg.CatalogHandler.CreateProgram)
			api.GET("/programs", cfg.CatalogHandler.ListActivePrograms)
			api.GET("/programs/:id", cfg.CatalogHandler.GetProgram)
			api.PUT("/programs/:id", cfg.CatalogHandler.UpdateProgram)
			api.DELETE("/programs/:id", cfg.CatalogHandler.DeleteProgram)
		}

		// Applications
		if cfg.ApplicationHandler != nil {
			api.POST("/applications", cfg.ApplicationHandler.CreateApplication)
		}

		// Qualification checks
		if cfg.QualificationHandler != nil {
			api.POST("/users/:id/evaluations/:program_id", cfg.QualificationHandler.Evaluate)
			api.POST("/users/:id/evaluations", cfg.QualificationHandler.EvaluateAll)
			api.GET("/users/:id/evaluations/summary", cfg.QualificationHandler.Summary)
		}

		// Recommendations
		if cfg.RecommendationHandler != nil {
			api.GET("/users/:id/recommendations", cfg.RecommendationHandler.Recommend)
			api.GET("/programs/:id/similar", cfg.RecommendationHandler.SimilarPrograms)
		}

		// Mirror drift inspection
		if cfg.AuditHandler != nil {
			api.GET("/users/:id/sync-status", cfg.AuditHandler.SyncStatus)
		}
	}

	return r
}
