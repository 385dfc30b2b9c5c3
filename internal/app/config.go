package app

import (
	"time"

	"github.com/Minkhantthwin/Backend/internal/pkg/logger"
	"github.com/Minkhantthwin/Backend/internal/platform/envutil"
	"github.com/Minkhantthwin/Backend/internal/services"
)

type Config struct {
	Port            string
	GraphTimeout    time.Duration
	CacheTTL        time.Duration
	EvalConcurrency int
	Scoring         services.ScoringConfig
}

func LoadConfig(log *logger.Logger) Config {
	defaults := services.DefaultScoringConfig()
	return Config{
		Port:            envutil.GetEnv("PORT", "8080", log),
		GraphTimeout:    time.Duration(envutil.GetEnvAsInt("GRAPH_WRITE_TIMEOUT_SECONDS", 5, log)) * time.Second,
		CacheTTL:        time.Duration(envutil.GetEnvAsInt("RECOMMENDATION_CACHE_TTL_SECONDS", 3600, log)) * time.Second,
		EvalConcurrency: envutil.GetEnvAsInt("EVALUATION_CONCURRENCY", 8, log),
		Scoring: services.ScoringConfig{
			InterestWeight:      envutil.GetEnvAsFloat("RECO_INTEREST_WEIGHT", defaults.InterestWeight, log),
			QualificationWeight: envutil.GetEnvAsFloat("RECO_QUALIFICATION_WEIGHT", defaults.QualificationWeight, log),
			GraphWeight:         envutil.GetEnvAsFloat("RECO_GRAPH_WEIGHT", defaults.GraphWeight, log),
			MultiSourceBoost:    envutil.GetEnvAsFloat("RECO_MULTI_SOURCE_BOOST", defaults.MultiSourceBoost, log),
		},
	}
}
