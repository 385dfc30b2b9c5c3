package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Minkhantthwin/Backend/internal/http/response"
	"github.com/Minkhantthwin/Backend/internal/pkg/logger"
	"github.com/Minkhantthwin/Backend/internal/services"
)

type RecommendationHandler struct {
	log  *logger.Logger
	reco services.RecommendationService
}

func NewRecommendationHandler(log *logger.Logger, reco services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{
		log:  log.With("handler", "RecommendationHandler"),
		reco: reco,
	}
}

func (h *RecommendationHandler) Recommend(c *gin.Context) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}

	limit := 10
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			response.RespondError(c, http.StatusBadRequest, "invalid_limit", err)
			return
		}
		limit = v
	}

	var filters services.RecommendationFilters
	if raw := c.Query("max_tuition"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_max_tuition", err)
			return
		}
		filters.MaxTuition = &v
	}
	filters.Language = c.Query("language")
	if raw := c.Query("region_id"); raw != "" {
		v, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_region_id", err)
			return
		}
		filters.RegionID = v
	}

	results, err := h.reco.Recommend(c.Request.Context(), userID, filters, limit)
	if err != nil {
		respondServiceError(c, h.log, "Recommend", err)
		return
	}
	response.RespondOK(c, gin.H{"recommendations": results})
}

func (h *RecommendationHandler) SimilarPrograms(c *gin.Context) {
	programID, ok := parseID(c, "id")
	if !ok {
		return
	}
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			response.RespondError(c, http.StatusBadRequest, "invalid_limit", err)
			return
		}
		limit = v
	}
	results, err := h.reco.SimilarToProgram(c.Request.Context(), programID, limit)
	if err != nil {
		respondServiceError(c, h.log, "SimilarPrograms", err)
		return
	}
	response.RespondOK(c, gin.H{"programs": results})
}
