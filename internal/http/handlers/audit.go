package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Minkhantthwin/Backend/internal/http/response"
	"github.com/Minkhantthwin/Backend/internal/pkg/logger"
	"github.com/Minkhantthwin/Backend/internal/services"
)

type AuditHandler struct {
	log   *logger.Logger
	audit services.SyncAuditService
}

func NewAuditHandler(log *logger.Logger, audit services.SyncAuditService) *AuditHandler {
	return &AuditHandler{
		log:   log.With("handler", "AuditHandler"),
		audit: audit,
	}
}

// SyncStatus reports where the graph mirror has drifted from the primary
// store for one user's qualification verdicts.
func (h *AuditHandler) SyncStatus(c *gin.Context) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}
	report, err := h.audit.QualificationDrift(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, h.log, "SyncStatus", err)
		return
	}
	response.RespondOK(c, gin.H{"report": report})
}
