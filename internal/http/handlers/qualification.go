package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Minkhantthwin/Backend/internal/http/response"
	"github.com/Minkhantthwin/Backend/internal/pkg/logger"
	"github.com/Minkhantthwin/Backend/internal/services"
)

type QualificationHandler struct {
	log  *logger.Logger
	qual services.QualificationService
}

func NewQualificationHandler(log *logger.Logger, qual services.QualificationService) *QualificationHandler {
	return &QualificationHandler{
		log:  log.With("handler", "QualificationHandler"),
		qual: qual,
	}
}

// Evaluate checks one user against one program and returns the persisted
// verdict.
func (h *QualificationHandler) Evaluate(c *gin.Context) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}
	programID, ok := parseID(c, "program_id")
	if !ok {
		return
	}
	status, err := h.qual.Evaluate(c.Request.Context(), userID, programID)
	if err != nil {
		respondServiceError(c, h.log, "Evaluate", err)
		return
	}
	response.RespondOK(c, gin.H{"status": status})
}

// EvaluateAll refreshes the user's verdicts for every active program.
func (h *QualificationHandler) EvaluateAll(c *gin.Context) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}
	statuses, err := h.qual.EvaluateAll(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, h.log, "EvaluateAll", err)
		return
	}
	response.RespondOK(c, gin.H{"statuses": statuses})
}

func (h *QualificationHandler) Summary(c *gin.Context) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}
	summary, err := h.qual.Summary(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, h.log, "Summary", err)
		return
	}
	response.RespondOK(c, gin.H{"summary": summary})
}
