package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Minkhantthwin/Backend/internal/domain"
	"github.com/Minkhantthwin/Backend/internal/http/response"
	"github.com/Minkhantthwin/Backend/internal/pkg/logger"
	"github.com/Minkhantthwin/Backend/internal/services"
)

type ApplicationHandler struct {
	log    *logger.Logger
	writer services.DualWriteService
}

func NewApplicationHandler(log *logger.Logger, writer services.DualWriteService) *ApplicationHandler {
	return &ApplicationHandler{
		log:    log.With("handler", "ApplicationHandler"),
		writer: writer,
	}
}

func (h *ApplicationHandler) CreateApplication(c *gin.Context) {
	var application domain.Application
	if err := c.ShouldBindJSON(&application); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	outcome, err := h.writer.CreateApplication(c.Request.Context(), &application)
	if err != nil {
		respondServiceError(c, h.log, "CreateApplication", err)
		return
	}
	response.RespondCreated(c, withSync(gin.H{"application": application}, outcome))
}
