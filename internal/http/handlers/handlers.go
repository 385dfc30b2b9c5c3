// Package handlers is the thin inbound HTTP shim. Handlers bind input,
// delegate to services and translate sentinel errors into status codes;
// they hold no business logic.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Minkhantthwin/Backend/internal/http/response"
	apperrors "github.com/Minkhantthwin/Backend/internal/pkg/errors"
	"github.com/Minkhantthwin/Backend/internal/pkg/logger"
	"github.com/Minkhantthwin/Backend/internal/services"
)

func respondServiceError(c *gin.Context, log *logger.Logger, op string, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		response.RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, apperrors.ErrInvalidArgument):
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
	case errors.Is(err, apperrors.ErrUpstreamUnavailable):
		log.Error(op+" upstream unavailable", "error", err)
		response.RespondError(c, http.StatusServiceUnavailable, "upstream_unavailable", err)
	default:
		log.Error(op+" failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "internal_error", err)
	}
}

func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return uuid.Nil, false
	}
	return id, true
}

// withSync annotates a write response with the dual-write outcome so callers
// can see when the graph mirror lagged behind the primary commit.
func withSync(payload gin.H, outcome services.WriteOutcome) gin.H {
	if outcome.Drift {
		payload["sync_drift"] = true
	}
	return payload
}
