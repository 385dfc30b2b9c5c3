package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Minkhantthwin/Backend/internal/data/repos"
	"github.com/Minkhantthwin/Backend/internal/domain"
	"github.com/Minkhantthwin/Backend/internal/http/response"
	"github.com/Minkhantthwin/Backend/internal/pkg/logger"
	"github.com/Minkhantthwin/Backend/internal/services"
)

type UserHandler struct {
	log    *logger.Logger
	writer services.DualWriteService
	repos  repos.Repos
}

func NewUserHandler(log *logger.Logger, writer services.DualWriteService, r repos.Repos) *UserHandler {
	return &UserHandler{
		log:    log.With("handler", "UserHandler"),
		writer: writer,
		repos:  r,
	}
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var user domain.User
	if err := c.ShouldBindJSON(&user); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	outcome, err := h.writer.CreateUser(c.Request.Context(), &user)
	if err != nil {
		respondServiceError(c, h.log, "CreateUser", err)
		return
	}
	response.RespondCreated(c, withSync(gin.H{"user": user}, outcome))
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	user, err := h.repos.Users.GetByIDWithProfile(c.Request.Context(), nil, id)
	if err != nil {
		respondServiceError(c, h.log, "GetUser", err)
		return
	}
	if user == nil {
		response.RespondError(c, http.StatusNotFound, "not_found", nil)
		return
	}
	response.RespondOK(c, gin.H{"user": user})
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var user domain.User
	if err := c.ShouldBindJSON(&user); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	user.ID = id
	outcome, err := h.writer.UpdateUser(c.Request.Context(), &user)
	if err != nil {
		respondServiceError(c, h.log, "UpdateUser", err)
		return
	}
	response.RespondOK(c, withSync(gin.H{"user": user}, outcome))
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	outcome, err := h.writer.DeleteUser(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, "DeleteUser", err)
		return
	}
	response.RespondOK(c, withSync(gin.H{"deleted": id}, outcome))
}

func (h *UserHandler) AddInterest(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var interest domain.Interest
	if err := c.ShouldBindJSON(&interest); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	interest.UserID = id
	outcome, err := h.writer.AddInterest(c.Request.Context(), &interest)
	if err != nil {
		respondServiceError(c, h.log, "AddInterest", err)
		return
	}
	response.RespondCreated(c, withSync(gin.H{"interest": interest}, outcome))
}

func (h *UserHandler) ReplaceInterests(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var interests []*domain.Interest
	if err := c.ShouldBindJSON(&interests); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	outcome, err := h.writer.ReplaceInterests(c.Request.Context(), id, interests)
	if err != nil {
		respondServiceError(c, h.log, "ReplaceInterests", err)
		return
	}
	response.RespondOK(c, withSync(gin.H{"interests": interests}, outcome))
}

func (h *UserHandler) AddTestScore(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var score domain.TestScore
	if err := c.ShouldBindJSON(&score); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	score.UserID = id
	outcome, err := h.writer.AddTestScore(c.Request.Context(), &score)
	if err != nil {
		respondServiceError(c, h.log, "AddTestScore", err)
		return
	}
	response.RespondCreated(c, withSync(gin.H{"test_score": score}, outcome))
}

func (h *UserHandler) AddQualification(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var qualification domain.Qualification
	if err := c.ShouldBindJSON(&qualification); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	qualification.UserID = id
	outcome, err := h.writer.AddQualification(c.Request.Context(), &qualification)
	if err != nil {
		respondServiceError(c, h.log, "AddQualification", err)
		return
	}
	response.RespondCreated(c, withSync(gin.H{"qualification": qualification}, outcome))
}

func (h *UserHandler) ListApplications(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	applications, err := h.repos.Applications.ListByUser(c.Request.Context(), nil, id)
	if err != nil {
		respondServiceError(c, h.log, "ListApplications", err)
		return
	}
	response.RespondOK(c, gin.H{"applications": applications})
}
