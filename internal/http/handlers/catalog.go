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

// CatalogHandler covers the reference entities: regions, universities and
// programs.
type CatalogHandler struct {
	log    *logger.Logger
	writer services.DualWriteService
	repos  repos.Repos
}

func NewCatalogHandler(log *logger.Logger, writer services.DualWriteService, r repos.Repos) *CatalogHandler {
	return &CatalogHandler{
		log:    log.With("handler", "CatalogHandler"),
		writer: writer,
		repos:  r,
	}
}

// -- regions --

func (h *CatalogHandler) CreateRegion(c *gin.Context) {
	var region domain.Region
	if err := c.ShouldBindJSON(&region); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	outcome, err := h.writer.CreateRegion(c.Request.Context(), &region)
	if err != nil {
		respondServiceError(c, h.log, "CreateRegion", err)
		return
	}
	response.RespondCreated(c, withSync(gin.H{"region": region}, outcome))
}

func (h *CatalogHandler) GetRegion(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	region, err := h.repos.Regions.GetByID(c.Request.Context(), nil, id)
	if err != nil {
		respondServiceError(c, h.log, "GetRegion", err)
		return
	}
	if region == nil {
		response.RespondError(c, http.StatusNotFound, "not_found", nil)
		return
	}
	response.RespondOK(c, gin.H{"region": region})
}

func (h *CatalogHandler) UpdateRegion(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var region domain.Region
	if err := c.ShouldBindJSON(&region); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	region.ID = id
	outcome, err := h.writer.UpdateRegion(c.Request.Context(), &region)
	if err != nil {
		respondServiceError(c, h.log, "UpdateRegion", err)
		return
	}
	response.RespondOK(c, withSync(gin.H{"region": region}, outcome))
}

func (h *CatalogHandler) DeleteRegion(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	outcome, err := h.writer.DeleteRegion(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, "DeleteRegion", err)
		return
	}
	response.RespondOK(c, withSync(gin.H{"deleted": id}, outcome))
}

func (h *CatalogHandler) ListRegionUniversities(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	universities, err := h.repos.Universities.ListByRegion(c.Request.Context(), nil, id)
	if err != nil {
		respondServiceError(c, h.log, "ListRegionUniversities", err)
		return
	}
	response.RespondOK(c, gin.H{"universities": universities})
}

// -- universities --

func (h *CatalogHandler) CreateUniversity(c *gin.Context) {
	var university domain.University
	if err := c.ShouldBindJSON(&university); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	outcome, err := h.writer.CreateUniversity(c.Request.Context(), &university)
	if err != nil {
		respondServiceError(c, h.log, "CreateUniversity", err)
		return
	}
	response.RespondCreated(c, withSync(gin.H{"university": university}, outcome))
}

func (h *CatalogHandler) GetUniversity(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	university, err := h.repos.Universities.GetByID(c.Request.Context(), nil, id)
	if err != nil {
		respondServiceError(c, h.log, "GetUniversity", err)
		return
	}
	if university == nil {
		response.RespondError(c, http.StatusNotFound, "not_found", nil)
		return
	}
	response.RespondOK(c, gin.H{"university": university})
}

func (h *CatalogHandler) UpdateUniversity(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var university domain.University
	if err := c.ShouldBindJSON(&university); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	university.ID = id
	outcome, err := h.writer.UpdateUniversity(c.Request.Context(), &university)
	if err != nil {
		respondServiceError(c, h.log, "UpdateUniversity", err)
		return
	}
	response.RespondOK(c, withSync(gin.H{"university": university}, outcome))
}

func (h *CatalogHandler) DeleteUniversity(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	outcome, err := h.writer.DeleteUniversity(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, "DeleteUniversity", err)
		return
	}
	response.RespondOK(c, withSync(gin.H{"deleted": id}, outcome))
}

// -- programs --

func (h *CatalogHandler) CreateProgram(c *gin.Context) {
	var program domain.Program
	if err := c.ShouldBindJSON(&program); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	outcome, err := h.writer.CreateProgram(c.Request.Context(), &program)
	if err != nil {
		respondServiceError(c, h.log, "CreateProgram", err)
		return
	}
	response.RespondCreated(c, withSync(gin.H{"program": program}, outcome))
}

func (h *CatalogHandler) GetProgram(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	program, err := h.repos.Programs.GetByID(c.Request.Context(), nil, id)
	if err != nil {
		respondServiceError(c, h.log, "GetProgram", err)
		return
	}
	if program == nil {
		response.RespondError(c, http.StatusNotFound, "not_found", nil)
		return
	}
	response.RespondOK(c, gin.H{"program": program})
}

func (h *CatalogHandler) ListActivePrograms(c *gin.Context) {
	programs, err := h.repos.Programs.ListActive(c.Request.Context(), nil)
	if err != nil {
		respondServiceError(c, h.log, "ListActivePrograms", err)
		return
	}
	response.RespondOK(c, gin.H{"programs": programs})
}

func (h *CatalogHandler) UpdateProgram(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var program domain.Program
	if err := c.ShouldBindJSON(&program); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	program.ID = id
	outcome, err := h.writer.UpdateProgram(c.Request.Context(), &program)
	if err != nil {
		respondServiceError(c, h.log, "UpdateProgram", err)
		return
	}
	response.RespondOK(c, withSync(gin.H{"program": program}, outcome))
}

// DeleteProgram is a soft delete: the program is deactivated, not removed.
func (h *CatalogHandler) DeleteProgram(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	outcome, err := h.writer.SoftDeleteProgram(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, "DeleteProgram", err)
		return
	}
	response.RespondOK(c, withSync(gin.H{"deactivated": id}, outcome))
}
