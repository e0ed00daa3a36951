package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/registrar-api/internal/service"
	"github.com/noah-isme/registrar-api/pkg/response"
)

// AcademicLevelHandler handles academic level endpoints.
type AcademicLevelHandler struct {
	service *service.AcademicLevelService
}

// NewAcademicLevelHandler constructs the handler.
func NewAcademicLevelHandler(svc *service.AcademicLevelService) *AcademicLevelHandler {
	return &AcademicLevelHandler{service: svc}
}

// List godoc
// @Summary List academic levels
// @Tags AcademicLevels
// @Produce json
// @Param is_active query bool false "Filter by active flag"
// @Success 200 {object} response.Envelope
// @Router /academic-levels [get]
func (h *AcademicLevelHandler) List(c *gin.Context) {
	active, err := boolQuery(c, "is_active")
	if err != nil {
		response.Error(c, err)
		return
	}
	levels, err := h.service.List(c.Request.Context(), active)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, levels, nil)
}

// Get godoc
// @Summary Get academic level
// @Tags AcademicLevels
// @Produce json
// @Param id path string true "Academic level ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /academic-levels/{id} [get]
func (h *AcademicLevelHandler) Get(c *gin.Context) {
	level, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, level, nil)
}

// Create godoc
// @Summary Create academic level
// @Tags AcademicLevels
// @Accept json
// @Produce json
// @Param payload body service.AcademicLevelRequest true "Academic level payload"
// @Success 201 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /academic-levels [post]
func (h *AcademicLevelHandler) Create(c *gin.Context) {
	var req service.AcademicLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	level, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, level)
}

// Update godoc
// @Summary Update academic level
// @Tags AcademicLevels
// @Accept json
// @Produce json
// @Param id path string true "Academic level ID"
// @Param payload body service.AcademicLevelRequest true "Academic level payload"
// @Success 200 {object} response.Envelope
// @Router /academic-levels/{id} [put]
func (h *AcademicLevelHandler) Update(c *gin.Context) {
	var req service.AcademicLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	level, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, level, nil)
}

// Delete godoc
// @Summary Delete academic level
// @Tags AcademicLevels
// @Param id path string true "Academic level ID"
// @Success 204
// @Failure 409 {object} response.Envelope
// @Router /academic-levels/{id} [delete]
func (h *AcademicLevelHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
