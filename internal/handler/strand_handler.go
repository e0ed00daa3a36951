package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/registrar-api/internal/models"
	"github.com/noah-isme/registrar-api/internal/service"
	"github.com/noah-isme/registrar-api/pkg/response"
)

// StrandHandler handles senior high strand endpoints.
type StrandHandler struct {
	service *service.StrandService
}

// NewStrandHandler constructs the handler.
func NewStrandHandler(svc *service.StrandService) *StrandHandler {
	return &StrandHandler{service: svc}
}

// List godoc
// @Summary List strands
// @Tags Strands
// @Produce json
// @Param academic_level_id query string false "Filter by academic level"
// @Param search query string false "Search keyword"
// @Success 200 {object} response.Envelope
// @Router /strands [get]
func (h *StrandHandler) List(c *gin.Context) {
	base, err := listFilterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	strands, pagination, err := h.service.List(c.Request.Context(), models.StrandFilter{ListFilter: base, AcademicLevelID: c.Query("academic_level_id")})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, strands, pagination)
}

// Get godoc
// @Summary Get strand
// @Tags Strands
// @Param id path string true "Strand ID"
// @Success 200 {object} response.Envelope
// @Router /strands/{id} [get]
func (h *StrandHandler) Get(c *gin.Context) {
	strand, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, strand, nil)
}

// Create godoc
// @Summary Create strand
// @Tags Strands
// @Accept json
// @Param payload body service.StrandRequest true "Strand payload"
// @Success 201 {object} response.Envelope
// @Router /strands [post]
func (h *StrandHandler) Create(c *gin.Context) {
	var req service.StrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	strand, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, strand)
}

// Update godoc
// @Summary Update strand
// @Tags Strands
// @Accept json
// @Param id path string true "Strand ID"
// @Param payload body service.StrandRequest true "Strand payload"
// @Success 200 {object} response.Envelope
// @Router /strands/{id} [put]
func (h *StrandHandler) Update(c *gin.Context) {
	var req service.StrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	strand, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, strand, nil)
}

// Delete godoc
// @Summary Delete strand
// @Tags Strands
// @Param id path string true "Strand ID"
// @Success 204
// @Router /strands/{id} [delete]
func (h *StrandHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
