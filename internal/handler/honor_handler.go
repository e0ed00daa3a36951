package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/registrar-api/internal/service"
	appErrors "github.com/noah-isme/registrar-api/pkg/errors"
	"github.com/noah-isme/registrar-api/pkg/response"
)

// HonorHandler serves honor types and certificate templates.
type HonorHandler struct {
	honors    *service.HonorTypeService
	templates *service.CertificateTemplateService
}

// NewHonorHandler constructs the handler.
func NewHonorHandler(honors *service.HonorTypeService, templates *service.CertificateTemplateService) *HonorHandler {
	return &HonorHandler{honors: honors, templates: templates}
}

// ListHonorTypes godoc
// @Summary List honor types
// @Tags HonorTypes
// @Produce json
// @Param academic_level_id query string false "Filter by academic level"
// @Param is_active query bool false "Filter by active flag"
// @Success 200 {object} response.Envelope
// @Router /honor-types [get]
func (h *HonorHandler) ListHonorTypes(c *gin.Context) {
	active, err := boolQuery(c, "is_active")
	if err != nil {
		response.Error(c, err)
		return
	}
	honors, err := h.honors.List(c.Request.Context(), c.Query("academic_level_id"), active)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, honors, nil)
}

// ResolveHonorType godoc
// @Summary Find the honor a general average qualifies for
// @Tags HonorTypes
// @Produce json
// @Param average query number true "General average"
// @Param academic_level_id query string false "Academic level ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /honor-types/resolve [get]
func (h *HonorHandler) ResolveHonorType(c *gin.Context) {
	average, err := strconv.ParseFloat(strings.TrimSpace(c.Query("average")), 64)
	if err != nil {
		response.Error(c, appErrors.Field("average", "average must be a number"))
		return
	}
	honor, err := h.honors.Resolve(c.Request.Context(), average, c.Query("academic_level_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, honor, nil)
}

// GetHonorType godoc
// @Summary Get honor type
// @Tags HonorTypes
// @Param id path string true "Honor type ID"
// @Success 200 {object} response.Envelope
// @Router /honor-types/{id} [get]
func (h *HonorHandler) GetHonorType(c *gin.Context) {
	honor, err := h.honors.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, honor, nil)
}

// CreateHonorType godoc
// @Summary Create honor type
// @Tags HonorTypes
// @Accept json
// @Param payload body service.HonorTypeRequest true "Honor type payload"
// @Success 201 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /honor-types [post]
func (h *HonorHandler) CreateHonorType(c *gin.Context) {
	var req service.HonorTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	honor, err := h.honors.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, honor)
}

// UpdateHonorType godoc
// @Summary Update honor type
// @Tags HonorTypes
// @Accept json
// @Param id path string true "Honor type ID"
// @Param payload body service.HonorTypeRequest true "Honor type payload"
// @Success 200 {object} response.Envelope
// @Router /honor-types/{id} [put]
func (h *HonorHandler) UpdateHonorType(c *gin.Context) {
	var req service.HonorTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	honor, err := h.honors.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, honor, nil)
}

// DeleteHonorType godoc
// @Summary Delete honor type
// @Tags HonorTypes
// @Param id path string true "Honor type ID"
// @Success 204
// @Failure 409 {object} response.Envelope
// @Router /honor-types/{id} [delete]
func (h *HonorHandler) DeleteHonorType(c *gin.Context) {
	if err := h.honors.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListTemplates godoc
// @Summary List certificate templates
// @Tags CertificateTemplates
// @Produce json
// @Param honor_type_id query string false "Filter by honor type"
// @Param is_active query bool false "Filter by active flag"
// @Success 200 {object} response.Envelope
// @Router /certificate-templates [get]
func (h *HonorHandler) ListTemplates(c *gin.Context) {
	active, err := boolQuery(c, "is_active")
	if err != nil {
		response.Error(c, err)
		return
	}
	templates, err := h.templates.List(c.Request.Context(), c.Query("honor_type_id"), active)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, templates, nil)
}

// GetTemplate godoc
// @Summary Get certificate template
// @Tags CertificateTemplates
// @Param id path string true "Template ID"
// @Success 200 {object} response.Envelope
// @Router /certificate-templates/{id} [get]
func (h *HonorHandler) GetTemplate(c *gin.Context) {
	tpl, err := h.templates.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tpl, nil)
}

// CreateTemplate godoc
// @Summary Create certificate template
// @Description Content is an html/template body rendered with the certificate data.
// @Tags CertificateTemplates
// @Accept json
// @Param payload body service.CertificateTemplateRequest true "Template payload"
// @Success 201 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /certificate-templates [post]
func (h *HonorHandler) CreateTemplate(c *gin.Context) {
	var req service.CertificateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	tpl, err := h.templates.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, tpl)
}

// UpdateTemplate godoc
// @Summary Update certificate template
// @Tags CertificateTemplates
// @Accept json
// @Param id path string true "Template ID"
// @Param payload body service.CertificateTemplateRequest true "Template payload"
// @Success 200 {object} response.Envelope
// @Router /certificate-templates/{id} [put]
func (h *HonorHandler) UpdateTemplate(c *gin.Context) {
	var req service.CertificateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	tpl, err := h.templates.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tpl, nil)
}

// DeleteTemplate godoc
// @Summary Delete certificate template
// @Tags CertificateTemplates
// @Param id path string true "Template ID"
// @Success 204
// @Router /certificate-templates/{id} [delete]
func (h *HonorHandler) DeleteTemplate(c *gin.Context) {
	if err := h.templates.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
