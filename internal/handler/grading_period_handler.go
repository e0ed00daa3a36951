package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/registrar-api/internal/dto"
	"github.com/noah-isme/registrar-api/internal/middleware"
	"github.com/noah-isme/registrar-api/internal/service"
	appErrors "github.com/noah-isme/registrar-api/pkg/errors"
	"github.com/noah-isme/registrar-api/pkg/response"
)

// GradingPeriodHandler exposes the grading structure endpoints.
type GradingPeriodHandler struct {
	service  *service.GradingPeriodService
	exporter *service.ExportService
}

// NewGradingPeriodHandler constructs the handler.
func NewGradingPeriodHandler(svc *service.GradingPeriodService, exporter *service.ExportService) *GradingPeriodHandler {
	return &GradingPeriodHandler{service: svc, exporter: exporter}
}

func levelQuery(c *gin.Context) (string, error) {
	levelID := strings.TrimSpace(c.Query("academic_level_id"))
	if levelID == "" {
		return "", appErrors.Field("academic_level_id", "academic_level_id is required")
	}
	return levelID, nil
}

// List godoc
// @Summary List grading periods of an academic level
// @Tags GradingPeriods
// @Produce json
// @Param academic_level_id query string true "Academic level ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /grading-periods [get]
func (h *GradingPeriodHandler) List(c *gin.Context) {
	levelID, err := levelQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	periods, err := h.service.List(c.Request.Context(), levelID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, periods, nil)
}

// Structure godoc
// @Summary Grading period tree of an academic level
// @Tags GradingPeriods
// @Produce json
// @Param academic_level_id query string true "Academic level ID"
// @Success 200 {object} response.Envelope
// @Router /grading-periods/structure [get]
func (h *GradingPeriodHandler) Structure(c *gin.Context) {
	levelID, err := levelQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	structure, hit, err := h.service.Structure(c.Request.Context(), levelID)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, structure, nil, middleware.ExtractMeta(c))
}

// ParentCandidates godoc
// @Summary Root semesters that can own child periods
// @Tags GradingPeriods
// @Produce json
// @Param academic_level_id query string true "Academic level ID"
// @Success 200 {object} response.Envelope
// @Router /grading-periods/parent-candidates [get]
func (h *GradingPeriodHandler) ParentCandidates(c *gin.Context) {
	levelID, err := levelQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	periods, err := h.service.ParentCandidates(c.Request.Context(), levelID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, periods, nil)
}

// Children godoc
// @Summary Child periods of a semester
// @Tags GradingPeriods
// @Produce json
// @Param id path string true "Grading period ID"
// @Success 200 {object} response.Envelope
// @Router /grading-periods/{id}/children [get]
func (h *GradingPeriodHandler) Children(c *gin.Context) {
	periods, err := h.service.Children(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, periods, nil)
}

// Get godoc
// @Summary Get grading period
// @Tags GradingPeriods
// @Produce json
// @Param id path string true "Grading period ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /grading-periods/{id} [get]
func (h *GradingPeriodHandler) Get(c *gin.Context) {
	period, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, period, nil)
}

// Create godoc
// @Summary Create grading period
// @Description Accepts include_flags or flat include_<period_type> booleans for final periods.
// @Tags GradingPeriods
// @Accept json
// @Produce json
// @Param payload body service.GradingPeriodRequest true "Grading period payload"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /grading-periods [post]
func (h *GradingPeriodHandler) Create(c *gin.Context) {
	var req service.GradingPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	period, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, period)
}

// Update godoc
// @Summary Update grading period
// @Tags GradingPeriods
// @Accept json
// @Produce json
// @Param id path string true "Grading period ID"
// @Param payload body service.GradingPeriodRequest true "Grading period payload"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /grading-periods/{id} [put]
func (h *GradingPeriodHandler) Update(c *gin.Context) {
	var req service.GradingPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	period, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, period, nil)
}

// Delete godoc
// @Summary Delete grading period
// @Tags GradingPeriods
// @Param id path string true "Grading period ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /grading-periods/{id} [delete]
func (h *GradingPeriodHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// FinalAverage godoc
// @Summary Compute a final period's average
// @Description Unweighted mean of the sibling grades whose period type the final period includes.
// @Tags GradingPeriods
// @Accept json
// @Produce json
// @Param id path string true "Final grading period ID"
// @Param payload body dto.FinalAverageRequest true "Sibling grades"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /grading-periods/{id}/final-average [post]
func (h *GradingPeriodHandler) FinalAverage(c *gin.Context) {
	var req dto.FinalAverageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	result, err := h.service.ComputeFinalAverage(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// WeightedAverage godoc
// @Summary Compute a weight-based average
// @Tags GradingPeriods
// @Accept json
// @Produce json
// @Param payload body dto.WeightedAverageRequest true "Scope and grades"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /grading-periods/weighted-average [post]
func (h *GradingPeriodHandler) WeightedAverage(c *gin.Context) {
	var req dto.WeightedAverageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	result, err := h.service.ComputeWeightedAverage(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Export godoc
// @Summary Export grading periods
// @Tags GradingPeriods
// @Produce text/csv
// @Produce application/pdf
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param academic_level_id query string true "Academic level ID"
// @Param format query string false "csv, pdf or xlsx" default(csv)
// @Success 200 {file} file
// @Router /grading-periods/export [get]
func (h *GradingPeriodHandler) Export(c *gin.Context) {
	levelID, err := levelQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.exporter.GradingPeriods(c.Request.Context(), levelID, service.ExportFormat(c.DefaultQuery("format", "csv")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, result.ContentType, result.Filename, result.Payload)
}
