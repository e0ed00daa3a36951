package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/registrar-api/internal/service"
	"github.com/noah-isme/registrar-api/pkg/response"
)

// AuditHandler exposes the registrar audit trail.
type AuditHandler struct {
	service *service.AuditService
}

// NewAuditHandler constructs the handler.
func NewAuditHandler(svc *service.AuditService) *AuditHandler {
	return &AuditHandler{service: svc}
}

// List godoc
// @Summary Recent audit entries for a resource
// @Tags Audit
// @Produce json
// @Param resource query string true "Resource name such as grading_periods"
// @Param limit query int false "Maximum entries" default(50)
// @Success 200 {object} response.Envelope
// @Router /audit-logs [get]
func (h *AuditHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	logs, err := h.service.List(c.Request.Context(), c.Query("resource"), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, logs, nil)
}
