package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/registrar-api/internal/models"
	"github.com/noah-isme/registrar-api/internal/service"
	"github.com/noah-isme/registrar-api/pkg/response"
)

const htmlContentType = "text/html; charset=utf-8"

// CertificateHandler exposes honor certificate issuance and downloads.
type CertificateHandler struct {
	service *service.CertificateService
}

// NewCertificateHandler constructs the handler.
func NewCertificateHandler(svc *service.CertificateService) *CertificateHandler {
	return &CertificateHandler{service: svc}
}

// List godoc
// @Summary List certificates
// @Tags Certificates
// @Produce json
// @Param student_id query string false "Filter by student"
// @Param honor_type_id query string false "Filter by honor type"
// @Param school_year query string false "Filter by school year"
// @Param status query string false "PENDING, READY or FAILED"
// @Success 200 {object} response.Envelope
// @Router /certificates [get]
func (h *CertificateHandler) List(c *gin.Context) {
	filter := models.CertificateFilter{
		StudentID:   c.Query("student_id"),
		HonorTypeID: c.Query("honor_type_id"),
		SchoolYear:  c.Query("school_year"),
		Status:      models.CertificateStatus(strings.ToUpper(strings.TrimSpace(c.Query("status")))),
	}
	filter.Page, filter.PageSize = pageFromQuery(c)
	certs, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, certs, pagination)
}

// Get godoc
// @Summary Get certificate
// @Tags Certificates
// @Param id path string true "Certificate ID"
// @Success 200 {object} response.Envelope
// @Router /certificates/{id} [get]
func (h *CertificateHandler) Get(c *gin.Context) {
	cert, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cert, nil)
}

// IssueBatch godoc
// @Summary Issue honor certificates for a batch of students
// @Description Certificates are created as PENDING and rendered in the background.
// @Tags Certificates
// @Accept json
// @Produce json
// @Param payload body service.CertificateBatchRequest true "Batch payload"
// @Success 202 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /certificates/batch [post]
func (h *CertificateHandler) IssueBatch(c *gin.Context) {
	var req service.CertificateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	certs, err := h.service.IssueBatch(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, certs, nil)
}

// Link godoc
// @Summary Signed download link for a rendered certificate
// @Tags Certificates
// @Param id path string true "Certificate ID"
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /certificates/{id}/link [get]
func (h *CertificateHandler) Link(c *gin.Context) {
	link, err := h.service.Link(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, link, nil)
}

// Download godoc
// @Summary Download a rendered certificate
// @Tags Certificates
// @Produce text/html
// @Param token path string true "Signed token"
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Router /certificates/download/{token} [get]
func (h *CertificateHandler) Download(c *gin.Context) {
	payload, filename, err := h.service.Download(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, htmlContentType, filename, payload)
}

// Preview godoc
// @Summary Render a certificate without storing it
// @Tags Certificates
// @Produce text/html
// @Param id path string true "Certificate ID"
// @Success 200 {string} string
// @Router /certificates/{id}/preview [get]
func (h *CertificateHandler) Preview(c *gin.Context) {
	payload, err := h.service.Preview(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Data(http.StatusOK, htmlContentType, payload)
}

// Delete godoc
// @Summary Delete certificate
// @Tags Certificates
// @Param id path string true "Certificate ID"
// @Success 204
// @Router /certificates/{id} [delete]
func (h *CertificateHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
