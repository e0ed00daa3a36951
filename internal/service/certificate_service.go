package service

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/registrar-api/internal/models"
	"github.com/noah-isme/registrar-api/pkg/certificate"
	appErrors "github.com/noah-isme/registrar-api/pkg/errors"
	"github.com/noah-isme/registrar-api/pkg/jobs"
	"github.com/noah-isme/registrar-api/pkg/storage"
)

// CertificateJobType tags certificate render jobs on the queue.
const CertificateJobType = "certificate.render"

type certificateRepository interface {
	List(ctx context.Context, filter models.CertificateFilter) ([]models.Certificate, int, error)
	FindByID(ctx context.Context, id string) (*models.Certificate, error)
	CreateBatch(ctx context.Context, certificates []*models.Certificate) error
	UpdateStatus(ctx context.Context, id string, status models.CertificateStatus, documentPath, errorMessage *string) error
	Delete(ctx context.Context, id string) error
}

type templateReader interface {
	FindByID(ctx context.Context, id string) (*models.CertificateTemplate, error)
}

type studentDirectory interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	FindMany(ctx context.Context, ids []string) (map[string]models.Student, error)
}

type documentStore interface {
	Save(name string, data []byte) (string, error)
	Read(name string) ([]byte, error)
	Delete(name string) error
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

type logoProvider interface {
	ImgTag(opts certificate.LogoOptions) template.HTML
}

type certificateJobRecorder interface {
	RecordCertificateJob(status string)
}

// CertificateBatchStudent is one recipient of a batch issue.
type CertificateBatchStudent struct {
	StudentID string   `json:"student_id" validate:"required"`
	Average   *float64 `json:"average" validate:"omitempty,gte=0,lte=100"`
}

// CertificateBatchRequest issues one honor to many students.
type CertificateBatchRequest struct {
	HonorTypeID string                    `json:"honor_type_id" validate:"required"`
	TemplateID  string                    `json:"template_id" validate:"required"`
	SchoolYear  string                    `json:"school_year" validate:"required"`
	Students    []CertificateBatchStudent `json:"students" validate:"required,min=1,max=500,dive"`
}

// CertificateLink is a signed, expiring download location.
type CertificateLink struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CertificateServiceConfig tunes link generation.
type CertificateServiceConfig struct {
	APIPrefix string
}

// CertificateDeps groups the collaborators shared by the certificate service and worker.
type CertificateDeps struct {
	Certificates certificateRepository
	Templates    templateReader
	Honors       honorTypeReader
	Students     studentDirectory
	Storage      documentStore
	Logo         logoProvider
	Metrics      certificateJobRecorder
}

func (d CertificateDeps) recordJob(status models.CertificateStatus) {
	if d.Metrics != nil {
		d.Metrics.RecordCertificateJob(string(status))
	}
}

// CertificateService issues honor certificates and serves the rendered documents.
type CertificateService struct {
	deps      CertificateDeps
	queue     jobDispatcher
	signer    *storage.SignedURLSigner
	validator *validator.Validate
	logger    *zap.Logger
	cfg       CertificateServiceConfig
}

// NewCertificateService constructs a certificate service.
func NewCertificateService(deps CertificateDeps, queue jobDispatcher, signer *storage.SignedURLSigner, validate *validator.Validate, logger *zap.Logger, cfg CertificateServiceConfig) *CertificateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = "/api/v1"
	}
	return &CertificateService{
		deps:      deps,
		queue:     queue,
		signer:    signer,
		validator: ensureValidator(validate),
		logger:    logger,
		cfg:       cfg,
	}
}

// List returns certificates with pagination.
func (s *CertificateService) List(ctx context.Context, filter models.CertificateFilter) ([]models.Certificate, *models.Pagination, error) {
	items, total, err := s.deps.Certificates.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to list certificates")
	}
	return items, paginate(filter.Page, filter.PageSize, total), nil
}

// Get returns a certificate by id.
func (s *CertificateService) Get(ctx context.Context, id string) (*models.Certificate, error) {
	cert, err := s.deps.Certificates.FindByID(ctx, id)
	if err != nil {
		return nil, mapReadError(err, "certificate")
	}
	return cert, nil
}

// IssueBatch records PENDING certificates for every student and enqueues their rendering.
func (s *CertificateService) IssueBatch(ctx context.Context, req CertificateBatchRequest) ([]models.Certificate, error) {
	req.HonorTypeID = strings.TrimSpace(req.HonorTypeID)
	req.TemplateID = strings.TrimSpace(req.TemplateID)
	req.SchoolYear = strings.TrimSpace(req.SchoolYear)
	if err := validatePayload(s.validator, req); err != nil {
		return nil, err
	}
	if msg := checkSchoolYear(req.SchoolYear); msg != "" {
		return nil, appErrors.Field("school_year", msg)
	}

	honor, err := s.deps.Honors.FindByID(ctx, req.HonorTypeID)
	if err != nil {
		return nil, mapReadError(err, "honor type")
	}
	tmpl, err := s.deps.Templates.FindByID(ctx, req.TemplateID)
	if err != nil {
		return nil, mapReadError(err, "certificate template")
	}

	fields := map[string]string{}
	if !honor.IsActive {
		fields["honor_type_id"] = "honor type is inactive"
	}
	if !tmpl.IsActive {
		fields["template_id"] = "template is inactive"
	} else if tmpl.HonorTypeID != nil && *tmpl.HonorTypeID != honor.ID {
		fields["template_id"] = "template is reserved for another honor type"
	}

	ids := make([]string, 0, len(req.Students))
	seen := make(map[string]struct{}, len(req.Students))
	for i, st := range req.Students {
		id := strings.TrimSpace(st.StudentID)
		key := fmt.Sprintf("students[%d]", i)
		if _, dup := seen[id]; dup {
			fields[key+".student_id"] = "student listed more than once"
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
		if st.Average != nil && !honor.Contains(*st.Average) {
			fields[key+".average"] = fmt.Sprintf("average is outside the %s range", honor.Name)
		}
	}
	if len(fields) > 0 {
		return nil, appErrors.Fields(fields)
	}

	students, err := s.deps.Students.FindMany(ctx, ids)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load students")
	}
	for i, id := range ids {
		student, ok := students[id]
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student "+id+" not found")
		}
		if honor.AcademicLevelID != nil && student.AcademicLevelID != *honor.AcademicLevelID {
			fields[fmt.Sprintf("students[%d].student_id", i)] = "student is not in the honor type's academic level"
		}
	}
	if len(fields) > 0 {
		return nil, appErrors.Fields(fields)
	}

	batch := make([]*models.Certificate, 0, len(req.Students))
	for _, st := range req.Students {
		batch = append(batch, &models.Certificate{
			StudentID:   strings.TrimSpace(st.StudentID),
			HonorTypeID: honor.ID,
			TemplateID:  tmpl.ID,
			SchoolYear:  req.SchoolYear,
			Average:     st.Average,
			Status:      models.CertificateStatusPending,
		})
	}
	if err := s.deps.Certificates.CreateBatch(ctx, batch); err != nil {
		return nil, mapWriteError(err, "certificate", "issue", "")
	}

	issued := make([]models.Certificate, 0, len(batch))
	for _, cert := range batch {
		if err := s.queue.Enqueue(jobs.Job{ID: cert.ID, Type: CertificateJobType, Payload: cert.ID}); err != nil {
			s.logger.Error("failed to enqueue certificate", zap.String("certificate_id", cert.ID), zap.Error(err))
			msg := "failed to enqueue rendering"
			if updateErr := s.deps.Certificates.UpdateStatus(ctx, cert.ID, models.CertificateStatusFailed, nil, &msg); updateErr != nil {
				s.logger.Warn("failed to mark certificate failed", zap.String("certificate_id", cert.ID), zap.Error(updateErr))
			}
			cert.Status = models.CertificateStatusFailed
			cert.ErrorMessage = &msg
			s.deps.recordJob(models.CertificateStatusFailed)
		}
		issued = append(issued, *cert)
	}
	return issued, nil
}

// Link returns a signed download URL for a rendered certificate.
func (s *CertificateService) Link(ctx context.Context, id string) (*CertificateLink, error) {
	cert, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if cert.Status != models.CertificateStatusReady || cert.DocumentPath == nil {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "certificate is not rendered yet")
	}
	token, expiresAt, err := s.signer.Generate(cert.ID, *cert.DocumentPath)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to sign certificate link")
	}
	url := fmt.Sprintf("%s/certificates/download/%s", strings.TrimRight(s.cfg.APIPrefix, "/"), token)
	return &CertificateLink{URL: url, ExpiresAt: expiresAt}, nil
}

// Download resolves a signed token to the stored document.
func (s *CertificateService) Download(ctx context.Context, token string) ([]byte, string, error) {
	id, relPath, _, err := s.signer.Parse(token)
	if err != nil {
		if errors.Is(err, storage.ErrTokenExpired) {
			return nil, "", appErrors.Clone(appErrors.ErrForbidden, "download link expired")
		}
		return nil, "", appErrors.Clone(appErrors.ErrForbidden, "invalid download link")
	}
	cert, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if cert.DocumentPath == nil || *cert.DocumentPath != relPath {
		return nil, "", appErrors.Clone(appErrors.ErrForbidden, "download link no longer matches the certificate")
	}
	content, err := s.deps.Storage.Read(relPath)
	if err != nil {
		return nil, "", appErrors.Internal(err, "failed to read certificate document")
	}
	return content, cert.ID + ".html", nil
}

// Preview renders a certificate without storing it.
func (s *CertificateService) Preview(ctx context.Context, id string) ([]byte, error) {
	cert, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	content, err := renderCertificate(ctx, s.deps, cert)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrComputation.Code, appErrors.ErrComputation.Status, "failed to render certificate")
	}
	return content, nil
}

// Delete removes a certificate and its stored document.
func (s *CertificateService) Delete(ctx context.Context, id string) error {
	cert, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.deps.Certificates.Delete(ctx, id); err != nil {
		return mapWriteError(err, "certificate", "delete", "")
	}
	if cert.DocumentPath != nil {
		if err := s.deps.Storage.Delete(*cert.DocumentPath); err != nil {
			s.logger.Warn("failed to remove certificate document", zap.String("path", *cert.DocumentPath), zap.Error(err))
		}
	}
	return nil
}

// CertificateWorker renders queued certificates.
type CertificateWorker struct {
	deps   CertificateDeps
	logger *zap.Logger
}

// NewCertificateWorker constructs a worker.
func NewCertificateWorker(deps CertificateDeps, logger *zap.Logger) *CertificateWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CertificateWorker{deps: deps, logger: logger}
}

// Handle renders one certificate and marks it READY. Errors are retried by the queue.
func (w *CertificateWorker) Handle(ctx context.Context, job jobs.Job) error {
	cert, err := w.deps.Certificates.FindByID(ctx, job.ID)
	if err != nil {
		return fmt.Errorf("load certificate %s: %w", job.ID, err)
	}
	if cert.Status == models.CertificateStatusReady {
		return nil
	}
	content, err := renderCertificate(ctx, w.deps, cert)
	if err != nil {
		return err
	}
	name := fmt.Sprintf("certificates/%s/%s.html", cert.SchoolYear, cert.ID)
	relPath, err := w.deps.Storage.Save(name, content)
	if err != nil {
		return fmt.Errorf("store certificate %s: %w", cert.ID, err)
	}
	if err := w.deps.Certificates.UpdateStatus(ctx, cert.ID, models.CertificateStatusReady, &relPath, nil); err != nil {
		return fmt.Errorf("mark certificate %s ready: %w", cert.ID, err)
	}
	w.deps.recordJob(models.CertificateStatusReady)
	w.logger.Info("certificate rendered", zap.String("certificate_id", cert.ID), zap.String("path", relPath))
	return nil
}

// Exhausted marks a certificate FAILED once the queue gives up on it.
func (w *CertificateWorker) Exhausted(ctx context.Context, job jobs.Job, cause error) {
	msg := cause.Error()
	if err := w.deps.Certificates.UpdateStatus(ctx, job.ID, models.CertificateStatusFailed, nil, &msg); err != nil {
		w.logger.Warn("failed to mark certificate failed", zap.String("certificate_id", job.ID), zap.Error(err))
	}
	w.deps.recordJob(models.CertificateStatusFailed)
}

func renderCertificate(ctx context.Context, deps CertificateDeps, cert *models.Certificate) ([]byte, error) {
	tmpl, err := deps.Templates.FindByID(ctx, cert.TemplateID)
	if err != nil {
		return nil, fmt.Errorf("load template %s: %w", cert.TemplateID, err)
	}
	honor, err := deps.Honors.FindByID(ctx, cert.HonorTypeID)
	if err != nil {
		return nil, fmt.Errorf("load honor type %s: %w", cert.HonorTypeID, err)
	}
	student, err := deps.Students.FindByID(ctx, cert.StudentID)
	if err != nil {
		return nil, fmt.Errorf("load student %s: %w", cert.StudentID, err)
	}

	data := certificate.Data{
		CertificateID: cert.ID,
		StudentName:   student.FullName,
		StudentNumber: student.StudentNumber,
		HonorName:     honor.Name,
		HonorCode:     honor.Code,
		SchoolYear:    cert.SchoolYear,
		IssuedAt:      cert.IssuedAt,
	}
	if cert.Average != nil {
		data.Average = strconv.FormatFloat(*cert.Average, 'f', 2, 64)
	}
	if deps.Logo != nil {
		data.Logo = deps.Logo.ImgTag(certificate.LogoOptions{})
	}
	return certificate.Render(tmpl.Name, tmpl.Content, data)
}
