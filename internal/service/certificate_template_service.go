package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/registrar-api/internal/models"
	"github.com/noah-isme/registrar-api/pkg/certificate"
	appErrors "github.com/noah-isme/registrar-api/pkg/errors"
)

type certificateTemplateRepository interface {
	List(ctx context.Context, honorTypeID string, isActive *bool) ([]models.CertificateTemplate, error)
	FindByID(ctx context.Context, id string) (*models.CertificateTemplate, error)
	Create(ctx context.Context, tmpl *models.CertificateTemplate) error
	Update(ctx context.Context, tmpl *models.CertificateTemplate) error
	Delete(ctx context.Context, id string) error
	CountCertificates(ctx context.Context, id string) (int, error)
}

type honorTypeReader interface {
	FindByID(ctx context.Context, id string) (*models.HonorType, error)
}

// CertificateTemplateRequest is the create/update payload for certificate templates.
type CertificateTemplateRequest struct {
	Name            string  `json:"name" validate:"required,max=150"`
	Content         string  `json:"content" validate:"required"`
	AcademicLevelID *string `json:"academic_level_id"`
	HonorTypeID     *string `json:"honor_type_id"`
	IsActive        *bool   `json:"is_active"`
}

// CertificateTemplateService manages html/template sources for certificates.
type CertificateTemplateService struct {
	repo      certificateTemplateRepository
	levels    academicLevelReader
	honors    honorTypeReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCertificateTemplateService constructs the service.
func NewCertificateTemplateService(repo certificateTemplateRepository, levels academicLevelReader, honors honorTypeReader, validate *validator.Validate, logger *zap.Logger) *CertificateTemplateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CertificateTemplateService{repo: repo, levels: levels, honors: honors, validator: ensureValidator(validate), logger: logger}
}

// List returns templates, optionally scoped to an honor type.
func (s *CertificateTemplateService) List(ctx context.Context, honorTypeID string, isActive *bool) ([]models.CertificateTemplate, error) {
	items, err := s.repo.List(ctx, strings.TrimSpace(honorTypeID), isActive)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list certificate templates")
	}
	return items, nil
}

// Get returns a template by id.
func (s *CertificateTemplateService) Get(ctx context.Context, id string) (*models.CertificateTemplate, error) {
	tmpl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapReadError(err, "certificate template")
	}
	return tmpl, nil
}

// Create stores a template after checking that it parses.
func (s *CertificateTemplateService) Create(ctx context.Context, req CertificateTemplateRequest) (*models.CertificateTemplate, error) {
	tmpl, err := s.build(ctx, req, "")
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, tmpl); err != nil {
		return nil, mapWriteError(err, "certificate template", "create", "name")
	}
	return tmpl, nil
}

// Update replaces a template.
func (s *CertificateTemplateService) Update(ctx context.Context, id string, req CertificateTemplateRequest) (*models.CertificateTemplate, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	tmpl, err := s.build(ctx, req, id)
	if err != nil {
		return nil, err
	}
	tmpl.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, tmpl); err != nil {
		return nil, mapWriteError(err, "certificate template", "update", "name")
	}
	return tmpl, nil
}

// Delete removes a template no certificate was issued from.
func (s *CertificateTemplateService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	count, err := s.repo.CountCertificates(ctx, id)
	if err := blockWhenReferenced(count, err, "certificate template"); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapWriteError(err, "certificate template", "delete", "")
	}
	return nil
}

func (s *CertificateTemplateService) build(ctx context.Context, req CertificateTemplateRequest, id string) (*models.CertificateTemplate, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validatePayload(s.validator, req); err != nil {
		return nil, err
	}
	if _, err := certificate.Parse(req.Name, req.Content); err != nil {
		return nil, appErrors.Field("content", err.Error())
	}

	levelID := trimmedPtr(req.AcademicLevelID)
	if levelID != nil {
		if _, err := s.levels.FindByID(ctx, *levelID); err != nil {
			return nil, mapReadError(err, "academic level")
		}
	}
	honorID := trimmedPtr(req.HonorTypeID)
	if honorID != nil {
		honor, err := s.honors.FindByID(ctx, *honorID)
		if err != nil {
			return nil, mapReadError(err, "honor type")
		}
		if levelID != nil && honor.AcademicLevelID != nil && *honor.AcademicLevelID != *levelID {
			return nil, appErrors.Field("honor_type_id", "honor type belongs to a different academic level")
		}
	}

	return &models.CertificateTemplate{
		ID:              id,
		Name:            req.Name,
		Content:         req.Content,
		AcademicLevelID: levelID,
		HonorTypeID:     honorID,
		IsActive:        boolOr(req.IsActive, true),
	}, nil
}
