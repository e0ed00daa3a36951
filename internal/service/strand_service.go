package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/registrar-api/internal/models"
	appErrors "github.com/noah-isme/registrar-api/pkg/errors"
)

type strandRepository interface {
	List(ctx context.Context, filter models.StrandFilter) ([]models.Strand, int, error)
	FindByID(ctx context.Context, id string) (*models.Strand, error)
	ExistsByCode(ctx context.Context, code string, excludeID string) (bool, error)
	Create(ctx context.Context, strand *models.Strand) error
	Update(ctx context.Context, strand *models.Strand) error
	Delete(ctx context.Context, id string) error
	CountDependants(ctx context.Context, id string) (int, error)
}

// StrandRequest is the create/update payload for strands.
type StrandRequest struct {
	Code            string  `json:"code" validate:"required,max=20"`
	Name            string  `json:"name" validate:"required,max=150"`
	Description     *string `json:"description"`
	AcademicLevelID string  `json:"academic_level_id" validate:"required"`
	IsActive        *bool   `json:"is_active"`
}

// StrandService manages senior high strands.
type StrandService struct {
	repo      strandRepository
	levels    academicLevelReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStrandService constructs a strand service.
func NewStrandService(repo strandRepository, levels academicLevelReader, validate *validator.Validate, logger *zap.Logger) *StrandService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StrandService{repo: repo, levels: levels, validator: ensureValidator(validate), logger: logger}
}

// List returns strands with pagination.
func (s *StrandService) List(ctx context.Context, filter models.StrandFilter) ([]models.Strand, *models.Pagination, error) {
	strands, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to list strands")
	}
	return strands, paginate(filter.Page, filter.PageSize, total), nil
}

// Get returns a strand by id.
func (s *StrandService) Get(ctx context.Context, id string) (*models.Strand, error) {
	strand, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapReadError(err, "strand")
	}
	return strand, nil
}

// Create registers a strand.
func (s *StrandService) Create(ctx context.Context, req StrandRequest) (*models.Strand, error) {
	strand, err := s.build(ctx, req, "")
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, strand); err != nil {
		return nil, mapWriteError(err, "strand", "create", "code")
	}
	return strand, nil
}

// Update replaces a strand's fields.
func (s *StrandService) Update(ctx context.Context, id string, req StrandRequest) (*models.Strand, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	strand, err := s.build(ctx, req, id)
	if err != nil {
		return nil, err
	}
	strand.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, strand); err != nil {
		return nil, mapWriteError(err, "strand", "update", "code")
	}
	return strand, nil
}

// Delete removes a strand that no subject is filed under.
func (s *StrandService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	count, err := s.repo.CountDependants(ctx, id)
	if err := blockWhenReferenced(count, err, "strand"); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapWriteError(err, "strand", "delete", "")
	}
	return nil
}

func (s *StrandService) build(ctx context.Context, req StrandRequest, id string) (*models.Strand, error) {
	req.Code = normalizeCode(req.Code)
	req.Name = strings.TrimSpace(req.Name)
	req.AcademicLevelID = strings.TrimSpace(req.AcademicLevelID)
	if err := validatePayload(s.validator, req); err != nil {
		return nil, err
	}
	if _, err := s.levels.FindByID(ctx, req.AcademicLevelID); err != nil {
		return nil, mapReadError(err, "academic level")
	}
	exists, err := s.repo.ExistsByCode(ctx, req.Code, id)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to check strand code")
	}
	if exists {
		return nil, appErrors.Field("code", "code already exists")
	}

	return &models.Strand{
		ID:              id,
		Code:            req.Code,
		Name:            req.Name,
		Description:     trimmedPtr(req.Description),
		AcademicLevelID: req.AcademicLevelID,
		IsActive:        boolOr(req.IsActive, true),
	}, nil
}
