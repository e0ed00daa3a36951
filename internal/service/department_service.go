package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/registrar-api/internal/models"
	appErrors "github.com/noah-isme/registrar-api/pkg/errors"
)

type departmentRepository interface {
	List(ctx context.Context, filter models.ListFilter) ([]models.Department, int, error)
	FindByID(ctx context.Context, id string) (*models.Department, error)
	ExistsByCode(ctx context.Context, code string, excludeID string) (bool, error)
	Create(ctx context.Context, department *models.Department) error
	Update(ctx context.Context, department *models.Department) error
	Delete(ctx context.Context, id string) error
	CountDependants(ctx context.Context, id string) (int, error)
}

// DepartmentRequest is the create/update payload for departments.
type DepartmentRequest struct {
	Code        string  `json:"code" validate:"required,max=20"`
	Name        string  `json:"name" validate:"required,max=150"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

// DepartmentService manages college departments.
type DepartmentService struct {
	repo      departmentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDepartmentService constructs a department service.
func NewDepartmentService(repo departmentRepository, validate *validator.Validate, logger *zap.Logger) *DepartmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DepartmentService{repo: repo, validator: ensureValidator(validate), logger: logger}
}

// List returns departments with pagination.
func (s *DepartmentService) List(ctx context.Context, filter models.ListFilter) ([]models.Department, *models.Pagination, error) {
	departments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to list departments")
	}
	return departments, paginate(filter.Page, filter.PageSize, total), nil
}

// Get returns a department by id.
func (s *DepartmentService) Get(ctx context.Context, id string) (*models.Department, error) {
	department, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapReadError(err, "department")
	}
	return department, nil
}

// Create registers a department.
func (s *DepartmentService) Create(ctx context.Context, req DepartmentRequest) (*models.Department, error) {
	department, err := s.build(ctx, req, "")
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, department); err != nil {
		return nil, mapWriteError(err, "department", "create", "code")
	}
	return department, nil
}

// Update replaces a department's fields.
func (s *DepartmentService) Update(ctx context.Context, id string, req DepartmentRequest) (*models.Department, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	department, err := s.build(ctx, req, id)
	if err != nil {
		return nil, err
	}
	department.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, department); err != nil {
		return nil, mapWriteError(err, "department", "update", "code")
	}
	return department, nil
}

// Delete removes a department that owns no courses.
func (s *DepartmentService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	count, err := s.repo.CountDependants(ctx, id)
	if err := blockWhenReferenced(count, err, "department"); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapWriteError(err, "department", "delete", "")
	}
	return nil
}

func (s *DepartmentService) build(ctx context.Context, req DepartmentRequest, id string) (*models.Department, error) {
	req.Code = normalizeCode(req.Code)
	req.Name = strings.TrimSpace(req.Name)
	if err := validatePayload(s.validator, req); err != nil {
		return nil, err
	}
	exists, err := s.repo.ExistsByCode(ctx, req.Code, id)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to check department code")
	}
	if exists {
		return nil, appErrors.Field("code", "code already exists")
	}
	return &models.Department{
		ID:          id,
		Code:        req.Code,
		Name:        req.Name,
		Description: trimmedPtr(req.Description),
		IsActive:    boolOr(req.IsActive, true),
	}, nil
}
