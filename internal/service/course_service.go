package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/registrar-api/internal/models"
	appErrors "github.com/noah-isme/registrar-api/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	ExistsByCode(ctx context.Context, code string, excludeID string) (bool, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
}

type departmentReader interface {
	FindByID(ctx context.Context, id string) (*models.Department, error)
}

// CourseRequest is the create/update payload for courses.
type CourseRequest struct {
	Code         string  `json:"code" validate:"required,max=20"`
	Name         string  `json:"name" validate:"required,max=150"`
	Description  *string `json:"description"`
	DepartmentID string  `json:"department_id" validate:"required"`
	IsActive     *bool   `json:"is_active"`
}

// CourseService manages college courses.
type CourseService struct {
	repo        courseRepository
	departments departmentReader
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewCourseService constructs a course service.
func NewCourseService(repo courseRepository, departments departmentReader, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, departments: departments, validator: ensureValidator(validate), logger: logger}
}

// List returns courses with pagination.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, *models.Pagination, error) {
	courses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to list courses")
	}
	return courses, paginate(filter.Page, filter.PageSize, total), nil
}

// Get returns a course by id.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapReadError(err, "course")
	}
	return course, nil
}

// Create registers a course.
func (s *CourseService) Create(ctx context.Context, req CourseRequest) (*models.Course, error) {
	course, err := s.build(ctx, req, "")
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, mapWriteError(err, "course", "create", "code")
	}
	return course, nil
}

// Update replaces a course's fields.
func (s *CourseService) Update(ctx context.Context, id string, req CourseRequest) (*models.Course, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	course, err := s.build(ctx, req, id)
	if err != nil {
		return nil, err
	}
	course.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, course); err != nil {
		return nil, mapWriteError(err, "course", "update", "code")
	}
	return course, nil
}

// Delete removes a course.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapWriteError(err, "course", "delete", "")
	}
	return nil
}

func (s *CourseService) build(ctx context.Context, req CourseRequest, id string) (*models.Course, error) {
	req.Code = normalizeCode(req.Code)
	req.Name = strings.TrimSpace(req.Name)
	req.DepartmentID = strings.TrimSpace(req.DepartmentID)
	if err := validatePayload(s.validator, req); err != nil {
		return nil, err
	}
	if _, err := s.departments.FindByID(ctx, req.DepartmentID); err != nil {
		return nil, mapReadError(err, "department")
	}
	exists, err := s.repo.ExistsByCode(ctx, req.Code, id)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to check course code")
	}
	if exists {
		return nil, appErrors.Field("code", "code already exists")
	}
	return &models.Course{
		ID:           id,
		Code:         req.Code,
		Name:         req.Name,
		Description:  trimmedPtr(req.Description),
		DepartmentID: req.DepartmentID,
		IsActive:     boolOr(req.IsActive, true),
	}, nil
}
