package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/registrar-api/internal/models"
	appErrors "github.com/noah-isme/registrar-api/pkg/errors"
)

type academicLevelRepository interface {
	List(ctx context.Context, isActive *bool) ([]models.AcademicLevel, error)
	FindByID(ctx context.Context, id string) (*models.AcademicLevel, error)
	ExistsByKey(ctx context.Context, key models.AcademicLevelKey, excludeID string) (bool, error)
	CountDependants(ctx context.Context, id string) (int, error)
	Create(ctx context.Context, level *models.AcademicLevel) error
	Update(ctx context.Context, level *models.AcademicLevel) error
	Delete(ctx context.Context, id string) error
}

// AcademicLevelRequest is the create/update payload for academic levels.
type AcademicLevelRequest struct {
	Key       models.AcademicLevelKey `json:"key" validate:"required"`
	Name      string                  `json:"name" validate:"required,max=100"`
	SortOrder int                     `json:"sort_order" validate:"gte=0"`
	IsActive  *bool                   `json:"is_active"`
}

// AcademicLevelService manages academic levels.
type AcademicLevelService struct {
	repo      academicLevelRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAcademicLevelService constructs the service.
func NewAcademicLevelService(repo academicLevelRepository, validate *validator.Validate, logger *zap.Logger) *AcademicLevelService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AcademicLevelService{repo: repo, validator: ensureValidator(validate), logger: logger}
}

// List returns levels in display order.
func (s *AcademicLevelService) List(ctx context.Context, isActive *bool) ([]models.AcademicLevel, error) {
	levels, err := s.repo.List(ctx, isActive)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list academic levels")
	}
	return levels, nil
}

// Get returns a level by id.
func (s *AcademicLevelService) Get(ctx context.Context, id string) (*models.AcademicLevel, error) {
	level, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapReadError(err, "academic level")
	}
	return level, nil
}

// Create registers a level.
func (s *AcademicLevelService) Create(ctx context.Context, req AcademicLevelRequest) (*models.AcademicLevel, error) {
	level, err := s.build(ctx, req, "")
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, level); err != nil {
		return nil, mapWriteError(err, "academic level", "create", "key")
	}
	return level, nil
}

// Update replaces a level's fields.
func (s *AcademicLevelService) Update(ctx context.Context, id string, req AcademicLevelRequest) (*models.AcademicLevel, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	level, err := s.build(ctx, req, id)
	if err != nil {
		return nil, err
	}
	level.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, level); err != nil {
		return nil, mapWriteError(err, "academic level", "update", "key")
	}
	return level, nil
}

// Delete removes a level that nothing references.
func (s *AcademicLevelService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	count, err := s.repo.CountDependants(ctx, id)
	if err := blockWhenReferenced(count, err, "academic level"); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapWriteError(err, "academic level", "delete", "")
	}
	return nil
}

func (s *AcademicLevelService) build(ctx context.Context, req AcademicLevelRequest, id string) (*models.AcademicLevel, error) {
	req.Key = models.AcademicLevelKey(strings.ToLower(strings.TrimSpace(string(req.Key))))
	req.Name = strings.TrimSpace(req.Name)

	fields := map[string]string{}
	if err := s.validator.Struct(req); err != nil {
		fields = validationFields(err)
	}
	if req.Key != "" && !req.Key.Valid() {
		fields["key"] = "key must be one of elementary, junior_high, senior_high, college"
	}
	if _, bad := fields["key"]; !bad && req.Key != "" {
		exists, err := s.repo.ExistsByKey(ctx, req.Key, id)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to check academic level key")
		}
		if exists {
			fields["key"] = "key already exists"
		}
	}
	if len(fields) > 0 {
		return nil, appErrors.Fields(fields)
	}

	return &models.AcademicLevel{
		ID:        id,
		Key:       req.Key,
		Name:      req.Name,
		SortOrder: req.SortOrder,
		IsActive:  boolOr(req.IsActive, true),
	}, nil
}
