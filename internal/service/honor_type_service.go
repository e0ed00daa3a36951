package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/registrar-api/internal/models"
	appErrors "github.com/noah-isme/registrar-api/pkg/errors"
)

type honorTypeRepository interface {
	List(ctx context.Context, academicLevelID string, isActive *bool) ([]models.HonorType, error)
	FindByID(ctx context.Context, id string) (*models.HonorType, error)
	ExistsByCode(ctx context.Context, code string, excludeID string) (bool, error)
	Create(ctx context.Context, honor *models.HonorType) error
	Update(ctx context.Context, honor *models.HonorType) error
	Delete(ctx context.Context, id string) error
	CountCertificates(ctx context.Context, id string) (int, error)
}

// HonorTypeRequest is the create/update payload for honor types.
type HonorTypeRequest struct {
	Code            string  `json:"code" validate:"required,max=20"`
	Name            string  `json:"name" validate:"required,max=150"`
	Description     *string `json:"description"`
	MinAverage      float64 `json:"min_average" validate:"gte=0,lte=100"`
	MaxAverage      float64 `json:"max_average" validate:"gte=0,lte=100"`
	AcademicLevelID *string `json:"academic_level_id"`
	IsActive        *bool   `json:"is_active"`
}

// HonorTypeService manages honor distinctions and resolves averages to them.
type HonorTypeService struct {
	repo      honorTypeRepository
	levels    academicLevelReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewHonorTypeService constructs an honor type service.
func NewHonorTypeService(repo honorTypeRepository, levels academicLevelReader, validate *validator.Validate, logger *zap.Logger) *HonorTypeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HonorTypeService{repo: repo, levels: levels, validator: ensureValidator(validate), logger: logger}
}

// List returns honor types ordered from the highest range down.
func (s *HonorTypeService) List(ctx context.Context, academicLevelID string, isActive *bool) ([]models.HonorType, error) {
	items, err := s.repo.List(ctx, strings.TrimSpace(academicLevelID), isActive)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list honor types")
	}
	return items, nil
}

// Get returns an honor type by id.
func (s *HonorTypeService) Get(ctx context.Context, id string) (*models.HonorType, error) {
	honor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapReadError(err, "honor type")
	}
	return honor, nil
}

// Resolve returns the active honor type whose range contains average. Level-specific
// honor types win over global ones.
func (s *HonorTypeService) Resolve(ctx context.Context, average float64, academicLevelID string) (*models.HonorType, error) {
	if average < 0 || average > 100 {
		return nil, appErrors.Field("average", "average must be between 0 and 100")
	}
	active := true
	items, err := s.repo.List(ctx, strings.TrimSpace(academicLevelID), &active)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list honor types")
	}

	var global *models.HonorType
	for i := range items {
		honor := items[i]
		if !honor.Contains(average) {
			continue
		}
		if honor.AcademicLevelID != nil && academicLevelID != "" && *honor.AcademicLevelID == academicLevelID {
			return &honor, nil
		}
		if honor.AcademicLevelID == nil && global == nil {
			global = &honor
		}
	}
	if global == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no honor type matches the average")
	}
	return global, nil
}

// Create registers an honor type.
func (s *HonorTypeService) Create(ctx context.Context, req HonorTypeRequest) (*models.HonorType, error) {
	honor, err := s.build(ctx, req, "")
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, honor); err != nil {
		return nil, mapWriteError(err, "honor type", "create", "code")
	}
	return honor, nil
}

// Update replaces an honor type.
func (s *HonorTypeService) Update(ctx context.Context, id string, req HonorTypeRequest) (*models.HonorType, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	honor, err := s.build(ctx, req, id)
	if err != nil {
		return nil, err
	}
	honor.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, honor); err != nil {
		return nil, mapWriteError(err, "honor type", "update", "code")
	}
	return honor, nil
}

// Delete removes an honor type that has not been awarded.
func (s *HonorTypeService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	count, err := s.repo.CountCertificates(ctx, id)
	if err := blockWhenReferenced(count, err, "honor type"); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapWriteError(err, "honor type", "delete", "")
	}
	return nil
}

func (s *HonorTypeService) build(ctx context.Context, req HonorTypeRequest, id string) (*models.HonorType, error) {
	req.Code = normalizeCode(req.Code)
	req.Name = strings.TrimSpace(req.Name)
	if err := validatePayload(s.validator, req); err != nil {
		return nil, err
	}
	if req.MinAverage > req.MaxAverage {
		return nil, appErrors.Field("min_average", "min_average must not exceed max_average")
	}
	levelID := trimmedPtr(req.AcademicLevelID)
	if levelID != nil {
		if _, err := s.levels.FindByID(ctx, *levelID); err != nil {
			return nil, mapReadError(err, "academic level")
		}
	}
	exists, err := s.repo.ExistsByCode(ctx, req.Code, id)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to check honor type code")
	}
	if exists {
		return nil, appErrors.Field("code", "code already exists")
	}
	return &models.HonorType{
		ID:              id,
		Code:            req.Code,
		Name:            req.Name,
		Description:     trimmedPtr(req.Description),
		MinAverage:      req.MinAverage,
		MaxAverage:      req.MaxAverage,
		AcademicLevelID: levelID,
		IsActive:        boolOr(req.IsActive, true),
	}, nil
}
