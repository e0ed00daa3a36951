package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/registrar-api/internal/models"
	appErrors "github.com/noah-isme/registrar-api/pkg/errors"
)

type subjectRepository interface {
	List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, int, error)
	FindByID(ctx context.Context, id string) (*models.Subject, error)
	ExistsByCode(ctx context.Context, code string, excludeID string) (bool, error)
	Create(ctx context.Context, subject *models.Subject) error
	Update(ctx context.Context, subject *models.Subject) error
	Delete(ctx context.Context, id string) error
	CountDependants(ctx context.Context, id string) (int, error)
}

type strandReader interface {
	FindByID(ctx context.Context, id string) (*models.Strand, error)
}

// SubjectRequest is the create/update payload for subjects.
type SubjectRequest struct {
	Code            string  `json:"code" validate:"required,max=20"`
	Name            string  `json:"name" validate:"required,max=150"`
	Description     *string `json:"description"`
	AcademicLevelID string  `json:"academic_level_id" validate:"required"`
	StrandID        *string `json:"strand_id"`
	Units           float64 `json:"units" validate:"gte=0,lte=30"`
	IsActive        *bool   `json:"is_active"`
}

// SubjectService manages subject records.
type SubjectService struct {
	repo      subjectRepository
	levels    academicLevelReader
	strands   strandReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectService constructs a subject service.
func NewSubjectService(repo subjectRepository, levels academicLevelReader, strands strandReader, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{repo: repo, levels: levels, strands: strands, validator: ensureValidator(validate), logger: logger}
}

// List returns subjects with pagination.
func (s *SubjectService) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, *models.Pagination, error) {
	subjects, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to list subjects")
	}
	return subjects, paginate(filter.Page, filter.PageSize, total), nil
}

// Get returns a subject by id.
func (s *SubjectService) Get(ctx context.Context, id string) (*models.Subject, error) {
	subject, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapReadError(err, "subject")
	}
	return subject, nil
}

// Create registers a subject.
func (s *SubjectService) Create(ctx context.Context, req SubjectRequest) (*models.Subject, error) {
	subject, err := s.build(ctx, req, "")
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, subject); err != nil {
		return nil, mapWriteError(err, "subject", "create", "code")
	}
	return subject, nil
}

// Update replaces a subject's fields.
func (s *SubjectService) Update(ctx context.Context, id string, req SubjectRequest) (*models.Subject, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	subject, err := s.build(ctx, req, id)
	if err != nil {
		return nil, err
	}
	subject.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, subject); err != nil {
		return nil, mapWriteError(err, "subject", "update", "code")
	}
	return subject, nil
}

// Delete removes a subject without enrollments or assignments.
func (s *SubjectService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	count, err := s.repo.CountDependants(ctx, id)
	if err := blockWhenReferenced(count, err, "subject"); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapWriteError(err, "subject", "delete", "")
	}
	return nil
}

func (s *SubjectService) build(ctx context.Context, req SubjectRequest, id string) (*models.Subject, error) {
	req.Code = normalizeCode(req.Code)
	req.Name = strings.TrimSpace(req.Name)
	req.AcademicLevelID = strings.TrimSpace(req.AcademicLevelID)
	if err := validatePayload(s.validator, req); err != nil {
		return nil, err
	}

	if _, err := s.levels.FindByID(ctx, req.AcademicLevelID); err != nil {
		return nil, mapReadError(err, "academic level")
	}

	fields := map[string]string{}
	strandID := trimmedPtr(req.StrandID)
	if strandID != nil {
		strand, err := s.strands.FindByID(ctx, *strandID)
		if err != nil {
			return nil, mapReadError(err, "strand")
		}
		if strand.AcademicLevelID != req.AcademicLevelID {
			fields["strand_id"] = "strand belongs to a different academic level"
		}
	}

	exists, err := s.repo.ExistsByCode(ctx, req.Code, id)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to check subject code")
	}
	if exists {
		fields["code"] = "code already exists"
	}
	if len(fields) > 0 {
		return nil, appErrors.Fields(fields)
	}

	return &models.Subject{
		ID:              id,
		Code:            req.Code,
		Name:            req.Name,
		Description:     trimmedPtr(req.Description),
		AcademicLevelID: req.AcademicLevelID,
		StrandID:        strandID,
		Units:           req.Units,
		IsActive:        boolOr(req.IsActive, true),
	}, nil
}
