package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/registrar-api/internal/dto"
	"github.com/noah-isme/registrar-api/internal/models"
	"github.com/noah-isme/registrar-api/pkg/database"
	appErrors "github.com/noah-isme/registrar-api/pkg/errors"
)

const (
	structureCachePrefix = "grading:structure:"
	oneFinalConstraint   = "grading_periods_one_final_key"
)

type gradingPeriodRepository interface {
	EachByLevel(ctx context.Context, academicLevelID string, fn func(models.GradingPeriod) error) error
	ListByLevel(ctx context.Context, academicLevelID string) ([]models.GradingPeriod, error)
	FindByID(ctx context.Context, id string) (*models.GradingPeriod, error)
	ListChildren(ctx context.Context, parentID string) ([]models.GradingPeriod, error)
	ListParentCandidates(ctx context.Context, academicLevelID string) ([]models.GradingPeriod, error)
	ExistsByCode(ctx context.Context, academicLevelID, code, excludeID string) (bool, error)
	CountChildren(ctx context.Context, id string) (int, error)
	// Create and Update store the include flags of each declared final in the same write.
	Create(ctx context.Context, period *models.GradingPeriod, declared ...*models.GradingPeriod) error
	Update(ctx context.Context, period *models.GradingPeriod, declared ...*models.GradingPeriod) error
	Delete(ctx context.Context, id string) error
}

type academicLevelReader interface {
	FindByID(ctx context.Context, id string) (*models.AcademicLevel, error)
}

type structureCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Invalidate(ctx context.Context, pattern string) error
}

type computationRecorder interface {
	RecordComputation(kind string, ok bool)
}

// GradingPeriodRequest is the create/update payload for grading periods. Besides
// include_flags it accepts the flat include_<period_type> booleans sent by forms.
type GradingPeriodRequest struct {
	Name            string                `json:"name" validate:"required,max=100"`
	Code            string                `json:"code" validate:"required,max=20"`
	Type            models.PeriodKind     `json:"type" validate:"required"`
	PeriodType      models.PeriodType     `json:"period_type"`
	AcademicLevelID string                `json:"academic_level_id" validate:"required"`
	ParentID        *string               `json:"parent_id"`
	SemesterNumber  *int                  `json:"semester_number"`
	Weight          float64               `json:"weight"`
	IsCalculated    bool                  `json:"is_calculated"`
	IncludeFlags    models.InclusionFlags `json:"include_flags"`
	StartDate       string                `json:"start_date" validate:"required"`
	EndDate         string                `json:"end_date" validate:"required"`
	SortOrder       int                   `json:"sort_order"`
	IsActive        *bool                 `json:"is_active"`
}

// UnmarshalJSON folds include_<period_type> keys into IncludeFlags.
func (r *GradingPeriodRequest) UnmarshalJSON(data []byte) error {
	type alias GradingPeriodRequest
	var base alias
	if err := json.Unmarshal(data, &base); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for key, value := range raw {
		if key == "include_flags" || !strings.HasPrefix(key, "include_") {
			continue
		}
		var included bool
		if err := json.Unmarshal(value, &included); err != nil {
			return fmt.Errorf("%s must be a boolean", key)
		}
		if base.IncludeFlags == nil {
			base.IncludeFlags = models.InclusionFlags{}
		}
		base.IncludeFlags[models.PeriodType(strings.TrimPrefix(key, "include_"))] = included
	}
	*r = GradingPeriodRequest(base)
	return nil
}

// GradingPeriodService owns the grading period tree of each academic level and the
// computations defined over it.
type GradingPeriodService struct {
	repo      gradingPeriodRepository
	levels    academicLevelReader
	cache     structureCache
	metrics   computationRecorder
	validator *validator.Validate
	logger    *zap.Logger
	cacheTTL  time.Duration
}

// GradingPeriodServiceConfig tunes structure caching.
type GradingPeriodServiceConfig struct {
	CacheTTL time.Duration
}

// NewGradingPeriodService constructs the service. cache and metrics may be nil.
func NewGradingPeriodService(repo gradingPeriodRepository, levels academicLevelReader, cache structureCache, metrics computationRecorder, validate *validator.Validate, logger *zap.Logger, cfg GradingPeriodServiceConfig) *GradingPeriodService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradingPeriodService{
		repo:      repo,
		levels:    levels,
		cache:     cache,
		metrics:   metrics,
		validator: ensureValidator(validate),
		logger:    logger,
		cacheTTL:  cfg.CacheTTL,
	}
}

// List returns the periods of an academic level ordered by sort_order.
func (s *GradingPeriodService) List(ctx context.Context, academicLevelID string) ([]models.GradingPeriod, error) {
	if err := s.requireLevel(ctx, academicLevelID); err != nil {
		return nil, err
	}
	periods, err := s.repo.ListByLevel(ctx, academicLevelID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list grading periods")
	}
	return periods, nil
}

// Each streams the periods of an academic level to fn. Every call re-queries.
func (s *GradingPeriodService) Each(ctx context.Context, academicLevelID string, fn func(models.GradingPeriod) error) error {
	if err := s.requireLevel(ctx, academicLevelID); err != nil {
		return err
	}
	if err := s.repo.EachByLevel(ctx, academicLevelID, fn); err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return appErr
		}
		return appErrors.Internal(err, "failed to read grading periods")
	}
	return nil
}

// Get returns a period by ID.
func (s *GradingPeriodService) Get(ctx context.Context, id string) (*models.GradingPeriod, error) {
	period, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapReadError(err, "grading period")
	}
	return period, nil
}

// ParentCandidates returns the root semesters a child period may reference.
func (s *GradingPeriodService) ParentCandidates(ctx context.Context, academicLevelID string) ([]models.GradingPeriod, error) {
	if err := s.requireLevel(ctx, academicLevelID); err != nil {
		return nil, err
	}
	periods, err := s.repo.ListParentCandidates(ctx, academicLevelID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list parent candidates")
	}
	return periods, nil
}

// Children returns the periods nested under parentID ordered by sort_order.
func (s *GradingPeriodService) Children(ctx context.Context, parentID string) ([]models.GradingPeriod, error) {
	if _, err := s.Get(ctx, parentID); err != nil {
		return nil, err
	}
	periods, err := s.repo.ListChildren(ctx, parentID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list child periods")
	}
	return periods, nil
}

// Structure returns the period tree of an academic level.
func (s *GradingPeriodService) Structure(ctx context.Context, academicLevelID string) (*dto.GradingStructure, bool, error) {
	if err := s.requireLevel(ctx, academicLevelID); err != nil {
		return nil, false, err
	}
	key := structureCachePrefix + academicLevelID
	if s.cache != nil {
		var cached dto.GradingStructure
		if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	periods, err := s.repo.ListByLevel(ctx, academicLevelID)
	if err != nil {
		return nil, false, appErrors.Internal(err, "failed to load grading structure")
	}
	structure := &dto.GradingStructure{
		AcademicLevelID: academicLevelID,
		Periods:         newGradingTree(periods).Nodes(),
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, structure, s.cacheTTL)
	}
	return structure, false, nil
}

// Create validates and persists a new grading period.
func (s *GradingPeriodService) Create(ctx context.Context, req GradingPeriodRequest) (*models.GradingPeriod, error) {
	period, fields := s.buildPeriod(req)
	if len(fields) > 0 && period == nil {
		return nil, appErrors.Fields(fields)
	}
	declared, err := s.checkReferences(ctx, period, nil, fields)
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		return nil, appErrors.Fields(fields)
	}
	normalizePeriod(period)

	if err := s.repo.Create(ctx, period, declared...); err != nil {
		return nil, periodWriteError(err, "create")
	}
	s.invalidate(ctx, period.AcademicLevelID)
	return period, nil
}

// Update validates and replaces the mutable fields of a grading period.
func (s *GradingPeriodService) Update(ctx context.Context, id string, req GradingPeriodRequest) (*models.GradingPeriod, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	period, fields := s.buildPeriod(req)
	if len(fields) > 0 && period == nil {
		return nil, appErrors.Fields(fields)
	}
	period.ID = existing.ID
	period.CreatedAt = existing.CreatedAt
	if req.IsActive == nil {
		period.IsActive = existing.IsActive
	}

	declared, err := s.checkReferences(ctx, period, existing, fields)
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		return nil, appErrors.Fields(fields)
	}
	normalizePeriod(period)

	if err := s.repo.Update(ctx, period, declared...); err != nil {
		return nil, periodWriteError(err, "update")
	}
	s.invalidate(ctx, existing.AcademicLevelID)
	if period.AcademicLevelID != existing.AcademicLevelID {
		s.invalidate(ctx, period.AcademicLevelID)
	}
	return period, nil
}

// Delete removes a grading period. Periods that still own child periods are kept.
func (s *GradingPeriodService) Delete(ctx context.Context, id string) error {
	period, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	count, err := s.repo.CountChildren(ctx, id)
	if err != nil {
		return appErrors.Internal(err, "failed to check child periods")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "grading period has child periods")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return periodWriteError(err, "delete")
	}
	s.invalidate(ctx, period.AcademicLevelID)
	return nil
}

// ComputeFinalAverage averages the sibling grades selected by a final period's
// inclusion flags. grades is keyed by sibling period id.
func (s *GradingPeriodService) ComputeFinalAverage(ctx context.Context, finalPeriodID string, req dto.FinalAverageRequest) (*dto.FinalAverageResult, error) {
	if err := validatePayload(s.validator, req); err != nil {
		return nil, err
	}
	final, err := s.Get(ctx, finalPeriodID)
	if err != nil {
		return nil, err
	}
	if !final.IsFinal() || final.IsRoot() {
		s.record("final_average", false)
		return nil, appErrors.Clone(appErrors.ErrComputation, "period is not a final average period")
	}
	siblings, err := s.repo.ListChildren(ctx, final.ParentValue())
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load sibling periods")
	}
	result, err := finalAverage(*final, siblings, req.Grades)
	s.record("final_average", err == nil)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ComputeWeightedAverage aggregates periods by their weight field, scoped either to a
// semester's children or to an academic level's root quarters.
func (s *GradingPeriodService) ComputeWeightedAverage(ctx context.Context, req dto.WeightedAverageRequest) (*dto.WeightedAverageResult, error) {
	if err := validatePayload(s.validator, req); err != nil {
		return nil, err
	}
	parentID := strings.TrimSpace(req.ParentID)
	levelID := strings.TrimSpace(req.AcademicLevelID)
	if (parentID == "") == (levelID == "") {
		return nil, appErrors.Field("parent_id", "exactly one of parent_id or academic_level_id is required")
	}

	var periods []models.GradingPeriod
	if parentID != "" {
		children, err := s.Children(ctx, parentID)
		if err != nil {
			return nil, err
		}
		periods = children
	} else {
		all, err := s.List(ctx, levelID)
		if err != nil {
			return nil, err
		}
		periods = newGradingTree(all).Roots()
	}

	result, err := weightedAverage(periods, req.Grades)
	s.record("weighted_average", err == nil)
	if err != nil {
		return nil, err
	}
	if !result.WeightsSumToOne {
		s.logger.Debug("weighted average over weights not summing to one",
			zap.String("parent_id", parentID),
			zap.String("academic_level_id", levelID),
			zap.Float64("weight_total", result.WeightTotal))
	}
	return result, nil
}

// buildPeriod maps the payload into a period and collects payload-level violations.
// A nil period means the payload could not be mapped at all.
func (s *GradingPeriodService) buildPeriod(req GradingPeriodRequest) (*models.GradingPeriod, map[string]string) {
	req.Name = strings.TrimSpace(req.Name)
	req.Code = normalizeCode(req.Code)
	req.AcademicLevelID = strings.TrimSpace(req.AcademicLevelID)
	if req.PeriodType == "" {
		req.PeriodType = models.PeriodTypeQuarter
	}

	fields := map[string]string{}
	if err := s.validator.Struct(req); err != nil {
		fields = validationFields(err)
	}

	period := &models.GradingPeriod{
		Name:            req.Name,
		Code:            req.Code,
		Type:            req.Type,
		PeriodType:      req.PeriodType,
		AcademicLevelID: req.AcademicLevelID,
		ParentID:        trimmedPtr(req.ParentID),
		SemesterNumber:  req.SemesterNumber,
		Weight:          req.Weight,
		IsCalculated:    req.IsCalculated,
		IncludeFlags:    req.IncludeFlags,
		SortOrder:       req.SortOrder,
		IsActive:        boolOr(req.IsActive, true),
	}

	if req.StartDate != "" {
		start, err := parseDate(req.StartDate)
		if err != nil {
			fields["start_date"] = "start_date must be a date (YYYY-MM-DD)"
		}
		period.StartDate = start
	}
	if req.EndDate != "" {
		end, err := parseDate(req.EndDate)
		if err != nil {
			fields["end_date"] = "end_date must be a date (YYYY-MM-DD)"
		}
		period.EndDate = end
	}

	checkPeriodShape(period, fields)
	if period.AcademicLevelID == "" {
		return nil, fields
	}
	return period, fields
}

// checkReferences applies the rules that need stored data. NotFound and internal
// failures are returned; rule violations are added to fields. The returned periods
// are sibling finals whose include flags gained an entry for period's type.
func (s *GradingPeriodService) checkReferences(ctx context.Context, period *models.GradingPeriod, existing *models.GradingPeriod, fields map[string]string) ([]*models.GradingPeriod, error) {
	if err := s.requireLevel(ctx, period.AcademicLevelID); err != nil {
		return nil, err
	}

	if period.Code != "" {
		exists, err := s.repo.ExistsByCode(ctx, period.AcademicLevelID, period.Code, period.ID)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to check grading period code")
		}
		if exists {
			fields["code"] = "code already exists in this academic level"
		}
	}

	var declared []*models.GradingPeriod
	if !period.IsRoot() {
		final, err := s.checkParent(ctx, period, fields)
		if err != nil {
			return nil, err
		}
		if final != nil {
			declared = append(declared, final)
		}
	}

	if existing != nil {
		count, err := s.repo.CountChildren(ctx, existing.ID)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to check child periods")
		}
		if count > 0 {
			if period.AcademicLevelID != existing.AcademicLevelID {
				fields["academic_level_id"] = "cannot move a period that has child periods to another academic level"
			}
			if !period.IsRootSemester() {
				fields["type"] = "a period with child periods must remain a root semester"
			}
		}
	}
	return declared, nil
}

// checkParent validates the parent of a child period. For a final period it fills
// the flags of every sibling type; for any other period it returns the sibling final
// when that final had no entry yet for the period's type.
func (s *GradingPeriodService) checkParent(ctx context.Context, period *models.GradingPeriod, fields map[string]string) (*models.GradingPeriod, error) {
	parentID := period.ParentValue()
	if period.ID != "" && parentID == period.ID {
		fields["parent_id"] = "a period cannot be its own parent"
		return nil, nil
	}
	parent, err := s.repo.FindByID(ctx, parentID)
	if err != nil {
		return nil, mapReadError(err, "parent grading period")
	}
	if parent.AcademicLevelID != period.AcademicLevelID {
		fields["parent_id"] = "parent period belongs to a different academic level"
		return nil, nil
	}
	if !parent.IsRootSemester() {
		fields["parent_id"] = "parent period must be a root semester"
		return nil, nil
	}

	siblings, err := s.repo.ListChildren(ctx, parent.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load sibling periods")
	}
	if period.IsFinal() {
		for _, sibling := range siblings {
			if sibling.ID != period.ID && sibling.IsFinal() {
				fields["period_type"] = "semester already has a final average period"
				break
			}
		}
		declareSiblingFlags(period, siblings)
		return nil, nil
	}

	for _, sibling := range siblings {
		if sibling.ID == period.ID || !sibling.IsFinal() {
			continue
		}
		final := sibling
		if declareSiblingFlags(&final, []models.GradingPeriod{*period}) {
			return &final, nil
		}
		return nil, nil
	}
	return nil, nil
}

func (s *GradingPeriodService) requireLevel(ctx context.Context, academicLevelID string) error {
	if strings.TrimSpace(academicLevelID) == "" {
		return appErrors.Field("academic_level_id", "academic_level_id is required")
	}
	if _, err := s.levels.FindByID(ctx, academicLevelID); err != nil {
		return mapReadError(err, "academic level")
	}
	return nil
}

// periodWriteError maps store failures. The one-final index surfaces on period_type,
// the per-level code index on code.
func periodWriteError(err error, action string) error {
	if database.UniqueConstraint(err) == oneFinalConstraint {
		return appErrors.Field("period_type", "semester already has a final average period")
	}
	return mapWriteError(err, "grading period", action, "code")
}

func (s *GradingPeriodService) invalidate(ctx context.Context, academicLevelID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, structureCachePrefix+academicLevelID+"*"); err != nil {
		s.logger.Warn("failed to invalidate grading structure cache", zap.String("academic_level_id", academicLevelID), zap.Error(err))
	}
}

func (s *GradingPeriodService) record(kind string, ok bool) {
	if s.metrics != nil {
		s.metrics.RecordComputation(kind, ok)
	}
}
