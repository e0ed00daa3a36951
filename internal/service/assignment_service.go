package service

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/registrar-api/internal/models"
	appErrors "github.com/noah-isme/registrar-api/pkg/errors"
)

var schoolYearPattern = regexp.MustCompile(`^(\d{4})-(\d{4})$`)

type assignmentRepository interface {
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.AssignmentDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.AssignmentDetail, error)
	Exists(ctx context.Context, assignment models.Assignment) (bool, error)
	AdviserTaken(ctx context.Context, section, schoolYear, excludeID string) (bool, error)
	Create(ctx context.Context, assignment *models.Assignment) error
	Update(ctx context.Context, assignment *models.Assignment) error
	Delete(ctx context.Context, id string) error
}

type instructorReader interface {
	FindByID(ctx context.Context, id string) (*models.Instructor, error)
}

type subjectReader interface {
	FindByID(ctx context.Context, id string) (*models.Subject, error)
}

// AssignmentRequest is the create/update payload for staff assignments.
type AssignmentRequest struct {
	Role            models.AssignmentRole `json:"role" validate:"required"`
	InstructorID    string                `json:"instructor_id" validate:"required"`
	AcademicLevelID string                `json:"academic_level_id" validate:"required"`
	SubjectID       *string               `json:"subject_id"`
	Section         *string               `json:"section" validate:"omitempty,max=50"`
	SchoolYear      string                `json:"school_year" validate:"required"`
	IsActive        *bool                 `json:"is_active"`
}

// AssignmentService manages teacher, instructor and adviser assignments.
type AssignmentService struct {
	repo        assignmentRepository
	instructors instructorReader
	levels      academicLevelReader
	subjects    subjectReader
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAssignmentService constructs an assignment service.
func NewAssignmentService(repo assignmentRepository, instructors instructorReader, levels academicLevelReader, subjects subjectReader, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{
		repo:        repo,
		instructors: instructors,
		levels:      levels,
		subjects:    subjects,
		validator:   ensureValidator(validate),
		logger:      logger,
	}
}

// List returns assignments with descriptive fields.
func (s *AssignmentService) List(ctx context.Context, filter models.AssignmentFilter) ([]models.AssignmentDetail, *models.Pagination, error) {
	if filter.Role != "" && !filter.Role.Valid() {
		return nil, nil, appErrors.Field("role", "role must be one of TEACHER INSTRUCTOR ADVISER")
	}
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to list assignments")
	}
	return items, paginate(filter.Page, filter.PageSize, total), nil
}

// Get returns an assignment by id.
func (s *AssignmentService) Get(ctx context.Context, id string) (*models.AssignmentDetail, error) {
	assignment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapReadError(err, "assignment")
	}
	return assignment, nil
}

// Create records an assignment.
func (s *AssignmentService) Create(ctx context.Context, req AssignmentRequest) (*models.Assignment, error) {
	assignment, err := s.build(ctx, req, "")
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, assignment); err != nil {
		return nil, mapWriteError(err, "assignment", "create", "instructor_id")
	}
	return assignment, nil
}

// Update replaces an assignment.
func (s *AssignmentService) Update(ctx context.Context, id string, req AssignmentRequest) (*models.Assignment, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	assignment, err := s.build(ctx, req, id)
	if err != nil {
		return nil, err
	}
	assignment.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, assignment); err != nil {
		return nil, mapWriteError(err, "assignment", "update", "instructor_id")
	}
	return assignment, nil
}

// Delete removes an assignment.
func (s *AssignmentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapWriteError(err, "assignment", "delete", "")
	}
	return nil
}

func (s *AssignmentService) build(ctx context.Context, req AssignmentRequest, id string) (*models.Assignment, error) {
	req.Role = models.AssignmentRole(strings.ToUpper(strings.TrimSpace(string(req.Role))))
	req.InstructorID = strings.TrimSpace(req.InstructorID)
	req.AcademicLevelID = strings.TrimSpace(req.AcademicLevelID)
	req.SchoolYear = strings.TrimSpace(req.SchoolYear)
	if err := validatePayload(s.validator, req); err != nil {
		return nil, err
	}

	subjectID := trimmedPtr(req.SubjectID)
	section := trimmedPtr(req.Section)
	fields := map[string]string{}
	if !req.Role.Valid() {
		fields["role"] = "role must be one of TEACHER INSTRUCTOR ADVISER"
	}
	if msg := checkSchoolYear(req.SchoolYear); msg != "" {
		fields["school_year"] = msg
	}
	switch {
	case req.Role.RequiresSubject() && subjectID == nil:
		fields["subject_id"] = "subject_id is required for teaching assignments"
	case req.Role == models.AssignmentRoleAdviser && subjectID != nil:
		fields["subject_id"] = "advisers are not assigned to a subject"
	}
	if req.Role == models.AssignmentRoleAdviser && section == nil {
		fields["section"] = "section is required for advisers"
	}
	if len(fields) > 0 {
		return nil, appErrors.Fields(fields)
	}

	if _, err := s.instructors.FindByID(ctx, req.InstructorID); err != nil {
		return nil, mapReadError(err, "instructor")
	}
	if _, err := s.levels.FindByID(ctx, req.AcademicLevelID); err != nil {
		return nil, mapReadError(err, "academic level")
	}
	if subjectID != nil {
		subject, err := s.subjects.FindByID(ctx, *subjectID)
		if err != nil {
			return nil, mapReadError(err, "subject")
		}
		if subject.AcademicLevelID != req.AcademicLevelID {
			return nil, appErrors.Field("subject_id", "subject belongs to a different academic level")
		}
	}

	assignment := &models.Assignment{
		ID:              id,
		Role:            req.Role,
		InstructorID:    req.InstructorID,
		AcademicLevelID: req.AcademicLevelID,
		SubjectID:       subjectID,
		Section:         section,
		SchoolYear:      req.SchoolYear,
		IsActive:        boolOr(req.IsActive, true),
	}

	duplicate, err := s.repo.Exists(ctx, *assignment)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to check assignment")
	}
	if duplicate {
		return nil, appErrors.Clone(appErrors.ErrConflict, "assignment already exists")
	}
	if assignment.Role == models.AssignmentRoleAdviser {
		taken, err := s.repo.AdviserTaken(ctx, *section, assignment.SchoolYear, id)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to check adviser section")
		}
		if taken {
			return nil, appErrors.Field("section", "section already has an adviser for this school year")
		}
	}
	return assignment, nil
}

// checkSchoolYear returns a message when the value is not two consecutive years.
func checkSchoolYear(value string) string {
	match := schoolYearPattern.FindStringSubmatch(value)
	if match == nil {
		return "school_year must look like 2024-2025"
	}
	start, _ := strconv.Atoi(match[1])
	end, _ := strconv.Atoi(match[2])
	if end != start+1 {
		return "school_year must span consecutive years"
	}
	return ""
}
