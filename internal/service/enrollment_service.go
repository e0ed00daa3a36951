package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/registrar-api/internal/models"
	appErrors "github.com/noah-isme/registrar-api/pkg/errors"
)

type enrollmentRepository interface {
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.SubjectEnrollmentDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.SubjectEnrollment, error)
	Exists(ctx context.Context, studentID, subjectID, schoolYear string) (bool, error)
	Create(ctx context.Context, enrollment *models.SubjectEnrollment) error
	UpdateStatus(ctx context.Context, id string, status models.EnrollmentStatus, droppedAt *time.Time) error
	Delete(ctx context.Context, id string) error
}

type studentReader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

// EnrollmentRequest enrolls a student into a subject for a school year.
type EnrollmentRequest struct {
	StudentID  string `json:"student_id" validate:"required"`
	SubjectID  string `json:"subject_id" validate:"required"`
	SchoolYear string `json:"school_year" validate:"required"`
}

// EnrollmentStatusRequest changes an enrollment's status.
type EnrollmentStatusRequest struct {
	Status models.EnrollmentStatus `json:"status" validate:"required,oneof=ENROLLED DROPPED"`
}

// EnrollmentService manages subject enrollments.
type EnrollmentService struct {
	repo      enrollmentRepository
	students  studentReader
	subjects  subjectReader
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewEnrollmentService constructs an enrollment service.
func NewEnrollmentService(repo enrollmentRepository, students studentReader, subjects subjectReader, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{
		repo:      repo,
		students:  students,
		subjects:  subjects,
		validator: ensureValidator(validate),
		logger:    logger,
		now:       time.Now,
	}
}

// List returns enrollments with student and subject details.
func (s *EnrollmentService) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.SubjectEnrollmentDetail, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to list enrollments")
	}
	return items, paginate(filter.Page, filter.PageSize, total), nil
}

// Get returns an enrollment by id.
func (s *EnrollmentService) Get(ctx context.Context, id string) (*models.SubjectEnrollment, error) {
	enrollment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapReadError(err, "enrollment")
	}
	return enrollment, nil
}

// Enroll registers a student to a subject of the same academic level.
func (s *EnrollmentService) Enroll(ctx context.Context, req EnrollmentRequest) (*models.SubjectEnrollment, error) {
	req.StudentID = strings.TrimSpace(req.StudentID)
	req.SubjectID = strings.TrimSpace(req.SubjectID)
	req.SchoolYear = strings.TrimSpace(req.SchoolYear)
	if err := validatePayload(s.validator, req); err != nil {
		return nil, err
	}
	if msg := checkSchoolYear(req.SchoolYear); msg != "" {
		return nil, appErrors.Field("school_year", msg)
	}

	student, err := s.students.FindByID(ctx, req.StudentID)
	if err != nil {
		return nil, mapReadError(err, "student")
	}
	subject, err := s.subjects.FindByID(ctx, req.SubjectID)
	if err != nil {
		return nil, mapReadError(err, "subject")
	}
	if student.AcademicLevelID != subject.AcademicLevelID {
		return nil, appErrors.Field("subject_id", "subject is not offered at the student's academic level")
	}
	if !subject.IsActive {
		return nil, appErrors.Field("subject_id", "subject is inactive")
	}

	exists, err := s.repo.Exists(ctx, req.StudentID, req.SubjectID, req.SchoolYear)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to check enrollment")
	}
	if exists {
		return nil, appErrors.Field("subject_id", "student is already enrolled in this subject for the school year")
	}

	enrollment := &models.SubjectEnrollment{
		StudentID:  req.StudentID,
		SubjectID:  req.SubjectID,
		SchoolYear: req.SchoolYear,
		Status:     models.EnrollmentStatusEnrolled,
	}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		return nil, mapWriteError(err, "enrollment", "create", "subject_id")
	}
	return enrollment, nil
}

// UpdateStatus drops or re-enrolls a student. Dropping stamps dropped_at.
func (s *EnrollmentService) UpdateStatus(ctx context.Context, id string, req EnrollmentStatusRequest) (*models.SubjectEnrollment, error) {
	req.Status = models.EnrollmentStatus(strings.ToUpper(strings.TrimSpace(string(req.Status))))
	if err := validatePayload(s.validator, req); err != nil {
		return nil, err
	}
	enrollment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if enrollment.Status == req.Status {
		return enrollment, nil
	}

	var droppedAt *time.Time
	if req.Status == models.EnrollmentStatusDropped {
		now := s.now().UTC()
		droppedAt = &now
	}
	if err := s.repo.UpdateStatus(ctx, id, req.Status, droppedAt); err != nil {
		return nil, mapWriteError(err, "enrollment", "update", "")
	}
	enrollment.Status = req.Status
	enrollment.DroppedAt = droppedAt
	return enrollment, nil
}

// Delete removes an enrollment.
func (s *EnrollmentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapWriteError(err, "enrollment", "delete", "")
	}
	return nil
}
