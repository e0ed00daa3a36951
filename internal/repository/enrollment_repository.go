package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/registrar-api/internal/models"
)

const enrollmentDetailSelect = `SELECT e.id, e.student_id, e.subject_id, e.school_year, e.status, e.enrolled_at, e.dropped_at,
	st.full_name AS student_name, st.student_number, su.code AS subject_code, su.name AS subject_name
	FROM subject_enrollments e
	JOIN students st ON st.id = e.student_id
	JOIN subjects su ON su.id = e.subject_id`

// EnrollmentRepository handles persistence for subject enrollments.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository creates a new repository instance.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// List returns enrollment details with the total count.
func (r *EnrollmentRepository) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.SubjectEnrollmentDetail, int, error) {
	var where whereBuilder
	if filter.StudentID != "" {
		where.add("e.student_id = $%d", filter.StudentID)
	}
	if filter.SubjectID != "" {
		where.add("e.subject_id = $%d", filter.SubjectID)
	}
	if filter.SchoolYear != "" {
		where.add("e.school_year = $%d", filter.SchoolYear)
	}
	if filter.Status != "" {
		where.add("e.status = $%d", filter.Status)
	}

	query := enrollmentDetailSelect + where.clause() + ` ORDER BY e.enrolled_at DESC` + pageClause(filter.Page, filter.PageSize)
	enrollments := make([]models.SubjectEnrollmentDetail, 0)
	if err := r.db.SelectContext(ctx, &enrollments, query, where.args...); err != nil {
		return nil, 0, fmt.Errorf("list enrollments: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM subject_enrollments e`+where.clause(), where.args...); err != nil {
		return nil, 0, fmt.Errorf("count enrollments: %w", err)
	}
	return enrollments, total, nil
}

// FindByID loads an enrollment.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id string) (*models.SubjectEnrollment, error) {
	const query = `SELECT id, student_id, subject_id, school_year, status, enrolled_at, dropped_at FROM subject_enrollments WHERE id = $1`
	var enrollment models.SubjectEnrollment
	if err := r.db.GetContext(ctx, &enrollment, query, id); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// Exists reports whether the student is already enrolled in the subject for the year.
func (r *EnrollmentRepository) Exists(ctx context.Context, studentID, subjectID, schoolYear string) (bool, error) {
	const query = `SELECT 1 FROM subject_enrollments WHERE student_id = $1 AND subject_id = $2 AND school_year = $3 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, studentID, subjectID, schoolYear); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return true, nil
}

// Create inserts an enrollment.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.SubjectEnrollment) error {
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	if enrollment.EnrolledAt.IsZero() {
		enrollment.EnrolledAt = time.Now().UTC()
	}
	if enrollment.Status == "" {
		enrollment.Status = models.EnrollmentStatusEnrolled
	}

	const query = `INSERT INTO subject_enrollments (id, student_id, subject_id, school_year, status, enrolled_at, dropped_at)
		VALUES (:id, :student_id, :subject_id, :school_year, :status, :enrolled_at, :dropped_at)`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// UpdateStatus changes enrollment status and the dropped timestamp.
func (r *EnrollmentRepository) UpdateStatus(ctx context.Context, id string, status models.EnrollmentStatus, droppedAt *time.Time) error {
	result, err := r.db.ExecContext(ctx, `UPDATE subject_enrollments SET status = $2, dropped_at = $3 WHERE id = $1`, id, status, droppedAt)
	if err != nil {
		return fmt.Errorf("update enrollment status: %w", err)
	}
	return expectAffected(result, "update enrollment status")
}

// Delete removes an enrollment.
func (r *EnrollmentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM subject_enrollments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	return expectAffected(result, "delete enrollment")
}
