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

const assignmentDetailSelect = `SELECT a.id, a.role, a.instructor_id, a.academic_level_id, a.subject_id, a.section, a.school_year, a.is_active,
	a.created_at, a.updated_at, i.full_name AS instructor_name, s.name AS subject_name, l.name AS level_name
	FROM assignments a
	JOIN instructors i ON i.id = a.instructor_id
	JOIN academic_levels l ON l.id = a.academic_level_id
	LEFT JOIN subjects s ON s.id = a.subject_id`

// AssignmentRepository persists instructor assignments.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository creates a new repository instance.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// List returns assignment details matching filters with the total count.
func (r *AssignmentRepository) List(ctx context.Context, filter models.AssignmentFilter) ([]models.AssignmentDetail, int, error) {
	var where whereBuilder
	if filter.Role != "" {
		where.add("a.role = $%d", filter.Role)
	}
	if filter.InstructorID != "" {
		where.add("a.instructor_id = $%d", filter.InstructorID)
	}
	if filter.AcademicLevelID != "" {
		where.add("a.academic_level_id = $%d", filter.AcademicLevelID)
	}
	if filter.SchoolYear != "" {
		where.add("a.school_year = $%d", filter.SchoolYear)
	}

	query := assignmentDetailSelect + where.clause() + ` ORDER BY a.school_year DESC, i.full_name ASC` + pageClause(filter.Page, filter.PageSize)
	assignments := make([]models.AssignmentDetail, 0)
	if err := r.db.SelectContext(ctx, &assignments, query, where.args...); err != nil {
		return nil, 0, fmt.Errorf("list assignments: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM assignments a`+where.clause(), where.args...); err != nil {
		return nil, 0, fmt.Errorf("count assignments: %w", err)
	}
	return assignments, total, nil
}

// FindByID loads an assignment with its descriptive fields.
func (r *AssignmentRepository) FindByID(ctx context.Context, id string) (*models.AssignmentDetail, error) {
	var detail models.AssignmentDetail
	if err := r.db.GetContext(ctx, &detail, assignmentDetailSelect+` WHERE a.id = $1`, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Exists reports whether an identical assignment is already recorded.
func (r *AssignmentRepository) Exists(ctx context.Context, a models.Assignment) (bool, error) {
	const query = `SELECT 1 FROM assignments WHERE role = $1 AND instructor_id = $2 AND school_year = $3
		AND subject_id IS NOT DISTINCT FROM $4 AND section IS NOT DISTINCT FROM $5 AND id::text <> $6 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, a.Role, a.InstructorID, a.SchoolYear, a.SubjectID, a.Section, a.ID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check assignment duplicate: %w", err)
	}
	return true, nil
}

// AdviserTaken reports whether another adviser already holds the section for the school year.
func (r *AssignmentRepository) AdviserTaken(ctx context.Context, section, schoolYear, excludeID string) (bool, error) {
	const query = `SELECT 1 FROM assignments WHERE role = 'ADVISER' AND LOWER(section) = LOWER($1) AND school_year = $2 AND id::text <> $3 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, section, schoolYear, excludeID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check adviser section: %w", err)
	}
	return true, nil
}

// Create inserts an assignment.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	assignment.CreatedAt = now
	assignment.UpdatedAt = now

	const query = `INSERT INTO assignments (id, role, instructor_id, academic_level_id, subject_id, section, school_year, is_active, created_at, updated_at)
		VALUES (:id, :role, :instructor_id, :academic_level_id, :subject_id, :section, :school_year, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

// Update modifies an assignment.
func (r *AssignmentRepository) Update(ctx context.Context, assignment *models.Assignment) error {
	assignment.UpdatedAt = time.Now().UTC()
	const query = `UPDATE assignments SET role = :role, instructor_id = :instructor_id, academic_level_id = :academic_level_id, subject_id = :subject_id,
		section = :section, school_year = :school_year, is_active = :is_active, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, assignment)
	if err != nil {
		return fmt.Errorf("update assignment: %w", err)
	}
	return expectAffected(result, "update assignment")
}

// Delete removes an assignment.
func (r *AssignmentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM assignments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	return expectAffected(result, "delete assignment")
}
