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

const subjectColumns = `id, code, name, description, academic_level_id, strand_id, units, is_active, created_at, updated_at`

// SubjectRepository handles persistence for subjects.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository creates a new repository instance.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// List returns subjects matching filters with the total count.
func (r *SubjectRepository) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, int, error) {
	var where whereBuilder
	if filter.AcademicLevelID != "" {
		where.add("academic_level_id = $%d", filter.AcademicLevelID)
	}
	if filter.StrandID != "" {
		where.add("strand_id = $%d", filter.StrandID)
	}
	if filter.IsActive != nil {
		where.add("is_active = $%d", *filter.IsActive)
	}
	where.search(filter.Search, "code", "name")

	query := `SELECT ` + subjectColumns + ` FROM subjects` + where.clause() +
		orderClause(filter.SortBy, filter.SortOrder, "code", "code", "name", "units", "created_at") +
		pageClause(filter.Page, filter.PageSize)
	subjects := make([]models.Subject, 0)
	if err := r.db.SelectContext(ctx, &subjects, query, where.args...); err != nil {
		return nil, 0, fmt.Errorf("list subjects: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM subjects`+where.clause(), where.args...); err != nil {
		return nil, 0, fmt.Errorf("count subjects: %w", err)
	}
	return subjects, total, nil
}

// FindByID loads a subject by identifier.
func (r *SubjectRepository) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	query := `SELECT ` + subjectColumns + ` FROM subjects WHERE id = $1`
	var subject models.Subject
	if err := r.db.GetContext(ctx, &subject, query, id); err != nil {
		return nil, err
	}
	return &subject, nil
}

// ExistsByCode checks whether a subject code is already used.
func (r *SubjectRepository) ExistsByCode(ctx context.Context, code string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM subjects WHERE LOWER(code) = LOWER($1)"
	args := []interface{}{code}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check subject code: %w", err)
	}
	return true, nil
}

// Create inserts a subject.
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	if subject.ID == "" {
		subject.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	subject.CreatedAt = now
	subject.UpdatedAt = now

	const query = `INSERT INTO subjects (id, code, name, description, academic_level_id, strand_id, units, is_active, created_at, updated_at)
		VALUES (:id, :code, :name, :description, :academic_level_id, :strand_id, :units, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, subject); err != nil {
		return fmt.Errorf("create subject: %w", err)
	}
	return nil
}

// Update modifies a subject.
func (r *SubjectRepository) Update(ctx context.Context, subject *models.Subject) error {
	subject.UpdatedAt = time.Now().UTC()
	const query = `UPDATE subjects SET code = :code, name = :name, description = :description, academic_level_id = :academic_level_id,
		strand_id = :strand_id, units = :units, is_active = :is_active, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, subject)
	if err != nil {
		return fmt.Errorf("update subject: %w", err)
	}
	return expectAffected(result, "update subject")
}

// Delete removes a subject.
func (r *SubjectRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM subjects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete subject: %w", err)
	}
	return expectAffected(result, "delete subject")
}

// CountDependants counts enrollments and assignments referencing the subject.
func (r *SubjectRepository) CountDependants(ctx context.Context, id string) (int, error) {
	const query = `SELECT
		(SELECT COUNT(*) FROM subject_enrollments WHERE subject_id = $1) +
		(SELECT COUNT(*) FROM assignments WHERE subject_id = $1)`
	var count int
	if err := r.db.GetContext(ctx, &count, query, id); err != nil {
		return 0, fmt.Errorf("count subject dependants: %w", err)
	}
	return count, nil
}
