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

const academicLevelColumns = `id, key, name, sort_order, is_active, created_at, updated_at`

// AcademicLevelRepository persists academic levels.
type AcademicLevelRepository struct {
	db *sqlx.DB
}

// NewAcademicLevelRepository instantiates an academic level repository.
func NewAcademicLevelRepository(db *sqlx.DB) *AcademicLevelRepository {
	return &AcademicLevelRepository{db: db}
}

// List returns levels ordered by sort_order, optionally limited to active ones.
func (r *AcademicLevelRepository) List(ctx context.Context, isActive *bool) ([]models.AcademicLevel, error) {
	var where whereBuilder
	if isActive != nil {
		where.add("is_active = $%d", *isActive)
	}
	query := `SELECT ` + academicLevelColumns + ` FROM academic_levels` + where.clause() + ` ORDER BY sort_order ASC, name ASC`
	levels := make([]models.AcademicLevel, 0)
	if err := r.db.SelectContext(ctx, &levels, query, where.args...); err != nil {
		return nil, fmt.Errorf("list academic levels: %w", err)
	}
	return levels, nil
}

// FindByID loads a level by identifier.
func (r *AcademicLevelRepository) FindByID(ctx context.Context, id string) (*models.AcademicLevel, error) {
	query := `SELECT ` + academicLevelColumns + ` FROM academic_levels WHERE id = $1`
	var level models.AcademicLevel
	if err := r.db.GetContext(ctx, &level, query, id); err != nil {
		return nil, err
	}
	return &level, nil
}

// ExistsByKey checks key uniqueness.
func (r *AcademicLevelRepository) ExistsByKey(ctx context.Context, key models.AcademicLevelKey, excludeID string) (bool, error) {
	query := "SELECT 1 FROM academic_levels WHERE key = $1"
	args := []interface{}{key}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check academic level key: %w", err)
	}
	return true, nil
}

// CountDependants returns how many grading periods, subjects and strands reference the level.
func (r *AcademicLevelRepository) CountDependants(ctx context.Context, id string) (int, error) {
	const query = `SELECT
		(SELECT COUNT(*) FROM grading_periods WHERE academic_level_id = $1) +
		(SELECT COUNT(*) FROM subjects WHERE academic_level_id = $1) +
		(SELECT COUNT(*) FROM strands WHERE academic_level_id = $1)`
	var count int
	if err := r.db.GetContext(ctx, &count, query, id); err != nil {
		return 0, fmt.Errorf("count academic level dependants: %w", err)
	}
	return count, nil
}

// Create inserts a new level.
func (r *AcademicLevelRepository) Create(ctx context.Context, level *models.AcademicLevel) error {
	if level.ID == "" {
		level.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	level.CreatedAt = now
	level.UpdatedAt = now

	const query = `INSERT INTO academic_levels (id, key, name, sort_order, is_active, created_at, updated_at)
		VALUES (:id, :key, :name, :sort_order, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, level); err != nil {
		return fmt.Errorf("create academic level: %w", err)
	}
	return nil
}

// Update modifies an existing level.
func (r *AcademicLevelRepository) Update(ctx context.Context, level *models.AcademicLevel) error {
	level.UpdatedAt = time.Now().UTC()
	const query = `UPDATE academic_levels SET key = :key, name = :name, sort_order = :sort_order, is_active = :is_active, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, level)
	if err != nil {
		return fmt.Errorf("update academic level: %w", err)
	}
	return expectAffected(result, "update academic level")
}

// Delete removes a level permanently.
func (r *AcademicLevelRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM academic_levels WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete academic level: %w", err)
	}
	return expectAffected(result, "delete academic level")
}
