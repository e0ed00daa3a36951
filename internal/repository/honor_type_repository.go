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

const honorTypeColumns = `id, code, name, description, min_average, max_average, academic_level_id, is_active, created_at, updated_at`

// HonorTypeRepository persists honor types.
type HonorTypeRepository struct {
	db *sqlx.DB
}

// NewHonorTypeRepository creates a new repository instance.
func NewHonorTypeRepository(db *sqlx.DB) *HonorTypeRepository {
	return &HonorTypeRepository{db: db}
}

// List returns honor types ordered by descending minimum average.
func (r *HonorTypeRepository) List(ctx context.Context, academicLevelID string, isActive *bool) ([]models.HonorType, error) {
	var where whereBuilder
	if academicLevelID != "" {
		where.add("(academic_level_id IS NULL OR academic_level_id = $%d)", academicLevelID)
	}
	if isActive != nil {
		where.add("is_active = $%d", *isActive)
	}
	query := `SELECT ` + honorTypeColumns + ` FROM honor_types` + where.clause() + ` ORDER BY min_average DESC, code ASC`
	honors := make([]models.HonorType, 0)
	if err := r.db.SelectContext(ctx, &honors, query, where.args...); err != nil {
		return nil, fmt.Errorf("list honor types: %w", err)
	}
	return honors, nil
}

// FindByID loads an honor type.
func (r *HonorTypeRepository) FindByID(ctx context.Context, id string) (*models.HonorType, error) {
	query := `SELECT ` + honorTypeColumns + ` FROM honor_types WHERE id = $1`
	var honor models.HonorType
	if err := r.db.GetContext(ctx, &honor, query, id); err != nil {
		return nil, err
	}
	return &honor, nil
}

// ExistsByCode checks whether an honor type code is already used.
func (r *HonorTypeRepository) ExistsByCode(ctx context.Context, code string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM honor_types WHERE LOWER(code) = LOWER($1)"
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
		return false, fmt.Errorf("check honor type code: %w", err)
	}
	return true, nil
}

// Create inserts an honor type.
func (r *HonorTypeRepository) Create(ctx context.Context, honor *models.HonorType) error {
	if honor.ID == "" {
		honor.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	honor.CreatedAt = now
	honor.UpdatedAt = now

	const query = `INSERT INTO honor_types (id, code, name, description, min_average, max_average, academic_level_id, is_active, created_at, updated_at)
		VALUES (:id, :code, :name, :description, :min_average, :max_average, :academic_level_id, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, honor); err != nil {
		return fmt.Errorf("create honor type: %w", err)
	}
	return nil
}

// Update modifies an honor type.
func (r *HonorTypeRepository) Update(ctx context.Context, honor *models.HonorType) error {
	honor.UpdatedAt = time.Now().UTC()
	const query = `UPDATE honor_types SET code = :code, name = :name, description = :description, min_average = :min_average, max_average = :max_average,
		academic_level_id = :academic_level_id, is_active = :is_active, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, honor)
	if err != nil {
		return fmt.Errorf("update honor type: %w", err)
	}
	return expectAffected(result, "update honor type")
}

// Delete removes an honor type.
func (r *HonorTypeRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM honor_types WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete honor type: %w", err)
	}
	return expectAffected(result, "delete honor type")
}

// CountCertificates counts certificates issued for the honor type.
func (r *HonorTypeRepository) CountCertificates(ctx context.Context, id string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM certificates WHERE honor_type_id = $1`, id); err != nil {
		return 0, fmt.Errorf("count honor certificates: %w", err)
	}
	return count, nil
}
