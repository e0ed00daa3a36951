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

const strandColumns = `id, code, name, description, academic_level_id, is_active, created_at, updated_at`

// StrandRepository handles persistence for strands.
type StrandRepository struct {
	db *sqlx.DB
}

// NewStrandRepository creates a new repository instance.
func NewStrandRepository(db *sqlx.DB) *StrandRepository {
	return &StrandRepository{db: db}
}

// List returns strands matching filters with the total count.
func (r *StrandRepository) List(ctx context.Context, filter models.StrandFilter) ([]models.Strand, int, error) {
	var where whereBuilder
	if filter.AcademicLevelID != "" {
		where.add("academic_level_id = $%d", filter.AcademicLevelID)
	}
	if filter.IsActive != nil {
		where.add("is_active = $%d", *filter.IsActive)
	}
	where.search(filter.Search, "code", "name")

	query := `SELECT ` + strandColumns + ` FROM strands` + where.clause() +
		orderClause(filter.SortBy, filter.SortOrder, "code", "code", "name", "created_at") +
		pageClause(filter.Page, filter.PageSize)
	strands := make([]models.Strand, 0)
	if err := r.db.SelectContext(ctx, &strands, query, where.args...); err != nil {
		return nil, 0, fmt.Errorf("list strands: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM strands`+where.clause(), where.args...); err != nil {
		return nil, 0, fmt.Errorf("count strands: %w", err)
	}
	return strands, total, nil
}

// FindByID loads a strand by identifier.
func (r *StrandRepository) FindByID(ctx context.Context, id string) (*models.Strand, error) {
	query := `SELECT ` + strandColumns + ` FROM strands WHERE id = $1`
	var strand models.Strand
	if err := r.db.GetContext(ctx, &strand, query, id); err != nil {
		return nil, err
	}
	return &strand, nil
}

// ExistsByCode checks whether a strand code is already used.
func (r *StrandRepository) ExistsByCode(ctx context.Context, code string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM strands WHERE LOWER(code) = LOWER($1)"
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
		return false, fmt.Errorf("check strand code: %w", err)
	}
	return true, nil
}

// Create inserts a strand.
func (r *StrandRepository) Create(ctx context.Context, strand *models.Strand) error {
	if strand.ID == "" {
		strand.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	strand.CreatedAt = now
	strand.UpdatedAt = now

	const query = `INSERT INTO strands (id, code, name, description, academic_level_id, is_active, created_at, updated_at)
		VALUES (:id, :code, :name, :description, :academic_level_id, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, strand); err != nil {
		return fmt.Errorf("create strand: %w", err)
	}
	return nil
}

// Update modifies a strand.
func (r *StrandRepository) Update(ctx context.Context, strand *models.Strand) error {
	strand.UpdatedAt = time.Now().UTC()
	const query = `UPDATE strands SET code = :code, name = :name, description = :description, academic_level_id = :academic_level_id,
		is_active = :is_active, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, strand)
	if err != nil {
		return fmt.Errorf("update strand: %w", err)
	}
	return expectAffected(result, "update strand")
}

// Delete removes a strand.
func (r *StrandRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM strands WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete strand: %w", err)
	}
	return expectAffected(result, "delete strand")
}

// CountDependants counts subjects filed under the strand.
func (r *StrandRepository) CountDependants(ctx context.Context, id string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM subjects WHERE strand_id = $1`, id); err != nil {
		return 0, fmt.Errorf("count strand subjects: %w", err)
	}
	return count, nil
}
