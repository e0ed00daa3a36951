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

const departmentColumns = `id, code, name, description, is_active, created_at, updated_at`

// DepartmentRepository handles persistence for college departments.
type DepartmentRepository struct {
	db *sqlx.DB
}

// NewDepartmentRepository creates a new repository instance.
func NewDepartmentRepository(db *sqlx.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

// List returns departments matching filters with the total count.
func (r *DepartmentRepository) List(ctx context.Context, filter models.ListFilter) ([]models.Department, int, error) {
	var where whereBuilder
	if filter.IsActive != nil {
		where.add("is_active = $%d", *filter.IsActive)
	}
	where.search(filter.Search, "code", "name")

	query := `SELECT ` + departmentColumns + ` FROM departments` + where.clause() +
		orderClause(filter.SortBy, filter.SortOrder, "code", "code", "name", "created_at") +
		pageClause(filter.Page, filter.PageSize)
	departments := make([]models.Department, 0)
	if err := r.db.SelectContext(ctx, &departments, query, where.args...); err != nil {
		return nil, 0, fmt.Errorf("list departments: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM departments`+where.clause(), where.args...); err != nil {
		return nil, 0, fmt.Errorf("count departments: %w", err)
	}
	return departments, total, nil
}

// FindByID loads a department by identifier.
func (r *DepartmentRepository) FindByID(ctx context.Context, id string) (*models.Department, error) {
	query := `SELECT ` + departmentColumns + ` FROM departments WHERE id = $1`
	var department models.Department
	if err := r.db.GetContext(ctx, &department, query, id); err != nil {
		return nil, err
	}
	return &department, nil
}

// ExistsByCode checks whether a department code is already used.
func (r *DepartmentRepository) ExistsByCode(ctx context.Context, code string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM departments WHERE LOWER(code) = LOWER($1)"
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
		return false, fmt.Errorf("check department code: %w", err)
	}
	return true, nil
}

// Create inserts a department.
func (r *DepartmentRepository) Create(ctx context.Context, department *models.Department) error {
	if department.ID == "" {
		department.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	department.CreatedAt = now
	department.UpdatedAt = now

	const query = `INSERT INTO departments (id, code, name, description, is_active, created_at, updated_at)
		VALUES (:id, :code, :name, :description, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, department); err != nil {
		return fmt.Errorf("create department: %w", err)
	}
	return nil
}

// Update modifies a department.
func (r *DepartmentRepository) Update(ctx context.Context, department *models.Department) error {
	department.UpdatedAt = time.Now().UTC()
	const query = `UPDATE departments SET code = :code, name = :name, description = :description, is_active = :is_active, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, department)
	if err != nil {
		return fmt.Errorf("update department: %w", err)
	}
	return expectAffected(result, "update department")
}

// Delete removes a department.
func (r *DepartmentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete department: %w", err)
	}
	return expectAffected(result, "delete department")
}

// CountDependants counts courses owned by the department.
func (r *DepartmentRepository) CountDependants(ctx context.Context, id string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM courses WHERE department_id = $1`, id); err != nil {
		return 0, fmt.Errorf("count department courses: %w", err)
	}
	return count, nil
}
