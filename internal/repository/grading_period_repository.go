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

const gradingPeriodColumns = `id, name, code, type, period_type, academic_level_id, parent_id, semester_number, weight, is_calculated, include_flags, start_date, end_date, sort_order, is_active, created_at, updated_at`

// GradingPeriodRepository persists grading periods.
type GradingPeriodRepository struct {
	db *sqlx.DB
}

// NewGradingPeriodRepository instantiates a grading period repository.
func NewGradingPeriodRepository(db *sqlx.DB) *GradingPeriodRepository {
	return &GradingPeriodRepository{db: db}
}

// EachByLevel streams the periods of an academic level ordered by sort_order,
// invoking fn per row. Iteration stops at the first error returned by fn.
func (r *GradingPeriodRepository) EachByLevel(ctx context.Context, academicLevelID string, fn func(models.GradingPeriod) error) error {
	query := `SELECT ` + gradingPeriodColumns + ` FROM grading_periods WHERE academic_level_id = $1 ORDER BY sort_order ASC, name ASC`
	rows, err := r.db.QueryxContext(ctx, query, academicLevelID)
	if err != nil {
		return fmt.Errorf("query grading periods: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	for rows.Next() {
		var period models.GradingPeriod
		if err := rows.StructScan(&period); err != nil {
			return fmt.Errorf("scan grading period: %w", err)
		}
		if err := fn(period); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate grading periods: %w", err)
	}
	return nil
}

// ListByLevel returns every period of an academic level.
func (r *GradingPeriodRepository) ListByLevel(ctx context.Context, academicLevelID string) ([]models.GradingPeriod, error) {
	periods := make([]models.GradingPeriod, 0)
	err := r.EachByLevel(ctx, academicLevelID, func(p models.GradingPeriod) error {
		periods = append(periods, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return periods, nil
}

// FindByID loads a period by identifier.
func (r *GradingPeriodRepository) FindByID(ctx context.Context, id string) (*models.GradingPeriod, error) {
	query := `SELECT ` + gradingPeriodColumns + ` FROM grading_periods WHERE id = $1`
	var period models.GradingPeriod
	if err := r.db.GetContext(ctx, &period, query, id); err != nil {
		return nil, err
	}
	return &period, nil
}

// ListChildren returns the periods nested under parentID.
func (r *GradingPeriodRepository) ListChildren(ctx context.Context, parentID string) ([]models.GradingPeriod, error) {
	query := `SELECT ` + gradingPeriodColumns + ` FROM grading_periods WHERE parent_id = $1 ORDER BY sort_order ASC, name ASC`
	periods := make([]models.GradingPeriod, 0)
	if err := r.db.SelectContext(ctx, &periods, query, parentID); err != nil {
		return nil, fmt.Errorf("list child periods: %w", err)
	}
	return periods, nil
}

// ListParentCandidates returns root semesters of the level.
func (r *GradingPeriodRepository) ListParentCandidates(ctx context.Context, academicLevelID string) ([]models.GradingPeriod, error) {
	query := `SELECT ` + gradingPeriodColumns + ` FROM grading_periods WHERE academic_level_id = $1 AND type = 'semester' AND parent_id IS NULL ORDER BY sort_order ASC, name ASC`
	periods := make([]models.GradingPeriod, 0)
	if err := r.db.SelectContext(ctx, &periods, query, academicLevelID); err != nil {
		return nil, fmt.Errorf("list parent candidates: %w", err)
	}
	return periods, nil
}

// ExistsByCode checks code uniqueness inside an academic level.
func (r *GradingPeriodRepository) ExistsByCode(ctx context.Context, academicLevelID, code, excludeID string) (bool, error) {
	query := "SELECT 1 FROM grading_periods WHERE academic_level_id = $1 AND LOWER(code) = LOWER($2)"
	args := []interface{}{academicLevelID, code}
	if excludeID != "" {
		query += " AND id <> $3"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check grading period code: %w", err)
	}
	return true, nil
}

// CountChildren returns the number of periods nested under id.
func (r *GradingPeriodRepository) CountChildren(ctx context.Context, id string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM grading_periods WHERE parent_id = $1`, id); err != nil {
		return 0, fmt.Errorf("count child periods: %w", err)
	}
	return count, nil
}

// Create inserts a new period. Declared finals get their include flags rewritten in
// the same transaction.
func (r *GradingPeriodRepository) Create(ctx context.Context, period *models.GradingPeriod, declared ...*models.GradingPeriod) error {
	if period.ID == "" {
		period.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if period.CreatedAt.IsZero() {
		period.CreatedAt = now
	}
	period.UpdatedAt = now

	const query = `INSERT INTO grading_periods (id, name, code, type, period_type, academic_level_id, parent_id, semester_number, weight, is_calculated, include_flags, start_date, end_date, sort_order, is_active, created_at, updated_at)
		VALUES (:id, :name, :code, :type, :period_type, :academic_level_id, :parent_id, :semester_number, :weight, :is_calculated, :include_flags, :start_date, :end_date, :sort_order, :is_active, :created_at, :updated_at)`
	return r.write(ctx, "create grading period", declared, func(e sqlx.ExtContext) error {
		if _, err := sqlx.NamedExecContext(ctx, e, query, period); err != nil {
			return fmt.Errorf("create grading period: %w", err)
		}
		return nil
	})
}

// Update modifies an existing period. Declared finals are handled as in Create.
func (r *GradingPeriodRepository) Update(ctx context.Context, period *models.GradingPeriod, declared ...*models.GradingPeriod) error {
	period.UpdatedAt = time.Now().UTC()
	const query = `UPDATE grading_periods SET name = :name, code = :code, type = :type, period_type = :period_type, academic_level_id = :academic_level_id,
		parent_id = :parent_id, semester_number = :semester_number, weight = :weight, is_calculated = :is_calculated, include_flags = :include_flags,
		start_date = :start_date, end_date = :end_date, sort_order = :sort_order, is_active = :is_active, updated_at = :updated_at WHERE id = :id`
	return r.write(ctx, "update grading period", declared, func(e sqlx.ExtContext) error {
		result, err := sqlx.NamedExecContext(ctx, e, query, period)
		if err != nil {
			return fmt.Errorf("update grading period: %w", err)
		}
		return expectAffected(result, "update grading period")
	})
}

func (r *GradingPeriodRepository) write(ctx context.Context, op string, declared []*models.GradingPeriod, fn func(sqlx.ExtContext) error) (err error) {
	if len(declared) == 0 {
		return fn(r.db)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin %s: %w", op, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	now := time.Now().UTC()
	for _, final := range declared {
		final.UpdatedAt = now
		if _, err = tx.ExecContext(ctx, `UPDATE grading_periods SET include_flags = $2, updated_at = $3 WHERE id = $1`, final.ID, final.IncludeFlags, now); err != nil {
			return fmt.Errorf("declare include flags: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", op, err)
	}
	return nil
}

// Delete removes a period permanently.
func (r *GradingPeriodRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM grading_periods WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete grading period: %w", err)
	}
	return expectAffected(result, "delete grading period")
}

func expectAffected(result sql.Result, op string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows: %w", op, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
