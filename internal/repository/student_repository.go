package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/registrar-api/internal/models"
)

const studentColumns = `id, student_number, full_name, academic_level_id, active, created_at, updated_at`

// StudentRepository reads student records owned by the student information system.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository creates a new repository instance.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// FindByID loads a student by identifier.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindMany loads the students whose ids are listed, keyed by id. Unknown ids are absent.
func (r *StudentRepository) FindMany(ctx context.Context, ids []string) (map[string]models.Student, error) {
	result := make(map[string]models.Student, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	query, args, err := sqlx.In(`SELECT `+studentColumns+` FROM students WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("build students query: %w", err)
	}
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("find students: %w", err)
	}
	for _, s := range students {
		result[s.ID] = s
	}
	return result, nil
}
