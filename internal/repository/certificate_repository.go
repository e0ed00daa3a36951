package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/registrar-api/internal/models"
)

const certificateColumns = `id, student_id, honor_type_id, template_id, school_year, average, status, document_path, error_message, issued_at, updated_at`

// CertificateRepository persists issued certificates.
type CertificateRepository struct {
	db *sqlx.DB
}

// NewCertificateRepository creates a new repository instance.
func NewCertificateRepository(db *sqlx.DB) *CertificateRepository {
	return &CertificateRepository{db: db}
}

// List returns certificates matching filters with the total count.
func (r *CertificateRepository) List(ctx context.Context, filter models.CertificateFilter) ([]models.Certificate, int, error) {
	var where whereBuilder
	if filter.StudentID != "" {
		where.add("student_id = $%d", filter.StudentID)
	}
	if filter.HonorTypeID != "" {
		where.add("honor_type_id = $%d", filter.HonorTypeID)
	}
	if filter.SchoolYear != "" {
		where.add("school_year = $%d", filter.SchoolYear)
	}
	if filter.Status != "" {
		where.add("status = $%d", filter.Status)
	}

	query := `SELECT ` + certificateColumns + ` FROM certificates` + where.clause() + ` ORDER BY issued_at DESC` + pageClause(filter.Page, filter.PageSize)
	certificates := make([]models.Certificate, 0)
	if err := r.db.SelectContext(ctx, &certificates, query, where.args...); err != nil {
		return nil, 0, fmt.Errorf("list certificates: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM certificates`+where.clause(), where.args...); err != nil {
		return nil, 0, fmt.Errorf("count certificates: %w", err)
	}
	return certificates, total, nil
}

// FindByID loads a certificate.
func (r *CertificateRepository) FindByID(ctx context.Context, id string) (*models.Certificate, error) {
	query := `SELECT ` + certificateColumns + ` FROM certificates WHERE id = $1`
	var certificate models.Certificate
	if err := r.db.GetContext(ctx, &certificate, query, id); err != nil {
		return nil, err
	}
	return &certificate, nil
}

// CreateBatch inserts certificates in a single transaction.
func (r *CertificateRepository) CreateBatch(ctx context.Context, certificates []*models.Certificate) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin certificate batch: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `INSERT INTO certificates (id, student_id, honor_type_id, template_id, school_year, average, status, document_path, error_message, issued_at, updated_at)
		VALUES (:id, :student_id, :honor_type_id, :template_id, :school_year, :average, :status, :document_path, :error_message, :issued_at, :updated_at)`
	now := time.Now().UTC()
	for _, c := range certificates {
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		if c.Status == "" {
			c.Status = models.CertificateStatusPending
		}
		c.IssuedAt = now
		c.UpdatedAt = now
		if _, err = tx.NamedExecContext(ctx, query, c); err != nil {
			return fmt.Errorf("insert certificate: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit certificate batch: %w", err)
	}
	return nil
}

// UpdateStatus records the outcome of rendering.
func (r *CertificateRepository) UpdateStatus(ctx context.Context, id string, status models.CertificateStatus, documentPath, errorMessage *string) error {
	const query = `UPDATE certificates SET status = $2, document_path = $3, error_message = $4, updated_at = $5 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, status, documentPath, errorMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update certificate status: %w", err)
	}
	return expectAffected(result, "update certificate status")
}

// Delete removes a certificate.
func (r *CertificateRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM certificates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete certificate: %w", err)
	}
	return expectAffected(result, "delete certificate")
}
