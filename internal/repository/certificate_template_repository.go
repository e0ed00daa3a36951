package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/registrar-api/internal/models"
)

const certificateTemplateColumns = `id, name, content, academic_level_id, honor_type_id, is_active, created_at, updated_at`

// CertificateTemplateRepository persists certificate templates.
type CertificateTemplateRepository struct {
	db *sqlx.DB
}

// NewCertificateTemplateRepository creates a new repository instance.
func NewCertificateTemplateRepository(db *sqlx.DB) *CertificateTemplateRepository {
	return &CertificateTemplateRepository{db: db}
}

// List returns templates, optionally restricted to one honor type.
func (r *CertificateTemplateRepository) List(ctx context.Context, honorTypeID string, isActive *bool) ([]models.CertificateTemplate, error) {
	var where whereBuilder
	if honorTypeID != "" {
		where.add("honor_type_id = $%d", honorTypeID)
	}
	if isActive != nil {
		where.add("is_active = $%d", *isActive)
	}
	query := `SELECT ` + certificateTemplateColumns + ` FROM certificate_templates` + where.clause() + ` ORDER BY name ASC`
	templates := make([]models.CertificateTemplate, 0)
	if err := r.db.SelectContext(ctx, &templates, query, where.args...); err != nil {
		return nil, fmt.Errorf("list certificate templates: %w", err)
	}
	return templates, nil
}

// FindByID loads a template.
func (r *CertificateTemplateRepository) FindByID(ctx context.Context, id string) (*models.CertificateTemplate, error) {
	query := `SELECT ` + certificateTemplateColumns + ` FROM certificate_templates WHERE id = $1`
	var tmpl models.CertificateTemplate
	if err := r.db.GetContext(ctx, &tmpl, query, id); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// Create inserts a template.
func (r *CertificateTemplateRepository) Create(ctx context.Context, tmpl *models.CertificateTemplate) error {
	if tmpl.ID == "" {
		tmpl.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	tmpl.CreatedAt = now
	tmpl.UpdatedAt = now

	const query = `INSERT INTO certificate_templates (id, name, content, academic_level_id, honor_type_id, is_active, created_at, updated_at)
		VALUES (:id, :name, :content, :academic_level_id, :honor_type_id, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, tmpl); err != nil {
		return fmt.Errorf("create certificate template: %w", err)
	}
	return nil
}

// Update modifies a template.
func (r *CertificateTemplateRepository) Update(ctx context.Context, tmpl *models.CertificateTemplate) error {
	tmpl.UpdatedAt = time.Now().UTC()
	const query = `UPDATE certificate_templates SET name = :name, content = :content, academic_level_id = :academic_level_id,
		honor_type_id = :honor_type_id, is_active = :is_active, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, tmpl)
	if err != nil {
		return fmt.Errorf("update certificate template: %w", err)
	}
	return expectAffected(result, "update certificate template")
}

// Delete removes a template.
func (r *CertificateTemplateRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM certificate_templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete certificate template: %w", err)
	}
	return expectAffected(result, "delete certificate template")
}

// CountCertificates counts certificates rendered from the template.
func (r *CertificateTemplateRepository) CountCertificates(ctx context.Context, id string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM certificates WHERE template_id = $1`, id); err != nil {
		return 0, fmt.Errorf("count template certificates: %w", err)
	}
	return count, nil
}
