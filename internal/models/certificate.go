package models

import "time"

// HonorType is an academic distinction awarded for an average within a range.
type HonorType struct {
	ID              string    `db:"id" json:"id"`
	Code            string    `db:"code" json:"code"`
	Name            string    `db:"name" json:"name"`
	Description     *string   `db:"description" json:"description,omitempty"`
	MinAverage      float64   `db:"min_average" json:"min_average"`
	MaxAverage      float64   `db:"max_average" json:"max_average"`
	AcademicLevelID *string   `db:"academic_level_id" json:"academic_level_id,omitempty"`
	IsActive        bool      `db:"is_active" json:"is_active"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// Contains reports whether the average falls inside the honor range (inclusive).
func (h HonorType) Contains(average float64) bool {
	return average >= h.MinAverage && average <= h.MaxAverage
}

// CertificateTemplate stores the html/template source used to render certificates.
type CertificateTemplate struct {
	ID              string    `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	Content         string    `db:"content" json:"content"`
	AcademicLevelID *string   `db:"academic_level_id" json:"academic_level_id,omitempty"`
	HonorTypeID     *string   `db:"honor_type_id" json:"honor_type_id,omitempty"`
	IsActive        bool      `db:"is_active" json:"is_active"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// CertificateStatus tracks rendering progress.
type CertificateStatus string

const (
	CertificateStatusPending CertificateStatus = "PENDING"
	CertificateStatusReady   CertificateStatus = "READY"
	CertificateStatusFailed  CertificateStatus = "FAILED"
)

// Certificate is an issued honor certificate for a student.
type Certificate struct {
	ID           string            `db:"id" json:"id"`
	StudentID    string            `db:"student_id" json:"student_id"`
	HonorTypeID  string            `db:"honor_type_id" json:"honor_type_id"`
	TemplateID   string            `db:"template_id" json:"template_id"`
	SchoolYear   string            `db:"school_year" json:"school_year"`
	Average      *float64          `db:"average" json:"average,omitempty"`
	Status       CertificateStatus `db:"status" json:"status"`
	DocumentPath *string           `db:"document_path" json:"-"`
	ErrorMessage *string           `db:"error_message" json:"error_message,omitempty"`
	IssuedAt     time.Time         `db:"issued_at" json:"issued_at"`
	UpdatedAt    time.Time         `db:"updated_at" json:"updated_at"`
}

// CertificateFilter scopes certificate listings.
type CertificateFilter struct {
	StudentID   string
	HonorTypeID string
	SchoolYear  string
	Status      CertificateStatus
	Page        int
	PageSize    int
}
