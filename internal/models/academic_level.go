package models

import "time"

// AcademicLevelKey identifies a stage of schooling.
type AcademicLevelKey string

const (
	AcademicLevelElementary AcademicLevelKey = "elementary"
	AcademicLevelJuniorHigh AcademicLevelKey = "junior_high"
	AcademicLevelSeniorHigh AcademicLevelKey = "senior_high"
	AcademicLevelCollege    AcademicLevelKey = "college"
)

// Valid reports whether the key is one of the supported levels.
func (k AcademicLevelKey) Valid() bool {
	switch k {
	case AcademicLevelElementary, AcademicLevelJuniorHigh, AcademicLevelSeniorHigh, AcademicLevelCollege:
		return true
	}
	return false
}

// AcademicLevel scopes grading periods, subjects and strands.
type AcademicLevel struct {
	ID        string           `db:"id" json:"id"`
	Key       AcademicLevelKey `db:"key" json:"key"`
	Name      string           `db:"name" json:"name"`
	SortOrder int              `db:"sort_order" json:"sort_order"`
	IsActive  bool             `db:"is_active" json:"is_active"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt time.Time        `db:"updated_at" json:"updated_at"`
}
