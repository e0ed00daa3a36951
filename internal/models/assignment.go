package models

import "time"

// AssignmentRole distinguishes the kinds of staff assignments.
type AssignmentRole string

const (
	AssignmentRoleTeacher    AssignmentRole = "TEACHER"
	AssignmentRoleInstructor AssignmentRole = "INSTRUCTOR"
	AssignmentRoleAdviser    AssignmentRole = "ADVISER"
)

// Valid reports whether the role is supported.
func (r AssignmentRole) Valid() bool {
	return r == AssignmentRoleTeacher || r == AssignmentRoleInstructor || r == AssignmentRoleAdviser
}

// RequiresSubject reports whether assignments of this role are tied to a subject.
func (r AssignmentRole) RequiresSubject() bool {
	return r == AssignmentRoleTeacher || r == AssignmentRoleInstructor
}

// Assignment links an instructor to a subject or advisory section for a school year.
type Assignment struct {
	ID              string         `db:"id" json:"id"`
	Role            AssignmentRole `db:"role" json:"role"`
	InstructorID    string         `db:"instructor_id" json:"instructor_id"`
	AcademicLevelID string         `db:"academic_level_id" json:"academic_level_id"`
	SubjectID       *string        `db:"subject_id" json:"subject_id,omitempty"`
	Section         *string        `db:"section" json:"section,omitempty"`
	SchoolYear      string         `db:"school_year" json:"school_year"`
	IsActive        bool           `db:"is_active" json:"is_active"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}

// AssignmentDetail enriches assignments with descriptive fields.
type AssignmentDetail struct {
	Assignment
	InstructorName string  `db:"instructor_name" json:"instructor_name"`
	SubjectName    *string `db:"subject_name" json:"subject_name,omitempty"`
	LevelName      string  `db:"level_name" json:"level_name"`
}

// AssignmentFilter scopes assignment listings.
type AssignmentFilter struct {
	Role            AssignmentRole
	InstructorID    string
	AcademicLevelID string
	SchoolYear      string
	Page            int
	PageSize        int
}

// SubjectValue returns the subject id or an empty string for advisory assignments.
func (a Assignment) SubjectValue() string {
	if a.SubjectID == nil {
		return ""
	}
	return *a.SubjectID
}

// SectionValue returns the advisory section or an empty string.
func (a Assignment) SectionValue() string {
	if a.Section == nil {
		return ""
	}
	return *a.Section
}
