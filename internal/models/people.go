package models

import "time"

// Student is a learner record referenced by enrollments and certificates.
// Student management itself lives outside this service.
type Student struct {
	ID              string    `db:"id" json:"id"`
	StudentNumber   string    `db:"student_number" json:"student_number"`
	FullName        string    `db:"full_name" json:"full_name"`
	AcademicLevelID string    `db:"academic_level_id" json:"academic_level_id"`
	Active          bool      `db:"active" json:"active"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// Instructor is a staff record that can be assigned as teacher, instructor or adviser.
type Instructor struct {
	ID             string    `db:"id" json:"id"`
	EmployeeNumber *string   `db:"employee_number" json:"employee_number,omitempty"`
	Email          string    `db:"email" json:"email"`
	FullName       string    `db:"full_name" json:"full_name"`
	Active         bool      `db:"active" json:"active"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}
