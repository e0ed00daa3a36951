package models

import "time"

// EnrollmentStatus represents the lifecycle of a subject enrollment.
type EnrollmentStatus string

const (
	EnrollmentStatusEnrolled EnrollmentStatus = "ENROLLED"
	EnrollmentStatusDropped  EnrollmentStatus = "DROPPED"
)

// SubjectEnrollment registers a student to a subject for a school year.
type SubjectEnrollment struct {
	ID         string           `db:"id" json:"id"`
	StudentID  string           `db:"student_id" json:"student_id"`
	SubjectID  string           `db:"subject_id" json:"subject_id"`
	SchoolYear string           `db:"school_year" json:"school_year"`
	Status     EnrollmentStatus `db:"status" json:"status"`
	EnrolledAt time.Time        `db:"enrolled_at" json:"enrolled_at"`
	DroppedAt  *time.Time       `db:"dropped_at" json:"dropped_at,omitempty"`
}

// SubjectEnrollmentDetail enriches enrollments with student and subject info.
type SubjectEnrollmentDetail struct {
	SubjectEnrollment
	StudentName   string `db:"student_name" json:"student_name"`
	StudentNumber string `db:"student_number" json:"student_number"`
	SubjectCode   string `db:"subject_code" json:"subject_code"`
	SubjectName   string `db:"subject_name" json:"subject_name"`
}

// EnrollmentFilter provides filters for listing enrollments.
type EnrollmentFilter struct {
	StudentID  string
	SubjectID  string
	SchoolYear string
	Status     EnrollmentStatus
	Page       int
	PageSize   int
}
