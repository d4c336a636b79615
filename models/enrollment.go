package models

import "time"

const (
	EnrollmentActive    = "Active"
	EnrollmentCompleted = "Completed"
	EnrollmentCancelled = "Cancelled"
)

// Enrollment is a user's registration for a course. Rows are never deleted except when
// their course is; at most one non-cancelled row exists per (user, course).
type Enrollment struct {
	Base
	UserID         uint       `json:"user_id" gorm:"index;not null"`
	CourseID       uint       `json:"course_id" gorm:"index;not null"`
	Status         string     `json:"status" gorm:"size:16;index;default:'Active'"`
	RegisteredAt   time.Time  `json:"registered_at"`
	CompletionDate *time.Time `json:"completion_date"`
	Course         *Course    `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}
