package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification is an inbox entry. A nil UserID marks a broadcast.
type Notification struct {
	Base
	UserID      *uint             `json:"user_id" gorm:"index"`
	Kind        string            `json:"type" gorm:"size:32;index"`
	Title       string            `json:"title" gorm:"not null"`
	Message     string            `json:"message"`
	Data        datatypes.JSONMap `json:"data"`
	TargetRoute string            `json:"target_route"`
	IsRead      bool              `json:"is_read" gorm:"default:false"`
}

// ScheduledReminder is a push notification persisted for delivery at FireAt by the reminder sweep.
type ScheduledReminder struct {
	Base
	UserID       uint              `json:"user_id" gorm:"index;not null"`
	Kind         string            `json:"kind" gorm:"size:32"`
	Title        string            `json:"title"`
	Message      string            `json:"message"`
	Data         datatypes.JSONMap `json:"data"`
	CourseID     *uint             `json:"course_id" gorm:"index"`
	EnrollmentID *uint             `json:"enrollment_id" gorm:"index"`
	BookingID    *uint             `json:"booking_id" gorm:"index"`
	FireAt       time.Time         `json:"fire_at" gorm:"index;not null"`
	SentAt       *time.Time        `json:"sent_at"`
	CancelledAt  *time.Time        `json:"cancelled_at"`
}
