package models

import (
	"time"

	"gorm.io/datatypes"
)

// MentoringSession is a bookable mentoring slot hosted by a mentor user.
type MentoringSession struct {
	Base
	Title           string    `json:"title" gorm:"not null"`
	MentorID        uint      `json:"mentor_id" gorm:"index;not null"`
	Mentor          *User     `json:"mentor,omitempty" gorm:"foreignKey:MentorID"`
	MentorJob       string    `json:"mentor_job"`
	Description     string    `json:"description"`
	Platform        string    `json:"platform"`
	DurationMinutes int       `json:"duration_minutes" gorm:"default:60"`
	TimeZone        string    `json:"time_zone" gorm:"size:8;default:'WIB'"`
	StartAt         time.Time `json:"start_at" gorm:"index;not null"`
	EndAt           time.Time `json:"end_at" gorm:"not null"`
	LocationName    string    `json:"location_name"`
	LocationAddress string    `json:"location_address"`
	LocationLat     *float64  `json:"location_lat"`
	LocationLng     *float64  `json:"location_lng"`
	Capacity        int       `json:"capacity" gorm:"default:1"`
	BookedCount     int       `json:"booked_count" gorm:"default:0"`
	IsActive        bool      `json:"is_active" gorm:"index;default:true"`
}

const (
	BookingBooked    = "BOOKED"
	BookingCancelled = "CANCELLED"
	BookingDone      = "DONE"
)

type MentoringBooking struct {
	Base
	SessionID    uint              `json:"session_id" gorm:"index;not null"`
	Session      *MentoringSession `json:"session,omitempty" gorm:"foreignKey:SessionID"`
	UserID       uint              `json:"user_id" gorm:"index;not null"`
	FullName     string            `json:"full_name" gorm:"not null"`
	BirthDate    string            `json:"birth_date"`
	Gender       string            `json:"gender"`
	Education    string            `json:"education"`
	StudyProgram string            `json:"study_program"`
	Phone        string            `json:"phone"`
	Expectation  string            `json:"expectation"`
	Status       string            `json:"status" gorm:"size:16;default:'BOOKED'"`
}

type MentoringNote struct {
	Base
	BookingID   uint                        `json:"booking_id" gorm:"uniqueIndex;not null"`
	SessionID   uint                        `json:"session_id" gorm:"index"`
	UserID      uint                        `json:"user_id" gorm:"index"`
	Content     string                      `json:"content"`
	Attachments datatypes.JSONSlice[string] `json:"attachments"`
}
