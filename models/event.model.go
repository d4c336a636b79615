package models

import "time"

type Event struct {
	Base
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description"`
	Organizer   string     `json:"organizer"`
	Location    string     `json:"location"`
	ImageURL    string     `json:"image_url"`
	StartAt     *time.Time `json:"start_at" gorm:"index"`
	EndAt       *time.Time `json:"end_at"`
}

// SavedEvent is a user following an event.
type SavedEvent struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"uniqueIndex:idx_saved_events_user_event;not null"`
	EventID    uint      `json:"event_id" gorm:"uniqueIndex:idx_saved_events_user_event;not null"`
	FollowDate time.Time `json:"follow_date"`
}

func (SavedEvent) TableName() string {
	return "user_saved_events"
}

type EventCheckin struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"index;not null"`
	EventID     uint      `json:"event_id" gorm:"index;not null"`
	CheckedInAt time.Time `json:"checked_in_at"`
}

type Booth struct {
	Base
	EventID     uint   `json:"event_id" gorm:"index"`
	CompanyName string `json:"company_name"`
	Description string `json:"description"`
	BoothNumber string `json:"booth_number"`
	LogoURL     string `json:"logo_url"`
}

type NetworkingContact struct {
	Base
	Name        string `json:"name"`
	Position    string `json:"position"`
	Company     string `json:"company"`
	Email       string `json:"email"`
	LinkedinURL string `json:"linkedin_url"`
	PhotoURL    string `json:"photo_url"`
}
