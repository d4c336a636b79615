package models

import "time"

const (
	LocationOnline  = "Online"
	LocationOffline = "Offline"
	LocationHybrid  = "Hybrid"
)

// Course is a skill course users enroll into. Quota caps non-cancelled enrollments.
type Course struct {
	Base
	Title          string     `json:"title" gorm:"not null"`
	Description    string     `json:"description"`
	ProviderName   string     `json:"provider_name"`
	LocationType   string     `json:"location_type" gorm:"size:16;index"`
	LocationDetail string     `json:"location_detail"`
	DateStart      *time.Time `json:"date_start"`
	DateEnd        *time.Time `json:"date_end"`
	Quota          int        `json:"quota" gorm:"not null;check:quota >= 0"`
	Price          float64    `json:"price"`
	ImageURL       string     `json:"image_url"`
}
