package models

import "time"

// LoginTracking records where a successful login came from.
type LoginTracking struct {
	Base
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	IPAddress string    `json:"ip_address"`
	Device    string    `json:"device"`
	Timestamp time.Time `json:"timestamp"`
}
