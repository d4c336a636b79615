package models

import "time"

// Base replaces gorm.Model for tables that are hard-deleted and serialized with snake_case keys.
type Base struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
