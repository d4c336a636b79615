package models

import "time"

// Badge rows live in user_badges. A row with a nil UserID is a template waiting to be
// claimed; course templates stay unowned and claims copy them into owned rows.
type Badge struct {
	Base
	UserID     *uint      `json:"user_id" gorm:"index"`
	CourseID   *uint      `json:"course_id" gorm:"index"`
	TemplateID *uint      `json:"template_id" gorm:"index"`
	Title      string     `json:"title" gorm:"not null"`
	Issuer     string     `json:"issuer"`
	ImageURL   string     `json:"image_url"`
	QRToken    *string    `json:"qr_token,omitempty" gorm:"uniqueIndex;size:191"`
	IsExternal bool       `json:"is_external"`
	ObtainedAt *time.Time `json:"obtained_at"`
}

func (Badge) TableName() string {
	return "user_badges"
}

// Claimed reports whether the badge is owned by a user.
func (b *Badge) Claimed() bool {
	return b.UserID != nil
}
