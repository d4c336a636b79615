package models

const (
	RoleStudent    = "student"
	RoleAdmin      = "admin"
	RoleInstructor = "instructor"
	RoleRecruiter  = "recruiter"
	RoleMentor     = "mentor"
)

type User struct {
	Base
	Name            string `json:"name" gorm:"not null"`
	Email           string `json:"email" gorm:"uniqueIndex;size:191;not null"`
	Password        string `json:"-" gorm:"not null"`
	Role            string `json:"role" gorm:"size:32;default:'student'"`
	PhotoProfileURL string `json:"photo_profile_url"`
	FCMToken        string `json:"-" gorm:"column:fcm_token;index;size:512"`
}
