package mentoringValidator

import (
	"time"

	"careerlink/validators"

	"github.com/gofiber/fiber/v2"
)

type BookRequest struct {
	SessionID    uint   `json:"session_id" validate:"required,min=1"`
	FullName     string `json:"full_name" validate:"required,min=2,max=100"`
	BirthDate    string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Gender       string `json:"gender" validate:"max=20"`
	Education    string `json:"education" validate:"max=100"`
	StudyProgram string `json:"study_program" validate:"max=100"`
	Phone        string `json:"phone" validate:"omitempty,e164|numeric"`
	Expectation  string `json:"expectation" validate:"max=1000"`
}

func Book() fiber.Handler {
	return validators.Body("validatedBooking", func(r *BookRequest) {
		validators.Trim(&r.FullName, &r.BirthDate, &r.Gender, &r.Education, &r.StudyProgram, &r.Phone, &r.Expectation)
	})
}

type NoteRequest struct {
	BookingID   uint     `json:"booking_id" validate:"required,min=1"`
	Content     string   `json:"content" validate:"required,max=10000"`
	Attachments []string `json:"attachments" validate:"max=10,dive,max=500"`
}

func SaveNote() fiber.Handler {
	return validators.Body[NoteRequest]("validatedNote", nil)
}

type CreateSessionRequest struct {
	Title           string    `json:"title" validate:"required,min=3,max=200"`
	MentorJob       string    `json:"mentor_job" validate:"max=200"`
	Description     string    `json:"description"`
	Platform        string    `json:"platform" validate:"max=100"`
	DurationMinutes int       `json:"duration_minutes" validate:"omitempty,min=15,max=480"`
	TimeZone        string    `json:"time_zone" validate:"omitempty,oneof=WIB WITA WIT"`
	StartAt         time.Time `json:"start_at" validate:"required"`
	LocationName    string    `json:"location_name" validate:"max=200"`
	LocationAddress string    `json:"location_address" validate:"max=300"`
	LocationLat     *float64  `json:"location_lat" validate:"omitempty,latitude"`
	LocationLng     *float64  `json:"location_lng" validate:"omitempty,longitude"`
	Capacity        int       `json:"capacity" validate:"omitempty,min=1,max=500"`
}

func CreateSession() fiber.Handler {
	return validators.Body("validatedSession", func(r *CreateSessionRequest) {
		validators.Trim(&r.Title, &r.MentorJob, &r.Platform, &r.TimeZone, &r.LocationName, &r.LocationAddress)
	})
}

func ID() fiber.Handler {
	return validators.ParamID("id", "id")
}

func BookingID() fiber.Handler {
	return validators.ParamID("bookingId", "bookingID")
}
