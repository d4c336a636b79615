package badgeValidator

import (
	"careerlink/validators"

	"github.com/gofiber/fiber/v2"
)

// ScanRequest names the badge by course id or by the scanned QR token.
type ScanRequest struct {
	CourseID *uint  `json:"course_id" validate:"required_without=QRToken"`
	QRToken  string `json:"qr_token" validate:"required_without=CourseID,max=191"`
}

func Scan() fiber.Handler {
	return validators.Body("validatedScan", func(r *ScanRequest) {
		validators.Trim(&r.QRToken)
	})
}

type CreateBadgeRequest struct {
	Title    string `json:"title" validate:"required,min=3,max=200"`
	Issuer   string `json:"issuer" validate:"required,max=200"`
	ImageURL string `json:"image_url" validate:"max=500"`
}

func CreateBadge() fiber.Handler {
	return validators.Body("validatedBadge", func(r *CreateBadgeRequest) {
		validators.Trim(&r.Title, &r.Issuer, &r.ImageURL)
	})
}
