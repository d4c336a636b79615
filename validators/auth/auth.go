package authValidator

import (
	"strings"

	"careerlink/validators"

	"github.com/gofiber/fiber/v2"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=student instructor recruiter mentor"`
}

// Register validator middleware
func Register() fiber.Handler {
	return validators.Body("validatedRegister", func(r *RegisterRequest) {
		validators.Trim(&r.Name, &r.Email, &r.Role)
		r.Email = strings.ToLower(r.Email)
	})
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login validator middleware
func Login() fiber.Handler {
	return validators.Body("validatedLogin", func(r *LoginRequest) {
		validators.Trim(&r.Email)
		r.Email = strings.ToLower(r.Email)
	})
}

type FCMTokenRequest struct {
	FCMToken string `json:"fcm_token" validate:"required,max=512"`
}

func UpdateFCMToken() fiber.Handler {
	return validators.Body("validatedFCMToken", func(r *FCMTokenRequest) {
		validators.Trim(&r.FCMToken)
	})
}

type LoginHistoryRequest struct {
	Page  int `query:"page" validate:"min=1"`
	Limit int `query:"limit" validate:"min=1,max=100"`
}

// LoginHistoryList validates pagination, defaulting to page 1 of 10.
func LoginHistoryList() fiber.Handler {
	return validators.Query("validatedLoginHistory", func(r *LoginHistoryRequest) {
		if r.Page == 0 {
			r.Page = 1
		}
		if r.Limit == 0 {
			r.Limit = 10
		}
	})
}
