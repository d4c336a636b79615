package adminValidator

import (
	"careerlink/validators"

	"github.com/gofiber/fiber/v2"
)

type UserListRequest struct {
	Role  string `query:"role" validate:"omitempty,oneof=student admin instructor recruiter mentor"`
	Page  int    `query:"page" validate:"min=1"`
	Limit int    `query:"limit" validate:"min=1,max=100"`
}

func List() fiber.Handler {
	return validators.Query("validatedUserList", func(r *UserListRequest) {
		validators.Trim(&r.Role)
		if r.Page == 0 {
			r.Page = 1
		}
		if r.Limit == 0 {
			r.Limit = 20
		}
	})
}

type SetRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=student admin instructor recruiter mentor"`
}

func SetRole() fiber.Handler {
	return validators.Body("validatedRole", func(r *SetRoleRequest) {
		validators.Trim(&r.Role)
	})
}

func UserID() fiber.Handler {
	return validators.ParamID("id", "targetUserID")
}
