package adminController

import (
	"careerlink/middleware"
	"careerlink/services"
	adminValidator "careerlink/validators/admin"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	Auth *services.AuthService
}

func NewHandler(auth *services.AuthService) *Handler {
	return &Handler{Auth: auth}
}

func (h *Handler) UserList(c *fiber.Ctx) error {
	reqData := c.Locals("validatedUserList").(*adminValidator.UserListRequest)

	users, total, err := h.Auth.ListUsers(c.UserContext(), reqData.Role, reqData.Page, reqData.Limit)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	response := map[string]interface{}{
		"users": users,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  reqData.Page,
			"limit": reqData.Limit,
		},
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User List.", response)
}

func (h *Handler) SetRole(c *fiber.Ctx) error {
	reqData := c.Locals("validatedRole").(*adminValidator.SetRoleRequest)

	user, err := h.Auth.SetRole(c.UserContext(), c.Locals("targetUserID").(uint), reqData.Role)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Role updated!", user)
}
