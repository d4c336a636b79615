package adminRoutes

import (
	adminController "careerlink/controllers/admin"
	"careerlink/middleware"
	"careerlink/models"
	adminValidator "careerlink/validators/admin"

	"github.com/gofiber/fiber/v2"
)

func SetupAdminRoutes(router fiber.Router, h *adminController.Handler, jwt fiber.Handler) {
	adminGroup := router.Group("/admin", jwt, middleware.RequireRole(models.RoleAdmin))

	adminGroup.Get("/users", adminValidator.List(), h.UserList)
	adminGroup.Patch("/users/:id/role", adminValidator.UserID(), adminValidator.SetRole(), h.SetRole)
}
