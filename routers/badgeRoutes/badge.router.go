package badgeRoutes

import (
	badgeControllers "careerlink/controllers/badge"
	"careerlink/middleware"
	"careerlink/models"
	badgeValidators "careerlink/validators/badge"

	"github.com/gofiber/fiber/v2"
)

func SetupBadgeRoutes(router fiber.Router, h *badgeControllers.Handler, jwt fiber.Handler) {
	badgeGroup := router.Group("/badges", jwt)

	badgeGroup.Get("/list", h.ListBadges)
	badgeGroup.Post("/scan-qr", badgeValidators.Scan(), h.ScanQRCode)
	badgeGroup.Post("/upload", h.UploadBadge)
	badgeGroup.Get("/stats", h.Stats)
	badgeGroup.Post("/", middleware.RequireRole(models.RoleAdmin), badgeValidators.CreateBadge(), h.CreateBadge)
}
