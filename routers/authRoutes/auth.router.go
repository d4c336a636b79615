package authRoutes

import (
	authControllers "careerlink/controllers/auth"
	authValidators "careerlink/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(router fiber.Router, h *authControllers.Handler, jwt fiber.Handler) {
	authGroup := router.Group("/auth")

	authGroup.Post("/register", authValidators.Register(), h.Register)
	authGroup.Post("/login", authValidators.Login(), h.Login)
	authGroup.Get("/me", jwt, h.Me)
	authGroup.Put("/profile", jwt, h.UpdateProfile)
	authGroup.Put("/fcm-token", jwt, authValidators.UpdateFCMToken(), h.UpdateFCMToken)
	authGroup.Get("/login/history", jwt, authValidators.LoginHistoryList(), h.LoginHistoryList)
}
