package careerFairRoutes

import (
	careerFairControllers "careerlink/controllers/careerFair"
	careerFairValidators "careerlink/validators/careerFair"

	"github.com/gofiber/fiber/v2"
)

func SetupCareerFairRoutes(router fiber.Router, h *careerFairControllers.Handler, jwt fiber.Handler) {
	fairGroup := router.Group("/career-fair")

	fairGroup.Get("/events", careerFairValidators.ListEvents(), h.ListEvents)
	fairGroup.Get("/events/:id", careerFairValidators.ID(), h.EventDetail)
	fairGroup.Post("/follow", jwt, careerFairValidators.Follow(), h.FollowEvent)
	fairGroup.Get("/saved", jwt, h.SavedEvents)
	fairGroup.Post("/checkin", jwt, careerFairValidators.Follow(), h.CheckIn)
	fairGroup.Get("/booths", careerFairValidators.ListBooths(), h.ListBooths)
	fairGroup.Get("/booths/:id", careerFairValidators.ID(), h.BoothDetail)
	fairGroup.Get("/networking", h.Networking)
	fairGroup.Get("/notifications", h.Notifications)
}
