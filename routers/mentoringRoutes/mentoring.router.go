package mentoringRoutes

import (
	mentoringControllers "careerlink/controllers/mentoring"
	"careerlink/middleware"
	"careerlink/models"
	mentoringValidators "careerlink/validators/mentoring"

	"github.com/gofiber/fiber/v2"
)

func SetupMentoringRoutes(router fiber.Router, h *mentoringControllers.Handler, jwt fiber.Handler) {
	mentoringGroup := router.Group("/mentoring", jwt)

	mentoringGroup.Get("/schedules", h.GetSchedules)
	mentoringGroup.Post("/schedules", middleware.RequireRole(models.RoleMentor, models.RoleAdmin), mentoringValidators.CreateSession(), h.CreateSchedule)
	mentoringGroup.Get("/schedules/:id", mentoringValidators.ID(), h.GetScheduleDetail)
	mentoringGroup.Post("/book", mentoringValidators.Book(), h.BookMentoring)
	mentoringGroup.Delete("/bookings/:id", mentoringValidators.ID(), h.CancelBooking)
	mentoringGroup.Get("/notifications", h.GetNotifications)
	mentoringGroup.Post("/notes", mentoringValidators.SaveNote(), h.SaveNote)
	mentoringGroup.Get("/notes/:bookingId", mentoringValidators.BookingID(), h.GetNote)
}
