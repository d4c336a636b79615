package jobRoutes

import (
	jobControllers "careerlink/controllers/job"
	"careerlink/middleware"
	"careerlink/models"
	jobValidators "careerlink/validators/job"

	"github.com/gofiber/fiber/v2"
)

func SetupJobRoutes(router fiber.Router, h *jobControllers.Handler, jwt fiber.Handler) {
	jobGroup := router.Group("/jobs")

	jobGroup.Get("/", jobValidators.ListJobs(), h.ListJobs)
	jobGroup.Get("/history/my-applications", jwt, h.MyApplications)
	jobGroup.Get("/history/detail/:applicationId", jwt, jobValidators.ApplicationID(), h.ApplicationDetail)
	jobGroup.Post("/", jwt, middleware.RequireRole(models.RoleAdmin, models.RoleRecruiter), jobValidators.CreateJob(), h.CreateJob)
	jobGroup.Get("/:id", jobValidators.JobID(), h.JobDetail)
	jobGroup.Post("/:id/apply", jwt, jobValidators.JobID(), h.Apply)
}
