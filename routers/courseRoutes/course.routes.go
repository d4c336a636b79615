package courseRoutes

import (
	badgeControllers "careerlink/controllers/badge"
	controllers "careerlink/controllers/course"
	"careerlink/middleware"
	"careerlink/models"
	badgeValidators "careerlink/validators/badge"
	validators "careerlink/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up the course catalog, enrollment and course badge routes.
// Fixed paths are registered before /:courseId.
func SetupCourseRoutes(router fiber.Router, h *controllers.Handler, badges *badgeControllers.Handler, jwt fiber.Handler) {
	courseGroup := router.Group("/courses")
	manage := middleware.RequireRole(models.RoleAdmin, models.RoleInstructor)

	courseGroup.Get("/", validators.ListCourses(), h.ListCourses)
	courseGroup.Post("/", jwt, manage, validators.CreateCourse(), h.CreateCourse)
	courseGroup.Get("/recommended", validators.Recommended(), h.Recommended)
	courseGroup.Get("/admin/list", jwt, manage, h.AdminList)

	// Enrollment overview
	courseGroup.Get("/enrolled/list", jwt, h.GetEnrollments)
	courseGroup.Get("/stats/overview", jwt, h.Stats)
	courseGroup.Get("/recap/all", jwt, h.Recap)

	// Badges earned through courses
	courseGroup.Get("/badges/list", jwt, badges.ListBadges)
	courseGroup.Post("/badges/scan-qr", jwt, badgeValidators.Scan(), badges.ScanQRCode)
	courseGroup.Get("/badges/stats", jwt, badges.Stats)

	courseGroup.Get("/:courseId", validators.CourseID(), h.CourseDetail)
	courseGroup.Put("/:courseId", jwt, manage, validators.CourseID(), validators.UpdateCourse(), h.UpdateCourse)
	courseGroup.Delete("/:courseId", jwt, manage, validators.CourseID(), h.DeleteCourse)
	courseGroup.Post("/:courseId/enroll", jwt, validators.CourseID(), h.EnrollInCourse)
	courseGroup.Delete("/:courseId/unenroll", jwt, validators.CourseID(), h.Unenroll)
	courseGroup.Patch("/:courseId/enrollments/:userId/complete", jwt, manage, validators.CourseID(), validators.UserID(), h.CompleteEnrollment)
}
