package courseController

import (
	"careerlink/middleware"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) EnrollInCourse(c *fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	enrollment, err := h.Enrollments.Enroll(c.UserContext(), userID, c.Locals("courseID").(uint))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponseWith(c, fiber.StatusCreated, "Enrolled in course successfully!", enrollment, fiber.Map{"enrollmentId": enrollment.ID})
}

func (h *Handler) Unenroll(c *fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	enrollment, err := h.Enrollments.Unenroll(c.UserContext(), userID, c.Locals("courseID").(uint))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment cancelled successfully!", enrollment)
}

// CompleteEnrollment marks another user's enrollment as completed.
func (h *Handler) CompleteEnrollment(c *fiber.Ctx) error {
	enrollment, err := h.Enrollments.Complete(c.UserContext(), c.Locals("courseID").(uint), c.Locals("targetUserID").(uint))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment marked as completed!", enrollment)
}

func (h *Handler) GetEnrollments(c *fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	enrollments, err := h.Enrollments.ListForUser(c.UserContext(), userID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponseWith(c, fiber.StatusOK, "Enrollments fetched successfully!", enrollments, fiber.Map{"count": len(enrollments)})
}

func (h *Handler) Stats(c *fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	stats, err := h.Enrollments.Stats(c.UserContext(), userID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course stats fetched successfully!", stats)
}

func (h *Handler) Recap(c *fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	recap, err := h.Enrollments.Recap(c.UserContext(), userID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponseWith(c, fiber.StatusOK, "Course recap fetched successfully!", recap, fiber.Map{"count": len(recap)})
}
