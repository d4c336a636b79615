package middleware

import (
	"errors"

	"careerlink/domain"
	"careerlink/logs"

	"github.com/gofiber/fiber/v2"
)

// ConflictStatus is the HTTP status used for conflict errors.
var ConflictStatus = fiber.StatusBadRequest

func JsonResponse(c *fiber.Ctx, statusCode int, success bool, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"success": success,
		"message": message,
		"data":    data,
	})
}

// JsonResponseWith adds feature keys such as count or courseId next to data.
func JsonResponseWith(c *fiber.Ctx, statusCode int, message string, data interface{}, extra fiber.Map) error {
	body := fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	}
	for k, v := range extra {
		body[k] = v
	}
	return c.Status(statusCode).JSON(body)
}

func ValidationErrorResponse(c *fiber.Ctx, errs map[string]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": "Validation failed!",
		"errors":  errs,
	})
}

// StatusFor maps a domain error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrQuotaExceeded),
		errors.Is(err, domain.ErrSessionFull),
		errors.Is(err, domain.ErrBadgeNotConfigured),
		errors.Is(err, domain.ErrCourseNotCompleted):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return ConflictStatus
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorResponse writes err as a failure body. Unknown errors are logged and hidden.
func ErrorResponse(c *fiber.Ctx, err error) error {
	status := StatusFor(err)
	if status == fiber.StatusInternalServerError {
		logs.Logger.WithError(err).WithField("path", c.Path()).Error("request failed")
		return JsonResponse(c, status, false, "Internal server error", nil)
	}
	return JsonResponse(c, status, false, err.Error(), nil)
}
