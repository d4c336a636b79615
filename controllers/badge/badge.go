package badgeController

import (
	"strings"

	"careerlink/middleware"
	"careerlink/services"
	badgeValidator "careerlink/validators/badge"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	Badges     *services.BadgeService
	Files      services.FileStore
	ImageTypes []string
}

func NewHandler(badges *services.BadgeService, files services.FileStore, imageTypes []string) *Handler {
	return &Handler{Badges: badges, Files: files, ImageTypes: imageTypes}
}

func (h *Handler) ListBadges(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	badges, err := h.Badges.ListForUser(c.UserContext(), userID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponseWith(c, fiber.StatusOK, "Badges fetched successfully!", badges, fiber.Map{"count": len(badges)})
}

// ScanQRCode claims the badge named by course_id or qr_token.
func (h *Handler) ScanQRCode(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)
	reqData := c.Locals("validatedScan").(*badgeValidator.ScanRequest)

	badge, err := h.Badges.Claim(c.UserContext(), userID, services.ClaimInput{
		CourseID: reqData.CourseID,
		QRToken:  reqData.QRToken,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Badge claimed successfully!", badge)
}

func (h *Handler) UploadBadge(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	file, err := c.FormFile("file")
	if err != nil {
		return middleware.ValidationErrorResponse(c, map[string]string{"file": "file is required!"})
	}

	url, err := h.Files.SaveUploadedFile(file, "file", h.ImageTypes)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	badge, err := h.Badges.Upload(c.UserContext(), userID, strings.TrimSpace(c.FormValue("title")), url)
	if err != nil {
		h.Files.Remove(url)
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Certificate uploaded successfully!", badge)
}

func (h *Handler) Stats(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	stats, err := h.Badges.Stats(c.UserContext(), userID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Badge stats fetched successfully!", stats)
}

// CreateBadge issues a one-off badge whose QR token can be claimed by a single user.
func (h *Handler) CreateBadge(c *fiber.Ctx) error {
	reqData := c.Locals("validatedBadge").(*badgeValidator.CreateBadgeRequest)

	badge, err := h.Badges.CreateTokenBadge(c.UserContext(), services.TokenBadgeInput{
		Title:    reqData.Title,
		Issuer:   reqData.Issuer,
		ImageURL: reqData.ImageURL,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponseWith(c, fiber.StatusCreated, "Badge created successfully!", badge, fiber.Map{"qr_token": *badge.QRToken})
}
