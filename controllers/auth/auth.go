package authController

import (
	"careerlink/middleware"
	"careerlink/services"
	authValidator "careerlink/validators/auth"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	Auth       *services.AuthService
	Files      services.FileStore
	PhotoTypes []string
}

func NewHandler(auth *services.AuthService, files services.FileStore, photoTypes []string) *Handler {
	return &Handler{Auth: auth, Files: files, PhotoTypes: photoTypes}
}

func (h *Handler) Register(c *fiber.Ctx) error {
	reqData := c.Locals("validatedRegister").(*authValidator.RegisterRequest)

	user, err := h.Auth.Register(c.UserContext(), services.RegisterInput{
		Name:     reqData.Name,
		Email:    reqData.Email,
		Password: reqData.Password,
		Role:     reqData.Role,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Registration successful!", user)
}

func (h *Handler) Login(c *fiber.Ctx) error {
	reqData := c.Locals("validatedLogin").(*authValidator.LoginRequest)

	result, err := h.Auth.Login(c.UserContext(), reqData.Email, reqData.Password, c.IP(), c.Get(fiber.HeaderUserAgent))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponseWith(c, fiber.StatusOK, "Login successful!", result, fiber.Map{"token": result.Token})
}

func (h *Handler) Me(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	user, err := h.Auth.Me(c.UserContext(), userID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched successfully!", user)
}

func (h *Handler) UpdateFCMToken(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)
	reqData := c.Locals("validatedFCMToken").(*authValidator.FCMTokenRequest)

	if err := h.Auth.UpdateFCMToken(c.UserContext(), userID, reqData.FCMToken); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Push token updated!", nil)
}

func (h *Handler) LoginHistoryList(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)
	reqData := c.Locals("validatedLoginHistory").(*authValidator.LoginHistoryRequest)

	items, total, err := h.Auth.LoginHistory(c.UserContext(), userID, reqData.Page, reqData.Limit)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	response := map[string]interface{}{
		"history": items,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  reqData.Page,
			"limit": reqData.Limit,
		},
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login history fetched successfully!", response)
}

// UpdateProfile takes a multipart form with an optional name and photo.
func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	var photoURL string
	if photo, err := c.FormFile("photo"); err == nil {
		photoURL, err = h.Files.SaveUploadedFile(photo, "photo", h.PhotoTypes)
		if err != nil {
			return middleware.ErrorResponse(c, err)
		}
	}

	user, err := h.Auth.UpdateProfile(c.UserContext(), userID, c.FormValue("name"), photoURL)
	if err != nil {
		if photoURL != "" {
			h.Files.Remove(photoURL)
		}
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated successfully!", user)
}
