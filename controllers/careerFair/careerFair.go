package careerFairController

import (
	"careerlink/middleware"
	"careerlink/services"
	careerFairValidator "careerlink/validators/careerFair"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	Fair *services.CareerFairService
}

func NewHandler(fair *services.CareerFairService) *Handler {
	return &Handler{Fair: fair}
}

func (h *Handler) ListEvents(c *fiber.Ctx) error {
	reqData := c.Locals("validatedEventList").(*careerFairValidator.ListEventsRequest)

	events, err := h.Fair.Events(c.UserContext(), reqData.Upcoming)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponseWith(c, fiber.StatusOK, "Events fetched successfully!", events, fiber.Map{"count": len(events)})
}

func (h *Handler) EventDetail(c *fiber.Ctx) error {
	event, err := h.Fair.Event(c.UserContext(), c.Locals("id").(uint))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Event fetched successfully!", event)
}

func (h *Handler) FollowEvent(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)
	reqData := c.Locals("validatedEvent").(*careerFairValidator.EventRequest)

	if err := h.Fair.Follow(c.UserContext(), userID, reqData.EventID); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Event followed successfully!", nil)
}

func (h *Handler) SavedEvents(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	events, err := h.Fair.Saved(c.UserContext(), userID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponseWith(c, fiber.StatusOK, "Saved events fetched successfully!", events, fiber.Map{"count": len(events)})
}

func (h *Handler) CheckIn(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)
	reqData := c.Locals("validatedEvent").(*careerFairValidator.EventRequest)

	checkin, err := h.Fair.CheckIn(c.UserContext(), userID, reqData.EventID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Checked in successfully!", checkin)
}

func (h *Handler) ListBooths(c *fiber.Ctx) error {
	reqData := c.Locals("validatedBoothList").(*careerFairValidator.ListBoothsRequest)

	booths, err := h.Fair.Booths(c.UserContext(), reqData.EventID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponseWith(c, fiber.StatusOK, "Booths fetched successfully!", booths, fiber.Map{"count": len(booths)})
}

func (h *Handler) BoothDetail(c *fiber.Ctx) error {
	booth, err := h.Fair.Booth(c.UserContext(), c.Locals("id").(uint))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Booth fetched successfully!", booth)
}

func (h *Handler) Networking(c *fiber.Ctx) error {
	contacts, err := h.Fair.Networking(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponseWith(c, fiber.StatusOK, "Contacts fetched successfully!", contacts, fiber.Map{"count": len(contacts)})
}

func (h *Handler) Notifications(c *fiber.Ctx) error {
	items, err := h.Fair.PublicNotifications(c.UserContext(), c.QueryInt("limit", 50))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponseWith(c, fiber.StatusOK, "Notifications fetched successfully!", items, fiber.Map{"count": len(items)})
}
