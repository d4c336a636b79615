package mentoringController

import (
	"careerlink/middleware"
	"careerlink/services"
	mentoringValidator "careerlink/validators/mentoring"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	Mentoring *services.MentoringService
}

func NewHandler(mentoring *services.MentoringService) *Handler {
	return &Handler{Mentoring: mentoring}
}

func (h *Handler) GetSchedules(c *fiber.Ctx) error {
	sessions, err := h.Mentoring.ListSessions(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponseWith(c, fiber.StatusOK, "Mentoring schedules fetched successfully!", sessions, fiber.Map{"count": len(sessions)})
}

func (h *Handler) GetScheduleDetail(c *fiber.Ctx) error {
	session, err := h.Mentoring.GetSession(c.UserContext(), c.Locals("id").(uint))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Mentoring schedule fetched successfully!", session)
}

func (h *Handler) CreateSchedule(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)
	reqData := c.Locals("validatedSession").(*mentoringValidator.CreateSessionRequest)

	session, err := h.Mentoring.CreateSession(c.UserContext(), userID, services.SessionInput{
		Title:           reqData.Title,
		MentorJob:       reqData.MentorJob,
		Description:     reqData.Description,
		Platform:        reqData.Platform,
		DurationMinutes: reqData.DurationMinutes,
		TimeZone:        reqData.TimeZone,
		StartAt:         reqData.StartAt,
		LocationName:    reqData.LocationName,
		LocationAddress: reqData.LocationAddress,
		LocationLat:     reqData.LocationLat,
		LocationLng:     reqData.LocationLng,
		Capacity:        reqData.Capacity,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Mentoring schedule created successfully!", session)
}

func (h *Handler) BookMentoring(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)
	reqData := c.Locals("validatedBooking").(*mentoringValidator.BookRequest)

	booking, err := h.Mentoring.Book(c.UserContext(), userID, services.BookInput{
		SessionID:    reqData.SessionID,
		FullName:     reqData.FullName,
		BirthDate:    reqData.BirthDate,
		Gender:       reqData.Gender,
		Education:    reqData.Education,
		StudyProgram: reqData.StudyProgram,
		Phone:        reqData.Phone,
		Expectation:  reqData.Expectation,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponseWith(c, fiber.StatusCreated, "Mentoring booked successfully!", booking, fiber.Map{"bookingId": booking.ID})
}

func (h *Handler) CancelBooking(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	booking, err := h.Mentoring.CancelBooking(c.UserContext(), userID, c.Locals("id").(uint))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Booking cancelled successfully!", booking)
}

func (h *Handler) GetNotifications(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	items, err := h.Mentoring.Notifications(c.UserContext(), userID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponseWith(c, fiber.StatusOK, "Notifications fetched successfully!", items, fiber.Map{"count": len(items)})
}

func (h *Handler) SaveNote(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)
	reqData := c.Locals("validatedNote").(*mentoringValidator.NoteRequest)

	note, err := h.Mentoring.SaveNote(c.UserContext(), userID, services.NoteInput{
		BookingID:   reqData.BookingID,
		Content:     reqData.Content,
		Attachments: reqData.Attachments,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Note saved successfully!", note)
}

func (h *Handler) GetNote(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	note, err := h.Mentoring.GetNote(c.UserContext(), userID, c.Locals("bookingID").(uint))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Note fetched successfully!", note)
}
