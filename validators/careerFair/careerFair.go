package careerFairValidator

import (
	"careerlink/validators"

	"github.com/gofiber/fiber/v2"
)

type EventRequest struct {
	EventID uint `json:"event_id" validate:"required,min=1"`
}

// Follow also serves check-in; both take only an event id.
func Follow() fiber.Handler {
	return validators.Body[EventRequest]("validatedEvent", nil)
}

type ListEventsRequest struct {
	Upcoming bool `query:"upcoming"`
}

func ListEvents() fiber.Handler {
	return validators.Query[ListEventsRequest]("validatedEventList", nil)
}

type ListBoothsRequest struct {
	EventID uint `query:"event_id"`
}

func ListBooths() fiber.Handler {
	return validators.Query[ListBoothsRequest]("validatedBoothList", nil)
}

func ID() fiber.Handler {
	return validators.ParamID("id", "id")
}
