package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/planora/planora/pkg/catalog"
	"github.com/planora/planora/pkg/llm"
)

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleListEvents returns the full catalog ordered by date, time and id,
// each event joined with its category.
func (s *Server) handleListEvents(c *fiber.Ctx) error {
	events, err := s.store.ListEventsWithCategory(c.UserContext())
	if err != nil {
		s.logger.Error("failed to list events", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{Error: "Failed to fetch events"})
	}
	if events == nil {
		events = []catalog.Event{}
	}

	return c.JSON(events)
}

// handleGetEvent returns a single event by id.
func (s *Server) handleGetEvent(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "id parameter required"})
	}

	event, err := s.getEvent(c, id)
	if err != nil {
		var nf catalog.NotFoundError
		if errors.As(err, &nf) {
			return c.Status(fiber.StatusNotFound).JSON(llm.ErrorResponse{Error: "event not found"})
		}
		s.logger.Error("failed to get event", "id", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{Error: "Failed to fetch events"})
	}

	return c.JSON(event)
}

func (s *Server) getEvent(c *fiber.Ctx, id string) (catalog.Event, error) {
	events, err := s.store.ListEventsWithCategory(c.UserContext())
	if err != nil {
		return catalog.Event{}, err
	}

	event, ok := catalog.Find(events, id)
	if !ok {
		return catalog.Event{}, catalog.NotFoundError{ID: id}
	}
	return event, nil
}
