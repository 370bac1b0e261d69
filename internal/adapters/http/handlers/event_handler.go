package handlers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"clubportal/internal/adapters/http/middleware"
	"clubportal/internal/core/services"
	"clubportal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// EventHandler handles events and interest marks
type EventHandler struct {
	eventService *services.EventService
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService *services.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// EventForm is the multipart event form; dates are RFC3339 or YYYY-MM-DD
type EventForm struct {
	Title        string `form:"title"`
	Organization string `form:"organization"`
	Location     string `form:"location"`
	StartDate    string `form:"start_date"`
	EndDate      string `form:"end_date"`
	Description  string `form:"description"`
	SignUpLink   string `form:"sign_up"`
	IsFree       string `form:"is_free"`
	Cost         string `form:"cost"`
}

var errBadDate = errors.New("dates must be RFC3339 or YYYY-MM-DD")

func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, errBadDate
}

func (f *EventForm) toInput() (*services.EventInput, error) {
	start, err := parseDate(f.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(f.EndDate)
	if err != nil {
		return nil, err
	}

	// Unset is_free is free on create and unchanged on update
	var isFree *bool
	if strings.TrimSpace(f.IsFree) != "" {
		v, err := strconv.ParseBool(f.IsFree)
		if err != nil {
			return nil, errors.New("is_free must be true or false")
		}
		isFree = &v
	}

	input := &services.EventInput{
		Title:        f.Title,
		Organization: f.Organization,
		Location:     f.Location,
		EndDate:      end,
		Description:  f.Description,
		SignUpLink:   f.SignUpLink,
		IsFree:       isFree,
		Cost:         f.Cost,
	}
	if start != nil {
		input.StartDate = *start
	}
	return input, nil
}

func (h *EventHandler) parseForm(c *fiber.Ctx) (*services.EventInput, services.EventImages, error) {
	var form EventForm
	if err := c.BodyParser(&form); err != nil {
		return nil, services.EventImages{}, errors.New("invalid request body")
	}
	input, err := form.toInput()
	if err != nil {
		return nil, services.EventImages{}, err
	}
	return input, services.EventImages{
		Flyer: formFile(c, "image"),
		Cover: formFile(c, "cover"),
	}, nil
}

// ListPublic returns active events, marking the viewer's interest when signed in
// @Summary List events
// @Tags Events
// @Produce json
// @Success 200 {object} response.Response
// @Router /events [get]
func (h *EventHandler) ListPublic(c *fiber.Ctx) error {
	events, err := h.eventService.ListPublic(c.Context(), middleware.GetSession(c))
	if err != nil {
		return writeError(c, err, "Failed to list events")
	}

	return response.Success(c, "Events retrieved successfully", events)
}

// Get returns one event
// @Summary Get event
// @Tags Events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /events/{id} [get]
func (h *EventHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid event ID")
	}

	event, err := h.eventService.Get(c.Context(), id, middleware.GetSession(c))
	if err != nil {
		return writeError(c, err, "Failed to get event")
	}

	return response.Success(c, "Event retrieved successfully", event)
}

// MarkInterested marks the caller as interested
// @Summary Mark interest
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} response.Response
// @Router /events/{id}/interest [post]
func (h *EventHandler) MarkInterested(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid event ID")
	}

	event, err := h.eventService.MarkInterested(c.Context(), middleware.GetSession(c), id)
	if err != nil {
		return writeError(c, err, "Failed to mark interest")
	}

	return response.Success(c, "Marked as interested", event)
}

// UnmarkInterested removes the caller's interest mark
// @Summary Remove interest
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} response.Response
// @Router /events/{id}/interest [delete]
func (h *EventHandler) UnmarkInterested(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid event ID")
	}

	event, err := h.eventService.UnmarkInterested(c.Context(), middleware.GetSession(c), id)
	if err != nil {
		return writeError(c, err, "Failed to remove interest")
	}

	return response.Success(c, "Interest removed", event)
}

// List returns events of any status
// @Summary List events (admin)
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Param status query string false "active or suspended"
// @Success 200 {object} response.Response
// @Router /admin/events [get]
func (h *EventHandler) List(c *fiber.Ctx) error {
	events, err := h.eventService.List(c.Context(), c.Query("status"))
	if err != nil {
		return writeError(c, err, "Failed to list events")
	}

	return response.Success(c, "Events retrieved successfully", events)
}

// Create adds an event with its flyer and cover images
// @Summary Create event
// @Tags Events
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param start_date formData string true "Start date"
// @Param end_date formData string false "End date"
// @Param is_free formData bool false "Free event"
// @Param cost formData string false "Cost when not free"
// @Param image formData file true "Flyer image"
// @Param cover formData file true "Cover image"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /admin/events [post]
func (h *EventHandler) Create(c *fiber.Ctx) error {
	input, images, err := h.parseForm(c)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	event, err := h.eventService.Create(c.Context(), middleware.GetActor(c), input, images)
	if err != nil {
		return writeError(c, err, "Failed to create event")
	}

	return response.Created(c, "Event created successfully", event)
}

// Update edits an event; each image is replaced only when a new file is sent
// @Summary Update event
// @Tags Events
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param is_free formData bool false "Free event; omit to keep current pricing"
// @Param image formData file false "Flyer image"
// @Param cover formData file false "Cover image"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/events/{id} [put]
func (h *EventHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid event ID")
	}

	input, images, err := h.parseForm(c)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	event, err := h.eventService.Update(c.Context(), middleware.GetActor(c), id, input, images)
	if err != nil {
		return writeError(c, err, "Failed to update event")
	}

	return response.Success(c, "Event updated successfully", event)
}

// SetStatus activates or suspends an event
// @Summary Set event status
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param body body StatusRequest true "active or suspended"
// @Success 200 {object} response.Response
// @Router /admin/events/{id}/status [patch]
func (h *EventHandler) SetStatus(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid event ID")
	}

	var req StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	event, err := h.eventService.SetStatus(c.Context(), middleware.GetActor(c), id, req.Status)
	if err != nil {
		return writeError(c, err, "Failed to update event status")
	}

	return response.Success(c, "Event status updated", event)
}

// Delete removes an event
// @Summary Delete event
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} response.Response
// @Router /admin/events/{id} [delete]
func (h *EventHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid event ID")
	}

	if err := h.eventService.Delete(c.Context(), middleware.GetActor(c), id); err != nil {
		return writeError(c, err, "Failed to delete event")
	}

	return response.Success(c, "Event deleted successfully", nil)
}
