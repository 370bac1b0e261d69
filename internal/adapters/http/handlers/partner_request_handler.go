package handlers

import (
	"clubportal/internal/adapters/http/middleware"
	"clubportal/internal/core/services"
	"clubportal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PartnerRequestHandler handles partner applications
type PartnerRequestHandler struct {
	requestService *services.PartnerRequestService
}

// NewPartnerRequestHandler creates a new partner request handler
func NewPartnerRequestHandler(requestService *services.PartnerRequestService) *PartnerRequestHandler {
	return &PartnerRequestHandler{requestService: requestService}
}

// Submit creates or overwrites the caller's partner request
// @Summary Submit partner request
// @Tags Partner Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.PartnerRequestInput true "Application"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /partner-requests [post]
func (h *PartnerRequestHandler) Submit(c *fiber.Ctx) error {
	var req services.PartnerRequestInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.requestService.Submit(c.Context(), middleware.GetActor(c), &req)
	if err != nil {
		return writeError(c, err, "Failed to submit partner request")
	}

	return response.Success(c, "Partner request submitted", result)
}

// GetMine returns the caller's partner request
// @Summary My partner request
// @Tags Partner Requests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /partner-requests/me [get]
func (h *PartnerRequestHandler) GetMine(c *fiber.Ctx) error {
	session := middleware.GetSession(c)
	if session == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	result, err := h.requestService.GetMine(c.Context(), session.AccountID)
	if err != nil {
		return writeError(c, err, "Failed to get partner request")
	}

	return response.Success(c, "Partner request retrieved successfully", result)
}

// List returns partner requests filtered by status
// @Summary List partner requests
// @Tags Partner Requests
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, approved or rejected"
// @Success 200 {object} response.Response
// @Router /admin/partner-requests [get]
func (h *PartnerRequestHandler) List(c *fiber.Ctx) error {
	result, err := h.requestService.ListByStatus(c.Context(), c.Query("status"))
	if err != nil {
		return writeError(c, err, "Failed to list partner requests")
	}

	return response.Success(c, "Partner requests retrieved successfully", result)
}

// Approve approves a pending partner request
// @Summary Approve partner request
// @Tags Partner Requests
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/partner-requests/{id}/approve [post]
func (h *PartnerRequestHandler) Approve(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid request ID")
	}

	result, err := h.requestService.Approve(c.Context(), middleware.GetActor(c), id)
	if err != nil {
		return writeError(c, err, "Failed to approve partner request")
	}

	return response.Success(c, "Partner request approved", result)
}

// Reject rejects a pending partner request
// @Summary Reject partner request
// @Tags Partner Requests
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/partner-requests/{id}/reject [post]
func (h *PartnerRequestHandler) Reject(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid request ID")
	}

	result, err := h.requestService.Reject(c.Context(), middleware.GetActor(c), id)
	if err != nil {
		return writeError(c, err, "Failed to reject partner request")
	}

	return response.Success(c, "Partner request rejected", result)
}
