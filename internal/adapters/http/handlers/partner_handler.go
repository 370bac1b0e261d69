package handlers

import (
	"clubportal/internal/adapters/http/middleware"
	"clubportal/internal/core/services"
	"clubportal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PartnerHandler handles the partner directory
type PartnerHandler struct {
	partnerService *services.PartnerService
}

// NewPartnerHandler creates a new partner handler
func NewPartnerHandler(partnerService *services.PartnerService) *PartnerHandler {
	return &PartnerHandler{partnerService: partnerService}
}

// StatusRequest is the body of a status toggle
type StatusRequest struct {
	Status string `json:"status"`
}

// ListPublic returns active partners
// @Summary Partner directory
// @Tags Partners
// @Produce json
// @Success 200 {object} response.Response
// @Router /partners [get]
func (h *PartnerHandler) ListPublic(c *fiber.Ctx) error {
	partners, err := h.partnerService.ListPublic(c.Context())
	if err != nil {
		return writeError(c, err, "Failed to list partners")
	}

	return response.Success(c, "Partners retrieved successfully", partners)
}

// Get returns one partner
// @Summary Get partner
// @Tags Partners
// @Produce json
// @Param id path int true "Partner ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /partners/{id} [get]
func (h *PartnerHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid partner ID")
	}

	partner, err := h.partnerService.Get(c.Context(), id, middleware.GetSession(c))
	if err != nil {
		return writeError(c, err, "Failed to get partner")
	}

	return response.Success(c, "Partner retrieved successfully", partner)
}

// List returns partners of any status
// @Summary List partners (admin)
// @Tags Partners
// @Produce json
// @Security BearerAuth
// @Param status query string false "active or suspended"
// @Success 200 {object} response.Response
// @Router /admin/partners [get]
func (h *PartnerHandler) List(c *fiber.Ctx) error {
	partners, err := h.partnerService.List(c.Context(), c.Query("status"))
	if err != nil {
		return writeError(c, err, "Failed to list partners")
	}

	return response.Success(c, "Partners retrieved successfully", partners)
}

// Create adds a partner with its logo
// @Summary Create partner
// @Tags Partners
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param website_link formData string false "Website"
// @Param group_description formData string false "Description"
// @Param org_head formData string false "Organization head"
// @Param logo formData file true "Logo image"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /admin/partners [post]
func (h *PartnerHandler) Create(c *fiber.Ctx) error {
	var req services.PartnerInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	partner, err := h.partnerService.Create(c.Context(), middleware.GetActor(c), &req, formFile(c, "logo"))
	if err != nil {
		return writeError(c, err, "Failed to create partner")
	}

	return response.Created(c, "Partner created successfully", partner)
}

// Update edits a partner; the logo is replaced only when a new file is sent
// @Summary Update partner
// @Tags Partners
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Partner ID"
// @Param title formData string true "Title"
// @Param website_link formData string false "Website"
// @Param group_description formData string false "Description"
// @Param org_head formData string false "Organization head"
// @Param logo formData file false "Logo image"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/partners/{id} [put]
func (h *PartnerHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid partner ID")
	}

	var req services.PartnerInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	partner, err := h.partnerService.Update(c.Context(), middleware.GetActor(c), id, &req, formFile(c, "logo"))
	if err != nil {
		return writeError(c, err, "Failed to update partner")
	}

	return response.Success(c, "Partner updated successfully", partner)
}

// SetStatus activates or suspends a partner
// @Summary Set partner status
// @Tags Partners
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Partner ID"
// @Param body body StatusRequest true "active or suspended"
// @Success 200 {object} response.Response
// @Router /admin/partners/{id}/status [patch]
func (h *PartnerHandler) SetStatus(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid partner ID")
	}

	var req StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	partner, err := h.partnerService.SetStatus(c.Context(), middleware.GetActor(c), id, req.Status)
	if err != nil {
		return writeError(c, err, "Failed to update partner status")
	}

	return response.Success(c, "Partner status updated", partner)
}

// Delete removes a partner
// @Summary Delete partner
// @Tags Partners
// @Produce json
// @Security BearerAuth
// @Param id path int true "Partner ID"
// @Success 200 {object} response.Response
// @Router /admin/partners/{id} [delete]
func (h *PartnerHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid partner ID")
	}

	if err := h.partnerService.Delete(c.Context(), middleware.GetActor(c), id); err != nil {
		return writeError(c, err, "Failed to delete partner")
	}

	return response.Success(c, "Partner deleted successfully", nil)
}
