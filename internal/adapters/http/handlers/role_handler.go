package handlers

import (
	"clubportal/internal/adapters/http/middleware"
	"clubportal/internal/core/services"
	"clubportal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RoleHandler handles the staff/admin role request workflow
type RoleHandler struct {
	roleService *services.RoleService
}

// NewRoleHandler creates a new role handler
func NewRoleHandler(roleService *services.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

// RoleRequest is the body of a role request
type RoleRequest struct {
	Role string `json:"role"`
}

// RequestRole lets a guest ask for staff or admin
// @Summary Request a role
// @Tags Roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RoleRequest true "Requested role (staff or admin)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /roles/request [post]
func (h *RoleHandler) RequestRole(c *fiber.Ctx) error {
	var req RoleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	account, err := h.roleService.RequestRole(c.Context(), middleware.GetActor(c), req.Role)
	if err != nil {
		return writeError(c, err, "Failed to request role")
	}

	return response.Success(c, "Role requested successfully", account)
}

// ListRequests lists accounts with a pending role request
// @Summary Pending role requests
// @Tags Roles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /roles/requests [get]
func (h *RoleHandler) ListRequests(c *fiber.Ctx) error {
	accounts, err := h.roleService.ListPendingRoleRequests(c.Context())
	if err != nil {
		return writeError(c, err, "Failed to list role requests")
	}

	return response.Success(c, "Role requests retrieved successfully", accounts)
}

// Approve grants the requested role
// @Summary Approve role request
// @Tags Roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Param body body VersionRequest false "Version the reviewer saw"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /roles/requests/{id}/approve [post]
func (h *RoleHandler) Approve(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid account ID")
	}

	account, err := h.roleService.ApproveRole(c.Context(), middleware.GetActor(c), id, expectedVersion(c))
	if err != nil {
		return writeError(c, err, "Failed to approve role request")
	}

	return response.Success(c, "Role request approved", account)
}

// Reject denies the requested role
// @Summary Reject role request
// @Tags Roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Param body body VersionRequest false "Version the reviewer saw"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /roles/requests/{id}/reject [post]
func (h *RoleHandler) Reject(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid account ID")
	}

	account, err := h.roleService.RejectRole(c.Context(), middleware.GetActor(c), id, expectedVersion(c))
	if err != nil {
		return writeError(c, err, "Failed to reject role request")
	}

	return response.Success(c, "Role request rejected", account)
}

// RemoveStaff demotes a staff member back to guest
// @Summary Remove staff
// @Tags Roles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /roles/staff/{id}/remove [post]
func (h *RoleHandler) RemoveStaff(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid account ID")
	}

	account, err := h.roleService.RemoveStaff(c.Context(), middleware.GetActor(c), id)
	if err != nil {
		return writeError(c, err, "Failed to remove staff")
	}

	return response.Success(c, "Staff removed", account)
}
