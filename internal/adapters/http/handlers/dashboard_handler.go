package handlers

import (
	"clubportal/internal/adapters/http/middleware"
	"clubportal/internal/core/services"
	"clubportal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// GetDashboard returns the dashboard for the caller's account level
// @Summary Dashboard
// @Description Guests see their partner request, staff see the team and upcoming events, admins get the console
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /dashboard [get]
func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	session := middleware.GetSession(c)
	if session == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	data, err := h.dashboardService.ForSession(c.Context(), session)
	if err != nil {
		return writeError(c, err, "Failed to get dashboard")
	}

	return response.Success(c, "Dashboard retrieved successfully", data)
}

// GetConsole returns the admin console
// @Summary Admin console
// @Description Pending requests, current partners, team and member stats (Admin only)
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/console [get]
func (h *DashboardHandler) GetConsole(c *fiber.Ctx) error {
	data, err := h.dashboardService.Console(c.Context())
	if err != nil {
		return writeError(c, err, "Failed to get console")
	}

	return response.Success(c, "Console retrieved successfully", data)
}
