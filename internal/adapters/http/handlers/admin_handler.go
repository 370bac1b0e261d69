package handlers

import (
	"fmt"
	"time"

	"clubportal/internal/adapters/http/middleware"
	"clubportal/internal/core/services"
	"clubportal/internal/pkg/pagination"
	"clubportal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AdminHandler handles member management and the activity log
type AdminHandler struct {
	memberService   *services.MemberService
	activityService *services.ActivityService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(memberService *services.MemberService, activityService *services.ActivityService) *AdminHandler {
	return &AdminHandler{
		memberService:   memberService,
		activityService: activityService,
	}
}

// LevelRequest is the body of an account level change
type LevelRequest struct {
	Level   string `json:"level"`
	Version uint   `json:"version"`
}

// ListMembers lists accounts
// @Summary List members
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param search query string false "Name, email or level"
// @Param level query string false "guest, staff, admin or partner"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response
// @Router /admin/members [get]
func (h *AdminHandler) ListMembers(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	members, total, err := h.memberService.List(c.Context(), c.Query("search"), c.Query("level"), params.Offset, params.Limit)
	if err != nil {
		return writeError(c, err, "Failed to list members")
	}

	return response.Paginated(c, "Members retrieved successfully", members, params, total)
}

// Stats returns the member breakdown by level
// @Summary Member stats
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /admin/members/stats [get]
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.memberService.Stats(c.Context())
	if err != nil {
		return writeError(c, err, "Failed to get member stats")
	}

	return response.Success(c, "Member stats retrieved successfully", stats)
}

// SetLevel sets an account level directly
// @Summary Set account level
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Param body body LevelRequest true "New level and the version the admin saw"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/members/{id}/level [put]
func (h *AdminHandler) SetLevel(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid account ID")
	}

	var req LevelRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	account, err := h.memberService.SetLevel(c.Context(), middleware.GetActor(c), id, req.Level, req.Version)
	if err != nil {
		return writeError(c, err, "Failed to set account level")
	}

	return response.Success(c, "Account level updated", account)
}

// DeleteMember removes an account
// @Summary Delete member
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/members/{id} [delete]
func (h *AdminHandler) DeleteMember(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid account ID")
	}

	if err := h.memberService.Delete(c.Context(), middleware.GetActor(c), id); err != nil {
		return writeError(c, err, "Failed to delete member")
	}

	return response.Success(c, "Member deleted successfully", nil)
}

// ExportMembers downloads the member list as a spreadsheet
// @Summary Export members
// @Tags Admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param search query string false "Name, email or level"
// @Param level query string false "guest, staff, admin or partner"
// @Success 200 {file} file
// @Router /admin/members/export [get]
func (h *AdminHandler) ExportMembers(c *fiber.Ctx) error {
	buf, err := h.memberService.ExportXLSX(c.Context(), c.Query("search"), c.Query("level"))
	if err != nil {
		return writeError(c, err, "Failed to export members")
	}

	filename := fmt.Sprintf("members-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(buf.Bytes())
}

// ListActivity returns the workflow history
// @Summary Activity log
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param subject_type query string false "account, partner_request, partner or event"
// @Param subject_id query int false "Subject ID"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response
// @Router /admin/activity [get]
func (h *AdminHandler) ListActivity(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	subjectID := c.QueryInt("subject_id", 0)
	if subjectID < 0 {
		return response.BadRequest(c, "Invalid subject ID")
	}

	logs, total, err := h.activityService.List(c.Context(), c.Query("subject_type"), uint(subjectID), params.Offset, params.Limit)
	if err != nil {
		return writeError(c, err, "Failed to list activity")
	}

	return response.Paginated(c, "Activity retrieved successfully", logs, params, total)
}
