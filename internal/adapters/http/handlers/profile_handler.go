package handlers

import (
	"errors"

	"clubportal/internal/adapters/http/middleware"
	"clubportal/internal/core/services"
	"clubportal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ProfileHandler handles the caller's own profile and the team page
type ProfileHandler struct {
	accountService *services.AccountService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(accountService *services.AccountService) *ProfileHandler {
	return &ProfileHandler{accountService: accountService}
}

// GetProfile returns the caller's profile
// @Summary Get profile
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /profile [get]
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	session := middleware.GetSession(c)
	if session == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	account, err := h.accountService.GetProfile(c.Context(), session.AccountID)
	if err != nil {
		return writeError(c, err, "Failed to get profile")
	}

	return response.Success(c, "Profile retrieved successfully", account)
}

// UpdateProfile updates the caller's self-editable fields
// @Summary Update profile
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.UpdateProfileInput true "Profile fields"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /profile [put]
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	session := middleware.GetSession(c)
	if session == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req services.UpdateProfileInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	account, err := h.accountService.UpdateProfile(c.Context(), session.AccountID, &req)
	if err != nil {
		return writeError(c, err, "Failed to update profile")
	}

	return response.Success(c, "Profile updated successfully", account)
}

// ChangePassword changes the caller's password
// @Summary Change password
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.ChangePasswordInput true "Old and new password"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /profile/password [put]
func (h *ProfileHandler) ChangePassword(c *fiber.Ctx) error {
	session := middleware.GetSession(c)
	if session == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req services.ChangePasswordInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		return response.BadRequest(c, "Old and new password are required")
	}

	if err := h.accountService.ChangePassword(c.Context(), session.AccountID, &req); err != nil {
		if errors.Is(err, services.ErrOldPasswordWrong) {
			return response.BadRequest(c, "Old password is incorrect")
		}
		return writeError(c, err, "Failed to change password")
	}

	return response.Success(c, "Password changed successfully", nil)
}

// UploadPicture replaces the caller's profile picture
// @Summary Upload profile picture
// @Tags Profile
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param picture formData file true "Image file"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 413 {object} response.Response
// @Router /profile/picture [post]
func (h *ProfileHandler) UploadPicture(c *fiber.Ctx) error {
	session := middleware.GetSession(c)
	if session == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	file := formFile(c, "picture")
	if file == nil {
		return response.BadRequest(c, "Picture file is required")
	}

	account, err := h.accountService.UpdatePicture(c.Context(), session.AccountID, file)
	if err != nil {
		return writeError(c, err, "Failed to upload picture")
	}

	return response.Success(c, "Profile picture updated successfully", account)
}

// ListTeam returns staff and admins
// @Summary Team page
// @Tags Profile
// @Produce json
// @Success 200 {object} response.Response
// @Router /team [get]
func (h *ProfileHandler) ListTeam(c *fiber.Ctx) error {
	team, err := h.accountService.ListTeam(c.Context())
	if err != nil {
		return writeError(c, err, "Failed to get team")
	}

	return response.Success(c, "Team retrieved successfully", team)
}
