package handlers

import (
	"errors"
	"io"
	"log"
	"strconv"

	"clubportal/internal/core/domain"
	"clubportal/internal/core/services"
	"clubportal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// parseID reads a numeric route param
func parseID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

// formFile turns an optional multipart field into an upload; nil when absent
func formFile(c *fiber.Ctx, field string) *services.UploadFile {
	fh, err := c.FormFile(field)
	if err != nil || fh == nil {
		return nil
	}
	return &services.UploadFile{
		Filename: fh.Filename,
		Size:     fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// VersionRequest carries the optimistic-lock version a reviewer saw
type VersionRequest struct {
	Version uint `json:"version"`
}

func expectedVersion(c *fiber.Ctx) uint {
	var req VersionRequest
	if len(c.Body()) == 0 {
		return 0
	}
	if err := c.BodyParser(&req); err != nil {
		return 0
	}
	return req.Version
}

// writeError maps service and domain errors onto HTTP responses
func writeError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	// 400
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidAccountLevel),
		errors.Is(err, domain.ErrInvalidRequestedRole),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrCostRequired),
		errors.Is(err, domain.ErrInvalidEventWindow),
		errors.Is(err, services.ErrInvalidEmail),
		errors.Is(err, services.ErrWeakPassword),
		errors.Is(err, services.ErrNameRequired),
		errors.Is(err, services.ErrFieldTooLong),
		errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrInvalidLink),
		errors.Is(err, services.ErrLogoRequired),
		errors.Is(err, services.ErrEventImagesMissing),
		errors.Is(err, services.ErrStartDateRequired),
		errors.Is(err, services.ErrPartnerNameRequired),
		errors.Is(err, services.ErrFileRequired):
		return response.BadRequest(c, err.Error())

	// 401 / 403
	case errors.Is(err, domain.ErrUnauthorized):
		return response.Unauthorized(c, "Unauthorized")
	case errors.Is(err, domain.ErrForbidden),
		errors.Is(err, services.ErrCannotChangeSelf),
		errors.Is(err, services.ErrCannotDeleteSelf):
		return response.Forbidden(c, err.Error())

	// 404
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, services.ErrAccountNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrPartnerNotFound),
		errors.Is(err, services.ErrPartnerRequestNotFound),
		errors.Is(err, services.ErrEventNotFound):
		return response.NotFound(c, err.Error())

	// 409
	case errors.Is(err, domain.ErrVersionConflict):
		return response.Conflict(c, "This record was changed by someone else, reload and try again")
	case errors.Is(err, domain.ErrRoleRequestPending),
		errors.Is(err, domain.ErrNoPendingRoleRequest),
		errors.Is(err, domain.ErrMissingRequestedRole),
		errors.Is(err, domain.ErrNotGuest),
		errors.Is(err, domain.ErrNotStaff),
		errors.Is(err, domain.ErrRequestNotPending),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrAlreadyPartner):
		return response.Conflict(c, err.Error())

	// uploads
	case errors.Is(err, services.ErrFileTooLarge):
		return response.RequestEntityTooLarge(c, err.Error())
	case errors.Is(err, services.ErrUnsupportedFileType):
		return response.UnprocessableEntity(c, err.Error())
	}

	log.Printf("❌ %s: %v", fallback, err)
	return response.InternalServerError(c, fallback)
}
