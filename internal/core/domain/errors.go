package domain

import "errors"

// Common domain errors
var (
	ErrNotFound        = errors.New("resource not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrVersionConflict = errors.New("record was modified by another request")
)

// Role workflow errors
var (
	ErrInvalidAccountLevel  = errors.New("invalid account level")
	ErrInvalidRequestedRole = errors.New("requested role must be staff, admin or partner")
	ErrRoleRequestPending   = errors.New("a role request is already pending")
	ErrNoPendingRoleRequest = errors.New("no pending role request")
	ErrNotGuest             = errors.New("only guests can request a role")
	ErrNotStaff             = errors.New("account is not staff or admin")
	ErrMissingRequestedRole = errors.New("pending role request has no requested role")
)

// Partner / event workflow errors
var (
	ErrInvalidStatus      = errors.New("invalid status")
	ErrRequestNotPending  = errors.New("partner request is not pending")
	ErrCostRequired       = errors.New("cost is required when the event is not free")
	ErrInvalidEventWindow = errors.New("event end date is before start date")
)
