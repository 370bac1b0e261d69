package domain

import "strings"

// AccountLevel is the coarse role gating feature access
type AccountLevel string

const (
	LevelGuest   AccountLevel = "guest"
	LevelStaff   AccountLevel = "staff"
	LevelAdmin   AccountLevel = "admin"
	LevelPartner AccountLevel = "partner"
)

// RoleStatus tracks a role-change request
type RoleStatus string

const (
	RoleStatusNone     RoleStatus = "none"
	RoleStatusPending  RoleStatus = "pending"
	RoleStatusApproved RoleStatus = "approved"
	RoleStatusRejected RoleStatus = "rejected"
)

// RequestStatus is the lifecycle of a partner request
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// PublishStatus is shared by partners and events
type PublishStatus string

const (
	StatusActive    PublishStatus = "active"
	StatusSuspended PublishStatus = "suspended"
)

// Object state for two-phase uploads
const (
	ObjectStaged    = "staged"
	ObjectCommitted = "committed"
	ObjectOrphaned  = "orphaned"
)

// Owner kinds for stored objects
const (
	OwnerAccount = "account"
	OwnerPartner = "partner"
	OwnerEvent   = "event"
)

// Session is the signed-in identity passed to every handler
type Session struct {
	AccountID         uint         `json:"account_id"`
	Email             string       `json:"email"`
	FirstName         string       `json:"first_name"`
	LastName          string       `json:"last_name"`
	AccountLevel      AccountLevel `json:"account_level"`
	RoleStatus        RoleStatus   `json:"role_status"`
	RequestedRole     string       `json:"requested_role,omitempty"`
	PartnershipStatus string       `json:"partnership_status,omitempty"`
	Version           uint         `json:"version"`
}

// IsAdmin reports whether the session holder may use admin screens
func (s *Session) IsAdmin() bool {
	return s != nil && IsAdmin(s.AccountLevel)
}

// IsAdmin is the single access-gate predicate
func IsAdmin(level AccountLevel) bool {
	return level == LevelAdmin
}

// ParseAccountLevel normalizes and validates an account level
func ParseAccountLevel(s string) (AccountLevel, error) {
	switch AccountLevel(strings.ToLower(strings.TrimSpace(s))) {
	case LevelGuest:
		return LevelGuest, nil
	case LevelStaff:
		return LevelStaff, nil
	case LevelAdmin:
		return LevelAdmin, nil
	case LevelPartner:
		return LevelPartner, nil
	}
	return "", ErrInvalidAccountLevel
}

// ParseRequestableRole validates a role a guest may ask for
func ParseRequestableRole(s string) (AccountLevel, error) {
	level, err := ParseAccountLevel(s)
	if err != nil || level == LevelGuest {
		return "", ErrInvalidRequestedRole
	}
	return level, nil
}

// ParsePublishStatus validates a partner/event status
func ParsePublishStatus(s string) (PublishStatus, error) {
	switch PublishStatus(strings.ToLower(strings.TrimSpace(s))) {
	case StatusActive:
		return StatusActive, nil
	case StatusSuspended:
		return StatusSuspended, nil
	}
	return "", ErrInvalidStatus
}

// ParseRequestStatus validates a partner request status filter
func ParseRequestStatus(s string) (RequestStatus, error) {
	switch RequestStatus(strings.ToLower(strings.TrimSpace(s))) {
	case RequestPending:
		return RequestPending, nil
	case RequestApproved:
		return RequestApproved, nil
	case RequestRejected:
		return RequestRejected, nil
	}
	return "", ErrInvalidStatus
}
