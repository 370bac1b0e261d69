package domain

import (
	"strings"
	"time"
)

// RoleState is the part of an account driven by the role workflow
type RoleState struct {
	Level         AccountLevel
	Status        RoleStatus
	RequestedRole string
}

// Validate checks the pending => requested role invariant
func (s RoleState) Validate() error {
	if s.Status == RoleStatusPending && s.RequestedRole == "" {
		return ErrMissingRequestedRole
	}
	return nil
}

// RequestRole moves a guest from none/rejected to pending
func RequestRole(s RoleState, role string) (RoleState, error) {
	requested, err := ParseRequestableRole(role)
	if err != nil {
		return s, err
	}
	if s.Status == RoleStatusPending {
		return s, ErrRoleRequestPending
	}
	if s.Level != LevelGuest {
		return s, ErrNotGuest
	}

	return RoleState{
		Level:         s.Level,
		Status:        RoleStatusPending,
		RequestedRole: string(requested),
	}, nil
}

// ApproveRole grants exactly the role recorded on the pending request
func ApproveRole(s RoleState) (RoleState, error) {
	if s.Status != RoleStatusPending {
		return s, ErrNoPendingRoleRequest
	}
	level, err := ParseAccountLevel(s.RequestedRole)
	if err != nil {
		return s, ErrMissingRequestedRole
	}

	return RoleState{Level: level, Status: RoleStatusApproved}, nil
}

// RejectRole reverts the account to guest
func RejectRole(s RoleState) (RoleState, error) {
	if s.Status != RoleStatusPending {
		return s, ErrNoPendingRoleRequest
	}
	return RoleState{Level: LevelGuest, Status: RoleStatusRejected}, nil
}

// RemoveStaff demotes staff or admin back to guest without deleting the account
func RemoveStaff(s RoleState) (RoleState, error) {
	if s.Level != LevelStaff && s.Level != LevelAdmin {
		return s, ErrNotStaff
	}
	return RoleState{Level: LevelGuest, Status: RoleStatusNone}, nil
}

// SetLevel is the member console override; it drops any pending request
func SetLevel(s RoleState, level string) (RoleState, error) {
	next, err := ParseAccountLevel(level)
	if err != nil {
		return s, err
	}

	status := s.Status
	if status == RoleStatusPending {
		status = RoleStatusNone
	}
	return RoleState{Level: next, Status: status}, nil
}

// ReviewPartnerRequest resolves a pending request; resolved requests are terminal
func ReviewPartnerRequest(current RequestStatus, approve bool) (RequestStatus, error) {
	if current != RequestPending {
		return current, ErrRequestNotPending
	}
	if approve {
		return RequestApproved, nil
	}
	return RequestRejected, nil
}

// ChangePublishStatus toggles active/suspended. Re-applying the current
// status is accepted and reported as unchanged.
func ChangePublishStatus(current PublishStatus, next string) (PublishStatus, bool, error) {
	status, err := ParsePublishStatus(next)
	if err != nil {
		return current, false, err
	}
	return status, status != current, nil
}

// NormalizeEventCost enforces cost required iff the event is not free
func NormalizeEventCost(isFree bool, cost string) (string, error) {
	cost = strings.TrimSpace(cost)
	if isFree {
		return "", nil
	}
	if cost == "" {
		return "", ErrCostRequired
	}
	return cost, nil
}

// ValidateEventWindow rejects an end date before the start date
func ValidateEventWindow(start, end time.Time) error {
	if !end.IsZero() && end.Before(start) {
		return ErrInvalidEventWindow
	}
	return nil
}

// CostLabel is what listings show for an event's price
func CostLabel(isFree bool, cost string) string {
	if isFree {
		return "Free"
	}
	return "Cost: " + cost
}
