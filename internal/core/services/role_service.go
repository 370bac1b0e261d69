package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"clubportal/internal/adapters/persistence/models"
	"clubportal/internal/adapters/persistence/repositories"
	"clubportal/internal/core/domain"

	"gorm.io/gorm"
)

// Role workflow errors
var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrCannotChangeSelf = errors.New("cannot change your own role")
)

// RoleService drives the guest -> pending -> staff/admin/partner lifecycle
type RoleService struct {
	accountRepo repositories.AccountRepository
	activity    *ActivityService
	sessions    *SessionService
}

// NewRoleService creates a new role service
func NewRoleService(
	accountRepo repositories.AccountRepository,
	activity *ActivityService,
	sessions *SessionService,
) *RoleService {
	return &RoleService{
		accountRepo: accountRepo,
		activity:    activity,
		sessions:    sessions,
	}
}

// RequestRole files a role request for the caller
func (s *RoleService) RequestRole(ctx context.Context, actor Actor, requestedRole string) (*models.AccountResponse, error) {
	return s.transition(ctx, actor, actor.AccountID, 0, models.ActRoleRequest,
		func(st domain.RoleState) (domain.RoleState, error) {
			return domain.RequestRole(st, requestedRole)
		})
}

// ApproveRole grants the requested role. expectedVersion 0 skips the client-side version check.
func (s *RoleService) ApproveRole(ctx context.Context, actor Actor, accountID, expectedVersion uint) (*models.AccountResponse, error) {
	return s.transition(ctx, actor, accountID, expectedVersion, models.ActRoleApprove, domain.ApproveRole)
}

// RejectRole turns the request down and leaves the account a guest
func (s *RoleService) RejectRole(ctx context.Context, actor Actor, accountID, expectedVersion uint) (*models.AccountResponse, error) {
	return s.transition(ctx, actor, accountID, expectedVersion, models.ActRoleReject, domain.RejectRole)
}

// RemoveStaff demotes a staff member or admin to guest
func (s *RoleService) RemoveStaff(ctx context.Context, actor Actor, accountID uint) (*models.AccountResponse, error) {
	if accountID == actor.AccountID {
		return nil, ErrCannotChangeSelf
	}
	return s.transition(ctx, actor, accountID, 0, models.ActRoleRemove, domain.RemoveStaff)
}

// SetAccountLevel is the member console override
func (s *RoleService) SetAccountLevel(ctx context.Context, actor Actor, accountID uint, level string, expectedVersion uint) (*models.AccountResponse, error) {
	if accountID == actor.AccountID {
		return nil, ErrCannotChangeSelf
	}
	return s.transition(ctx, actor, accountID, expectedVersion, models.ActLevelChange,
		func(st domain.RoleState) (domain.RoleState, error) {
			return domain.SetLevel(st, level)
		})
}

// ListPendingRoleRequests lists accounts waiting for review
func (s *RoleService) ListPendingRoleRequests(ctx context.Context) ([]*models.AccountResponse, error) {
	accounts, _, err := s.accountRepo.List(ctx, repositories.AccountFilter{
		RoleStatus: string(domain.RoleStatusPending),
	}, 0, 0)
	if err != nil {
		return nil, err
	}

	result := make([]*models.AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = a.ToResponse()
	}
	return result, nil
}

func (s *RoleService) transition(
	ctx context.Context,
	actor Actor,
	accountID, expectedVersion uint,
	action string,
	apply func(domain.RoleState) (domain.RoleState, error),
) (*models.AccountResponse, error) {
	// 1. Load account
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	if expectedVersion != 0 && account.Version != expectedVersion {
		return nil, domain.ErrVersionConflict
	}

	// 2. Compute next state
	from := account.RoleState()
	next, err := apply(from)
	if err != nil {
		return nil, err
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}

	// 3. Versioned write
	account.ApplyRoleState(next)
	if err := s.accountRepo.UpdateRoleFields(ctx, account); err != nil {
		if errors.Is(err, repositories.ErrStaleRecord) {
			return nil, domain.ErrVersionConflict
		}
		return nil, err
	}

	// 4. History + push
	s.activity.Record(ctx, actor, ActivityEntry{
		SubjectType: models.SubjectAccount,
		SubjectID:   accountID,
		Action:      action,
		FromState:   describeRole(from),
		ToState:     describeRole(next),
		Description: fmt.Sprintf("%s %s", action, account.Email),
	})
	s.sessions.AccountChanged(ctx, accountID)

	log.Printf("✅ Role %s: account %d %s -> %s (by %d)", action, accountID, describeRole(from), describeRole(next), actor.AccountID)
	return account.ToResponse(), nil
}

func describeRole(st domain.RoleState) string {
	if st.RequestedRole != "" {
		return fmt.Sprintf("%s/%s:%s", st.Level, st.Status, st.RequestedRole)
	}
	return fmt.Sprintf("%s/%s", st.Level, st.Status)
}
