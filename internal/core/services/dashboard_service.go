package services

import (
	"context"
	"errors"

	"clubportal/internal/adapters/persistence/models"
	"clubportal/internal/core/domain"
)

const dashboardEventLimit = 5

// DashboardService assembles the per-role landing payloads
type DashboardService struct {
	accounts *AccountService
	roles    *RoleService
	requests *PartnerRequestService
	events   *EventService
	members  *MemberService
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	accounts *AccountService,
	roles *RoleService,
	requests *PartnerRequestService,
	events *EventService,
	members *MemberService,
) *DashboardService {
	return &DashboardService{
		accounts: accounts,
		roles:    roles,
		requests: requests,
		events:   events,
		members:  members,
	}
}

// ============================================================
// Role dashboards
// ============================================================

// DashboardData is the /dashboard payload; which sections are set depends on the level
type DashboardData struct {
	AccountLevel   string                  `json:"account_level"`
	Account        *models.AccountResponse `json:"account"`
	PartnerRequest *models.PartnerRequest  `json:"partner_request,omitempty"`
	Team           []*models.TeamMember    `json:"team,omitempty"`
	Events         []*models.EventResponse `json:"events,omitempty"`
	Console        *ConsoleData            `json:"console,omitempty"`
}

// ForSession returns the dashboard matching the caller's account level
func (s *DashboardService) ForSession(ctx context.Context, session *domain.Session) (*DashboardData, error) {
	account, err := s.accounts.GetProfile(ctx, session.AccountID)
	if err != nil {
		return nil, err
	}

	data := &DashboardData{
		AccountLevel: string(session.AccountLevel),
		Account:      account,
	}

	switch session.AccountLevel {
	case domain.LevelGuest:
		if data.PartnerRequest, err = s.ownRequest(ctx, session.AccountID); err != nil {
			return nil, err
		}

	case domain.LevelStaff:
		if data.Team, err = s.accounts.ListTeam(ctx); err != nil {
			return nil, err
		}
		if data.Events, err = s.events.Upcoming(ctx, session, dashboardEventLimit); err != nil {
			return nil, err
		}

	case domain.LevelPartner:
		if data.PartnerRequest, err = s.ownRequest(ctx, session.AccountID); err != nil {
			return nil, err
		}
		if data.Events, err = s.events.Upcoming(ctx, session, dashboardEventLimit); err != nil {
			return nil, err
		}

	case domain.LevelAdmin:
		if data.Console, err = s.Console(ctx); err != nil {
			return nil, err
		}
	}

	return data, nil
}

func (s *DashboardService) ownRequest(ctx context.Context, accountID uint) (*models.PartnerRequest, error) {
	req, err := s.requests.GetMine(ctx, accountID)
	if errors.Is(err, ErrPartnerRequestNotFound) {
		return nil, nil
	}
	return req, err
}

// ============================================================
// Admin console
// ============================================================

// ConsoleData is the admin console aggregate
type ConsoleData struct {
	PendingRoleRequests    []*models.AccountResponse `json:"pending_role_requests"`
	PendingPartnerRequests []*models.PartnerRequest  `json:"pending_partner_requests"`
	CurrentPartners        []*models.PartnerRequest  `json:"current_partners"`
	Team                   []*models.TeamMember      `json:"team"`
	Stats                  *MemberStats              `json:"stats"`
}

// Console gathers everything the admin console shows
func (s *DashboardService) Console(ctx context.Context) (*ConsoleData, error) {
	var data ConsoleData
	var err error

	if data.PendingRoleRequests, err = s.roles.ListPendingRoleRequests(ctx); err != nil {
		return nil, err
	}
	if data.PendingPartnerRequests, err = s.requests.ListByStatus(ctx, string(domain.RequestPending)); err != nil {
		return nil, err
	}
	if data.CurrentPartners, err = s.requests.ListByStatus(ctx, string(domain.RequestApproved)); err != nil {
		return nil, err
	}
	if data.Team, err = s.accounts.ListTeam(ctx); err != nil {
		return nil, err
	}
	if data.Stats, err = s.members.Stats(ctx); err != nil {
		return nil, err
	}

	return &data, nil
}
