package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"clubportal/internal/adapters/persistence/models"
	"clubportal/internal/adapters/persistence/repositories"
	"clubportal/internal/core/domain"

	"gorm.io/gorm"
)

// Partner request errors
var (
	ErrPartnerRequestNotFound = errors.New("partner request not found")
	ErrPartnerNameRequired    = errors.New("partner name is required")
	ErrAlreadyPartner         = errors.New("account is already a partner")
)

// PartnerRequestInput is the partner application form
type PartnerRequestInput struct {
	Email              string `json:"email"`
	PartnerName        string `json:"partner_name"`
	PartnerDescription string `json:"partner_description"`
	OrgHeadName        string `json:"org_head_name"`
	BestContact        string `json:"best_contact"`
}

// PartnerRequestService handles partner applications
type PartnerRequestService struct {
	requestRepo repositories.PartnerRequestRepository
	accountRepo repositories.AccountRepository
	activity    *ActivityService
	sessions    *SessionService
}

// NewPartnerRequestService creates a new partner request service
func NewPartnerRequestService(
	requestRepo repositories.PartnerRequestRepository,
	accountRepo repositories.AccountRepository,
	activity *ActivityService,
	sessions *SessionService,
) *PartnerRequestService {
	return &PartnerRequestService{
		requestRepo: requestRepo,
		accountRepo: accountRepo,
		activity:    activity,
		sessions:    sessions,
	}
}

// Submit creates or overwrites the caller's single partner request
func (s *PartnerRequestService) Submit(ctx context.Context, actor Actor, input *PartnerRequestInput) (*models.PartnerRequest, error) {
	// 1. Load requester
	account, err := s.accountRepo.GetByID(ctx, actor.AccountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	if account.AccountLevel == string(domain.LevelPartner) {
		return nil, ErrAlreadyPartner
	}

	// 2. Validate form
	name := strings.TrimSpace(input.PartnerName)
	if name == "" {
		return nil, ErrPartnerNameRequired
	}
	email := account.Email
	if strings.TrimSpace(input.Email) != "" {
		if email, err = NormalizeEmail(input.Email); err != nil {
			return nil, err
		}
	}

	// 3. Upsert, resetting any earlier review
	previous := account.PartnershipStatus
	req := &models.PartnerRequest{
		ID:                 account.ID,
		Email:              email,
		PartnerName:        name,
		PartnerDescription: strings.TrimSpace(input.PartnerDescription),
		OrgHeadName:        strings.TrimSpace(input.OrgHeadName),
		BestContact:        strings.TrimSpace(input.BestContact),
		Status:             string(domain.RequestPending),
		SubmittedAt:        time.Now(),
	}
	if err := s.requestRepo.Upsert(ctx, req); err != nil {
		return nil, err
	}

	// 4. Mirror on the account
	if err := s.accountRepo.UpdatePartnershipStatus(ctx, account.ID, req.Status); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, actor, ActivityEntry{
		SubjectType: models.SubjectPartnerRequest,
		SubjectID:   req.ID,
		Action:      models.ActRequestSubmit,
		FromState:   previous,
		ToState:     req.Status,
		Description: "Partner request: " + name,
	})
	s.sessions.AccountChanged(ctx, account.ID)

	log.Printf("✅ Partner request submitted by account %d: %s", account.ID, name)
	return req, nil
}

// GetMine returns the caller's partner request
func (s *PartnerRequestService) GetMine(ctx context.Context, accountID uint) (*models.PartnerRequest, error) {
	return s.get(ctx, accountID)
}

// ListByStatus lists requests; an empty status lists all
func (s *PartnerRequestService) ListByStatus(ctx context.Context, status string) ([]*models.PartnerRequest, error) {
	if status != "" {
		parsed, err := domain.ParseRequestStatus(status)
		if err != nil {
			return nil, err
		}
		status = string(parsed)
	}
	return s.requestRepo.ListByStatus(ctx, status)
}

// Approve accepts a pending request. No Partner record is created.
func (s *PartnerRequestService) Approve(ctx context.Context, actor Actor, requestID uint) (*models.PartnerRequest, error) {
	return s.review(ctx, actor, requestID, true)
}

// Reject declines a pending request
func (s *PartnerRequestService) Reject(ctx context.Context, actor Actor, requestID uint) (*models.PartnerRequest, error) {
	return s.review(ctx, actor, requestID, false)
}

func (s *PartnerRequestService) review(ctx context.Context, actor Actor, requestID uint, approve bool) (*models.PartnerRequest, error) {
	// 1. Load request
	req, err := s.get(ctx, requestID)
	if err != nil {
		return nil, err
	}

	// 2. Check state
	from := domain.RequestStatus(req.Status)
	next, err := domain.ReviewPartnerRequest(from, approve)
	if err != nil {
		return nil, err
	}

	// 3. Conditional write; a concurrent reviewer makes this miss
	if err := s.requestRepo.Resolve(ctx, req.ID, string(from), string(next), actor.AccountID); err != nil {
		if errors.Is(err, repositories.ErrStaleRecord) {
			return nil, domain.ErrRequestNotPending
		}
		return nil, err
	}
	now := time.Now()
	req.Status = string(next)
	req.ReviewedBy = &actor.AccountID
	req.ReviewedAt = &now

	// 4. Mirror on the requester's account
	if err := s.accountRepo.UpdatePartnershipStatus(ctx, req.ID, req.Status); err != nil {
		log.Printf("⚠️ Failed to mirror partnership status on account %d: %v", req.ID, err)
	}

	action := models.ActRequestReject
	if approve {
		action = models.ActRequestApprove
	}
	s.activity.Record(ctx, actor, ActivityEntry{
		SubjectType: models.SubjectPartnerRequest,
		SubjectID:   req.ID,
		Action:      action,
		FromState:   string(from),
		ToState:     req.Status,
		Description: "Partner request: " + req.PartnerName,
	})
	s.sessions.AccountChanged(ctx, req.ID)

	return req, nil
}

func (s *PartnerRequestService) get(ctx context.Context, id uint) (*models.PartnerRequest, error) {
	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartnerRequestNotFound
		}
		return nil, err
	}
	return req, nil
}
