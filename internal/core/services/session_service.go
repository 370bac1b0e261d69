package services

import (
	"context"
	"errors"
	"strconv"

	"clubportal/internal/adapters/persistence/repositories"
	"clubportal/internal/core/domain"

	"gorm.io/gorm"
)

// ErrSessionInvalid means the token holder no longer has a usable account
var ErrSessionInvalid = errors.New("session is no longer valid")

// Cache is a TTL key/value store shared by the session and directory caches
type Cache interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{})
	Delete(key string)
}

// SessionService resolves the current identity of an account and pushes changes to it
type SessionService struct {
	accountRepo repositories.AccountRepository
	cache       Cache
	hub         *SessionHub
}

// NewSessionService creates a new session service
func NewSessionService(accountRepo repositories.AccountRepository, cache Cache, hub *SessionHub) *SessionService {
	s := &SessionService{
		accountRepo: accountRepo,
		cache:       cache,
		hub:         hub,
	}
	// keeps every instance's cache in line with relayed events
	hub.OnDeliver(s.applyEvent)
	return s
}

func sessionKey(accountID uint) string {
	return "session:" + strconv.FormatUint(uint64(accountID), 10)
}

// Load returns the session snapshot for an account
func (s *SessionService) Load(ctx context.Context, accountID uint) (*domain.Session, error) {
	if cached, ok := s.cache.Get(sessionKey(accountID)); ok {
		if snap, ok := cached.(domain.Session); ok {
			return &snap, nil
		}
	}

	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionInvalid
		}
		return nil, err
	}
	if !account.IsActive {
		return nil, ErrSessionInvalid
	}

	snap := account.ToSession()
	s.cache.Set(sessionKey(accountID), *snap)
	return snap, nil
}

// AccountChanged reloads the account and tells its open sessions
func (s *SessionService) AccountChanged(ctx context.Context, accountID uint) {
	s.cache.Delete(sessionKey(accountID))

	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil || !account.IsActive {
		s.SignedOut(ctx, accountID)
		return
	}

	s.hub.Publish(ctx, domain.SessionEvent{
		Event:     domain.EventAccountUpdated,
		AccountID: accountID,
		Session:   account.ToSession(),
	})
}

// SignedOut drops the cached snapshot and closes the account's live views
func (s *SessionService) SignedOut(ctx context.Context, accountID uint) {
	s.cache.Delete(sessionKey(accountID))
	s.hub.Publish(ctx, domain.SessionEvent{
		Event:     domain.EventSignedOut,
		AccountID: accountID,
	})
}

func (s *SessionService) applyEvent(event domain.SessionEvent) {
	switch event.Event {
	case domain.EventAccountUpdated:
		if event.Session != nil {
			s.cache.Set(sessionKey(event.AccountID), *event.Session)
			return
		}
		s.cache.Delete(sessionKey(event.AccountID))
	case domain.EventSignedOut:
		s.cache.Delete(sessionKey(event.AccountID))
	}
}
