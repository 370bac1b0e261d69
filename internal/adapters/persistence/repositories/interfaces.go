package repositories

import (
	"context"
	"errors"
	"time"

	"clubportal/internal/adapters/persistence/models"
)

// ErrStaleRecord is returned when a versioned or state-guarded update matched no row
var ErrStaleRecord = errors.New("record changed since it was read")

// AccountFilter narrows account listings
type AccountFilter struct {
	Search     string
	Level      string
	RoleStatus string
	Levels     []string
}

// LevelCount is one row of the account-level breakdown
type LevelCount struct {
	AccountLevel string `json:"account_level"`
	Count        int64  `json:"count"`
}

// AccountRepository defines account repository interface
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id uint) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, account *models.Account) error
	UpdatePassword(ctx context.Context, id uint, hash string) error
	UpdateRoleFields(ctx context.Context, account *models.Account) error
	UpdatePartnershipStatus(ctx context.Context, id uint, status string) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter AccountFilter, offset, limit int) ([]*models.Account, int64, error)
	CountByLevel(ctx context.Context) ([]LevelCount, error)
	CountByRoleStatus(ctx context.Context, status string) (int64, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// PartnerRequestRepository defines partner request repository interface
type PartnerRequestRepository interface {
	Upsert(ctx context.Context, req *models.PartnerRequest) error
	GetByID(ctx context.Context, id uint) (*models.PartnerRequest, error)
	ListByStatus(ctx context.Context, status string) ([]*models.PartnerRequest, error)
	Resolve(ctx context.Context, id uint, from, to string, reviewerID uint) error
}

// PartnerRepository defines partner repository interface
type PartnerRepository interface {
	Create(ctx context.Context, partner *models.Partner) error
	GetByID(ctx context.Context, id uint) (*models.Partner, error)
	Update(ctx context.Context, partner *models.Partner) error
	UpdateStatus(ctx context.Context, id uint, status string) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, status string) ([]*models.Partner, error)
}

// EventRepository defines event repository interface
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id uint) (*models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	UpdateStatus(ctx context.Context, id uint, status string) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, status string, from *time.Time, limit int) ([]*models.Event, error)
	AddInterest(ctx context.Context, eventID, accountID uint) (bool, error)
	RemoveInterest(ctx context.Context, eventID, accountID uint) (bool, error)
	InterestedEventIDs(ctx context.Context, accountID uint, eventIDs []uint) (map[uint]bool, error)
}

// StoredObjectRepository defines upload tracking repository interface
type StoredObjectRepository interface {
	Create(ctx context.Context, obj *models.StoredObject) error
	MarkCommitted(ctx context.Context, keys []string, ownerKind string, ownerID uint) error
	MarkOrphaned(ctx context.Context, keys []string) error
	DeleteByKey(ctx context.Context, key string) error
	ListSweepable(ctx context.Context, stagedBefore time.Time, limit int) ([]*models.StoredObject, error)
}

// ActivityRepository defines workflow history repository interface
type ActivityRepository interface {
	Create(ctx context.Context, log *models.ActivityLog) error
	List(ctx context.Context, subjectType string, subjectID uint, offset, limit int) ([]*models.ActivityLog, int64, error)
}
