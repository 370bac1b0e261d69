package models

import (
	"strings"
	"time"

	"clubportal/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Accounts & Auth
// ============================================================

// Account represents users table
type Account struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Email             string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password          string         `gorm:"size:255;not null" json:"-"`
	FirstName         string         `gorm:"size:100;not null" json:"first_name"`
	LastName          string         `gorm:"size:100;not null" json:"last_name"`
	AccountLevel      string         `gorm:"size:20;not null;default:'guest';index" json:"account_level"`
	RoleStatus        string         `gorm:"size:20;not null;default:'none';index" json:"role_status"`
	RequestedRole     string         `gorm:"size:20" json:"requested_role"`
	PartnershipStatus string         `gorm:"size:20" json:"partnership_status"`
	LinkedIn          string         `gorm:"size:255" json:"linkedin"`
	Instagram         string         `gorm:"size:255" json:"instagram"`
	Bio               string         `gorm:"type:text" json:"bio"`
	School            string         `gorm:"size:150" json:"school"`
	Title             string         `gorm:"size:100" json:"title"`
	ProfilePicURL     string         `gorm:"size:500" json:"profile_pic_url"`
	ProfilePicKey     string         `gorm:"size:255" json:"-"`
	IsActive          bool           `gorm:"not null" json:"is_active"`
	Version           uint           `gorm:"not null;default:1" json:"version"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Account) TableName() string {
	return "users"
}

// FullName joins first and last name
func (a *Account) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// RoleState extracts the role workflow fields
func (a *Account) RoleState() domain.RoleState {
	return domain.RoleState{
		Level:         domain.AccountLevel(a.AccountLevel),
		Status:        domain.RoleStatus(a.RoleStatus),
		RequestedRole: a.RequestedRole,
	}
}

// ApplyRoleState writes a role workflow result back onto the account
func (a *Account) ApplyRoleState(s domain.RoleState) {
	a.AccountLevel = string(s.Level)
	a.RoleStatus = string(s.Status)
	a.RequestedRole = s.RequestedRole
}

// ToSession builds the session snapshot for this account
func (a *Account) ToSession() *domain.Session {
	return &domain.Session{
		AccountID:         a.ID,
		Email:             a.Email,
		FirstName:         a.FirstName,
		LastName:          a.LastName,
		AccountLevel:      domain.AccountLevel(a.AccountLevel),
		RoleStatus:        domain.RoleStatus(a.RoleStatus),
		RequestedRole:     a.RequestedRole,
		PartnershipStatus: a.PartnershipStatus,
		Version:           a.Version,
	}
}

// AccountResponse DTO
type AccountResponse struct {
	ID                uint      `json:"id"`
	Email             string    `json:"email"`
	FirstName         string    `json:"first_name"`
	LastName          string    `json:"last_name"`
	AccountLevel      string    `json:"account_level"`
	RoleStatus        string    `json:"role_status"`
	RequestedRole     string    `json:"requested_role,omitempty"`
	PartnershipStatus string    `json:"partnership_status,omitempty"`
	LinkedIn          string    `json:"linkedin"`
	Instagram         string    `json:"instagram"`
	Bio               string    `json:"bio"`
	School            string    `json:"school"`
	Title             string    `json:"title"`
	ProfilePicURL     string    `json:"profile_pic_url"`
	IsActive          bool      `json:"is_active"`
	Version           uint      `json:"version"`
	CreatedAt         time.Time `json:"created_at"`
}

func (a *Account) ToResponse() *AccountResponse {
	return &AccountResponse{
		ID:                a.ID,
		Email:             a.Email,
		FirstName:         a.FirstName,
		LastName:          a.LastName,
		AccountLevel:      a.AccountLevel,
		RoleStatus:        a.RoleStatus,
		RequestedRole:     a.RequestedRole,
		PartnershipStatus: a.PartnershipStatus,
		LinkedIn:          a.LinkedIn,
		Instagram:         a.Instagram,
		Bio:               a.Bio,
		School:            a.School,
		Title:             a.Title,
		ProfilePicURL:     a.ProfilePicURL,
		IsActive:          a.IsActive,
		Version:           a.Version,
		CreatedAt:         a.CreatedAt,
	}
}

// TeamMember is the public projection used by the team page
type TeamMember struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	AccountLevel  string `json:"account_level"`
	Title         string `json:"title"`
	School        string `json:"school"`
	Bio           string `json:"bio"`
	LinkedIn      string `json:"linkedin"`
	Instagram     string `json:"instagram"`
	ProfilePicURL string `json:"profile_pic_url"`
}

func (a *Account) ToTeamMember() *TeamMember {
	return &TeamMember{
		ID:            a.ID,
		Name:          a.FullName(),
		AccountLevel:  a.AccountLevel,
		Title:         a.Title,
		School:        a.School,
		Bio:           a.Bio,
		LinkedIn:      a.LinkedIn,
		Instagram:     a.Instagram,
		ProfilePicURL: a.ProfilePicURL,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	Account   Account    `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// History
// ============================================================

// ActivityLog records every workflow transition
type ActivityLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SubjectType string    `gorm:"size:30;not null;index:idx_activity_subject" json:"subject_type"`
	SubjectID   uint      `gorm:"not null;index:idx_activity_subject" json:"subject_id"`
	Action      string    `gorm:"size:50;not null" json:"action"`
	FromState   string    `gorm:"size:30" json:"from_state"`
	ToState     string    `gorm:"size:30" json:"to_state"`
	Description string    `gorm:"type:text" json:"description"`
	PerformedBy uint      `gorm:"not null;index" json:"performed_by"`
	IPAddress   string    `gorm:"size:50" json:"ip_address"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}

// Activity subjects
const (
	SubjectAccount        = "account"
	SubjectPartnerRequest = "partner_request"
	SubjectPartner        = "partner"
	SubjectEvent          = "event"
)

// Activity actions
const (
	ActRoleRequest    = "ROLE_REQUEST"
	ActRoleApprove    = "ROLE_APPROVE"
	ActRoleReject     = "ROLE_REJECT"
	ActRoleRemove     = "ROLE_REMOVE"
	ActLevelChange    = "LEVEL_CHANGE"
	ActMemberDelete   = "MEMBER_DELETE"
	ActRequestSubmit  = "REQUEST_SUBMIT"
	ActRequestApprove = "REQUEST_APPROVE"
	ActRequestReject  = "REQUEST_REJECT"
	ActCreate         = "CREATE"
	ActUpdate         = "UPDATE"
	ActStatusChange   = "STATUS_CHANGE"
	ActDelete         = "DELETE"
)

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Account{},
		&RefreshToken{},
		&ActivityLog{},
		&PartnerRequest{},
		&Partner{},
		&Event{},
		&EventInterest{},
		&StoredObject{},
	)
}
