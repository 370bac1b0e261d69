package models

import (
	"time"

	"clubportal/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Partner directory
// ============================================================

// PartnerRequest represents partner_requests table.
// The primary key is the requester's account id, so a requester has at most one row.
type PartnerRequest struct {
	ID                 uint       `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Email              string     `gorm:"size:100;not null" json:"email"`
	PartnerName        string     `gorm:"size:150;not null" json:"partner_name"`
	PartnerDescription string     `gorm:"type:text" json:"partner_description"`
	OrgHeadName        string     `gorm:"size:150" json:"org_head_name"`
	BestContact        string     `gorm:"size:150" json:"best_contact"`
	Status             string     `gorm:"size:20;not null;default:'pending';index" json:"status"`
	ReviewedBy         *uint      `json:"reviewed_by"`
	ReviewedAt         *time.Time `json:"reviewed_at"`
	SubmittedAt        time.Time  `gorm:"not null" json:"submitted_at"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PartnerRequest) TableName() string {
	return "partner_requests"
}

// Partner represents partners table
type Partner struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Title            string         `gorm:"size:150;not null" json:"title"`
	WebsiteLink      string         `gorm:"size:500" json:"website_link"`
	GroupDescription string         `gorm:"type:text" json:"group_description"`
	LogoURL          string         `gorm:"size:500" json:"logo_url"`
	LogoKey          string         `gorm:"size:255" json:"-"`
	OrgHead          string         `gorm:"size:150" json:"org_head"`
	Status           string         `gorm:"size:20;not null;default:'active';index" json:"status"`
	CreatedBy        uint           `gorm:"not null" json:"created_by"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Partner) TableName() string {
	return "partners"
}

// IsPublic reports whether the partner shows in the public directory
func (p *Partner) IsPublic() bool {
	return p.Status == string(domain.StatusActive)
}

// ============================================================
// Events
// ============================================================

// Event represents events table
type Event struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Title           string         `gorm:"size:200;not null" json:"title"`
	Organization    string         `gorm:"size:150" json:"organization"`
	Location        string         `gorm:"size:255" json:"location"`
	StartDate       time.Time      `gorm:"not null;index" json:"start_date"`
	EndDate         *time.Time     `json:"end_date"`
	Description     string         `gorm:"type:text" json:"description"`
	Status          string         `gorm:"size:20;not null;default:'active';index" json:"status"`
	ImageURL        string         `gorm:"size:500" json:"image_url"`
	ImageKey        string         `gorm:"size:255" json:"-"`
	CoverURL        string         `gorm:"size:500" json:"cover_url"`
	CoverKey        string         `gorm:"size:255" json:"-"`
	SignUpLink      string         `gorm:"size:500" json:"sign_up"`
	IsFree          bool           `gorm:"not null" json:"is_free"`
	Cost            string         `gorm:"size:50" json:"cost"`
	InterestedCount int64          `gorm:"not null;default:0" json:"interested_count"`
	CreatedBy       uint           `gorm:"not null" json:"created_by"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Event) TableName() string {
	return "events"
}

// EventResponse DTO
type EventResponse struct {
	ID              uint       `json:"id"`
	Title           string     `json:"title"`
	Organization    string     `json:"organization"`
	Location        string     `json:"location"`
	StartDate       time.Time  `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	Description     string     `json:"description"`
	Status          string     `json:"status"`
	ImageURL        string     `json:"image_url"`
	CoverURL        string     `json:"cover_url"`
	SignUpLink      string     `json:"sign_up"`
	IsFree          bool       `json:"is_free"`
	Cost            string     `json:"cost,omitempty"`
	CostLabel       string     `json:"cost_label"`
	InterestedCount int64      `json:"interested_count"`
	Interested      *bool      `json:"interested,omitempty"`
}

func (e *Event) ToResponse() *EventResponse {
	return &EventResponse{
		ID:              e.ID,
		Title:           e.Title,
		Organization:    e.Organization,
		Location:        e.Location,
		StartDate:       e.StartDate,
		EndDate:         e.EndDate,
		Description:     e.Description,
		Status:          e.Status,
		ImageURL:        e.ImageURL,
		CoverURL:        e.CoverURL,
		SignUpLink:      e.SignUpLink,
		IsFree:          e.IsFree,
		Cost:            e.Cost,
		CostLabel:       domain.CostLabel(e.IsFree, e.Cost),
		InterestedCount: e.InterestedCount,
	}
}

// EventInterest marks one account as interested in one event
type EventInterest struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EventID   uint      `gorm:"not null;uniqueIndex:idx_event_account" json:"event_id"`
	AccountID uint      `gorm:"not null;uniqueIndex:idx_event_account;index" json:"account_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (EventInterest) TableName() string {
	return "event_interests"
}

// ============================================================
// Uploads
// ============================================================

// StoredObject tracks an uploaded file through staged -> committed -> orphaned
type StoredObject struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Key         string    `gorm:"size:255;uniqueIndex;not null" json:"key"`
	URL         string    `gorm:"size:500;not null" json:"url"`
	ContentType string    `gorm:"size:100" json:"content_type"`
	Size        int64     `json:"size"`
	State       string    `gorm:"size:20;not null;index" json:"state"`
	OwnerKind   string    `gorm:"size:20" json:"owner_kind"`
	OwnerID     *uint     `json:"owner_id"`
	UploadedBy  uint      `gorm:"not null" json:"uploaded_by"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime;index" json:"updated_at"`
}

func (StoredObject) TableName() string {
	return "stored_objects"
}
