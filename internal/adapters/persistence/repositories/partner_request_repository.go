package repositories

import (
	"context"
	"time"

	"clubportal/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// partnerRequestRepository implements PartnerRequestRepository interface
type partnerRequestRepository struct {
	db *gorm.DB
}

// NewPartnerRequestRepository creates a new partner request repository
func NewPartnerRequestRepository(db *gorm.DB) PartnerRequestRepository {
	return &partnerRequestRepository{db: db}
}

// Upsert inserts the request or overwrites the requester's existing one
func (r *partnerRequestRepository) Upsert(ctx context.Context, req *models.PartnerRequest) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(req).Error
}

// GetByID gets a partner request by requester account id
func (r *partnerRequestRepository) GetByID(ctx context.Context, id uint) (*models.PartnerRequest, error) {
	var req models.PartnerRequest
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// ListByStatus lists requests in a status, oldest first
func (r *partnerRequestRepository) ListByStatus(ctx context.Context, status string) ([]*models.PartnerRequest, error) {
	var reqs []*models.PartnerRequest
	query := r.db.WithContext(ctx).Model(&models.PartnerRequest{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("submitted_at ASC").Find(&reqs).Error
	return reqs, err
}

// Resolve moves a request from one status to another if it is still in "from"
func (r *partnerRequestRepository) Resolve(ctx context.Context, id uint, from, to string, reviewerID uint) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.PartnerRequest{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":      to,
			"reviewed_by": reviewerID,
			"reviewed_at": &now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStaleRecord
	}
	return nil
}
