package repositories

import (
	"context"

	"clubportal/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// partnerRepository implements PartnerRepository interface
type partnerRepository struct {
	db *gorm.DB
}

// NewPartnerRepository creates a new partner repository
func NewPartnerRepository(db *gorm.DB) PartnerRepository {
	return &partnerRepository{db: db}
}

// Create creates a new partner
func (r *partnerRepository) Create(ctx context.Context, partner *models.Partner) error {
	return r.db.WithContext(ctx).Create(partner).Error
}

// GetByID gets a partner by ID
func (r *partnerRepository) GetByID(ctx context.Context, id uint) (*models.Partner, error) {
	var partner models.Partner
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&partner).Error
	if err != nil {
		return nil, err
	}
	return &partner, nil
}

// Update saves every column of the partner
func (r *partnerRepository) Update(ctx context.Context, partner *models.Partner) error {
	return r.db.WithContext(ctx).Save(partner).Error
}

// UpdateStatus sets the publish status
func (r *partnerRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.Partner{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// Delete soft deletes a partner
func (r *partnerRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Partner{}, id).Error
}

// List lists partners by title, optionally filtered by status
func (r *partnerRepository) List(ctx context.Context, status string) ([]*models.Partner, error) {
	var partners []*models.Partner
	query := r.db.WithContext(ctx).Model(&models.Partner{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("title ASC").Find(&partners).Error
	return partners, err
}
