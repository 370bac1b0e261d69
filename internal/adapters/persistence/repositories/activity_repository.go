package repositories

import (
	"context"

	"clubportal/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// activityRepository implements ActivityRepository interface
type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

// Create appends a history row
func (r *activityRepository) Create(ctx context.Context, log *models.ActivityLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// List lists history newest first, optionally for a single subject
func (r *activityRepository) List(ctx context.Context, subjectType string, subjectID uint, offset, limit int) ([]*models.ActivityLog, int64, error) {
	var logs []*models.ActivityLog
	var total int64

	query := r.db.WithContext(ctx).Model(&models.ActivityLog{})
	if subjectType != "" {
		query = query.Where("subject_type = ?", subjectType)
	}
	if subjectID > 0 {
		query = query.Where("subject_id = ?", subjectID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at DESC, id DESC").Offset(offset).Limit(limit).Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}
