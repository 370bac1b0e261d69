package repositories

import (
	"context"
	"time"

	"clubportal/internal/adapters/persistence/models"
	"clubportal/internal/core/domain"

	"gorm.io/gorm"
)

// storedObjectRepository implements StoredObjectRepository interface
type storedObjectRepository struct {
	db *gorm.DB
}

// NewStoredObjectRepository creates a new stored object repository
func NewStoredObjectRepository(db *gorm.DB) StoredObjectRepository {
	return &storedObjectRepository{db: db}
}

// Create records a newly staged object
func (r *storedObjectRepository) Create(ctx context.Context, obj *models.StoredObject) error {
	return r.db.WithContext(ctx).Create(obj).Error
}

// MarkCommitted attaches staged objects to their owning record
func (r *storedObjectRepository) MarkCommitted(ctx context.Context, keys []string, ownerKind string, ownerID uint) error {
	if len(keys) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.StoredObject{}).
		Where("`key` IN ?", keys).
		Updates(map[string]interface{}{
			"state":      string(domain.ObjectCommitted),
			"owner_kind": ownerKind,
			"owner_id":   ownerID,
		}).Error
}

// MarkOrphaned flags objects no longer referenced by any record
func (r *storedObjectRepository) MarkOrphaned(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.StoredObject{}).
		Where("`key` IN ?", keys).
		Update("state", string(domain.ObjectOrphaned)).Error
}

// DeleteByKey removes the tracking row of a deleted object
func (r *storedObjectRepository) DeleteByKey(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).
		Where("`key` = ?", key).
		Delete(&models.StoredObject{}).Error
}

// ListSweepable lists orphaned objects and staged objects older than stagedBefore
func (r *storedObjectRepository) ListSweepable(ctx context.Context, stagedBefore time.Time, limit int) ([]*models.StoredObject, error) {
	var objs []*models.StoredObject
	query := r.db.WithContext(ctx).
		Where("state = ? OR (state = ? AND created_at < ?)",
			string(domain.ObjectOrphaned), string(domain.ObjectStaged), stagedBefore).
		Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&objs).Error
	return objs, err
}
