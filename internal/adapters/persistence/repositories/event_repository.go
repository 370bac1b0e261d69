package repositories

import (
	"context"
	"time"

	"clubportal/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// eventRepository implements EventRepository interface
type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

// Create creates a new event
func (r *eventRepository) Create(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// GetByID gets an event by ID
func (r *eventRepository) GetByID(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// Update writes the editable columns, leaving interested_count to the interest queries
func (r *eventRepository) Update(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).
		Model(event).
		Select("title", "organization", "location", "start_date", "end_date", "description",
			"image_url", "image_key", "cover_url", "cover_key", "sign_up_link", "is_free", "cost").
		Updates(event).Error
}

// UpdateStatus sets the publish status
func (r *eventRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// Delete soft deletes an event
func (r *eventRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Event{}, id).Error
}

// List lists events by start date, optionally filtered by status and a lower start bound
func (r *eventRepository) List(ctx context.Context, status string, from *time.Time, limit int) ([]*models.Event, error) {
	var events []*models.Event
	query := r.db.WithContext(ctx).Model(&models.Event{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if from != nil {
		query = query.Where("start_date >= ?", *from)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Order("start_date ASC").Find(&events).Error
	return events, err
}

// AddInterest records the account's interest and bumps the counter in one transaction.
// Returns false when the account was already interested.
func (r *eventRepository) AddInterest(ctx context.Context, eventID, accountID uint) (bool, error) {
	added := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.EventInterest{EventID: eventID, AccountID: accountID})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		added = true
		return tx.Model(&models.Event{}).
			Where("id = ?", eventID).
			UpdateColumn("interested_count", gorm.Expr("interested_count + ?", 1)).Error
	})
	return added, err
}

// RemoveInterest drops the account's interest and decrements the counter in one transaction.
// Returns false when the account was not interested.
func (r *eventRepository) RemoveInterest(ctx context.Context, eventID, accountID uint) (bool, error) {
	removed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("event_id = ? AND account_id = ?", eventID, accountID).
			Delete(&models.EventInterest{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		removed = true
		return tx.Model(&models.Event{}).
			Where("id = ? AND interested_count > 0", eventID).
			UpdateColumn("interested_count", gorm.Expr("interested_count - ?", 1)).Error
	})
	return removed, err
}

// InterestedEventIDs reports which of the given events the account is interested in
func (r *eventRepository) InterestedEventIDs(ctx context.Context, accountID uint, eventIDs []uint) (map[uint]bool, error) {
	set := make(map[uint]bool, len(eventIDs))
	if len(eventIDs) == 0 {
		return set, nil
	}

	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.EventInterest{}).
		Where("account_id = ? AND event_id IN ?", accountID, eventIDs).
		Pluck("event_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
