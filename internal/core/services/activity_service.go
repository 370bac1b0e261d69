package services

import (
	"context"
	"log"

	"clubportal/internal/adapters/persistence/models"
	"clubportal/internal/adapters/persistence/repositories"
	"clubportal/internal/pkg/metrics"
)

// Actor is the signed-in account performing an operation
type Actor struct {
	AccountID uint
	IP        string
}

// ActivityEntry describes one workflow transition
type ActivityEntry struct {
	SubjectType string
	SubjectID   uint
	Action      string
	FromState   string
	ToState     string
	Description string
}

// ActivityService writes and reads the workflow history
type ActivityService struct {
	repo repositories.ActivityRepository
}

// NewActivityService creates a new activity service
func NewActivityService(repo repositories.ActivityRepository) *ActivityService {
	return &ActivityService{repo: repo}
}

// Record appends a history row. The transition has already happened,
// so a failed write is logged and not returned.
func (s *ActivityService) Record(ctx context.Context, actor Actor, entry ActivityEntry) {
	metrics.Transition(entry.SubjectType, entry.Action)

	row := &models.ActivityLog{
		SubjectType: entry.SubjectType,
		SubjectID:   entry.SubjectID,
		Action:      entry.Action,
		FromState:   entry.FromState,
		ToState:     entry.ToState,
		Description: entry.Description,
		PerformedBy: actor.AccountID,
		IPAddress:   actor.IP,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		log.Printf("⚠️ Failed to record activity %s %s#%d: %v", entry.Action, entry.SubjectType, entry.SubjectID, err)
	}
}

// List returns history newest first
func (s *ActivityService) List(ctx context.Context, subjectType string, subjectID uint, offset, limit int) ([]*models.ActivityLog, int64, error) {
	return s.repo.List(ctx, subjectType, subjectID, offset, limit)
}
