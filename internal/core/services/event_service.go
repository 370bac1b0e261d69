package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"clubportal/internal/adapters/persistence/models"
	"clubportal/internal/adapters/persistence/repositories"
	"clubportal/internal/core/domain"

	"gorm.io/gorm"
)

// Event errors
var (
	ErrEventNotFound      = errors.New("event not found")
	ErrEventImagesMissing = errors.New("flyer and cover images are required")
	ErrStartDateRequired  = errors.New("start date is required")
)

const cacheKeyPublicEvents = "events:public"

// EventInput is the admin event form
type EventInput struct {
	Title        string     `json:"title"`
	Organization string     `json:"organization"`
	Location     string     `json:"location"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	Description  string     `json:"description"`
	SignUpLink   string     `json:"sign_up"`
	IsFree       *bool      `json:"is_free"`
	Cost         string     `json:"cost"`
}

// EventImages are the two images an event carries; either may be nil on update
type EventImages struct {
	Flyer *UploadFile
	Cover *UploadFile
}

// EventService manages events and interest marks
type EventService struct {
	eventRepo repositories.EventRepository
	uploads   *UploadService
	activity  *ActivityService
	cache     Cache
}

// NewEventService creates a new event service
func NewEventService(
	eventRepo repositories.EventRepository,
	uploads *UploadService,
	activity *ActivityService,
	cache Cache,
) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		uploads:   uploads,
		activity:  activity,
		cache:     cache,
	}
}

func (in *EventInput) apply(e *models.Event) error {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return ErrTitleRequired
	}
	if in.StartDate.IsZero() {
		return ErrStartDateRequired
	}
	var end time.Time
	if in.EndDate != nil {
		end = *in.EndDate
	}
	if err := domain.ValidateEventWindow(in.StartDate, end); err != nil {
		return err
	}
	// Nil IsFree keeps the event's current pricing
	isFree, cost := e.IsFree, in.Cost
	if in.IsFree != nil {
		isFree = *in.IsFree
	} else if strings.TrimSpace(cost) == "" {
		cost = e.Cost
	}
	cost, err := domain.NormalizeEventCost(isFree, cost)
	if err != nil {
		return err
	}
	link, err := ValidateLink(in.SignUpLink)
	if err != nil {
		return err
	}

	e.Title = title
	e.Organization = strings.TrimSpace(in.Organization)
	e.Location = strings.TrimSpace(in.Location)
	e.StartDate = in.StartDate
	e.EndDate = in.EndDate
	e.Description = strings.TrimSpace(in.Description)
	e.SignUpLink = link
	e.IsFree = isFree
	e.Cost = cost
	return nil
}

// Create adds an event with its flyer and cover
func (s *EventService) Create(ctx context.Context, actor Actor, input *EventInput, images EventImages) (*models.EventResponse, error) {
	// 1. Validate
	event := &models.Event{
		Status:    string(domain.StatusActive),
		IsFree:    true,
		CreatedBy: actor.AccountID,
	}
	if err := input.apply(event); err != nil {
		return nil, err
	}
	if images.Flyer == nil || images.Cover == nil {
		return nil, ErrEventImagesMissing
	}

	// 2. Stage both images
	staged, err := s.stageImages(ctx, actor, event, images)
	if err != nil {
		return nil, err
	}

	// 3. Write record, discard images if that fails
	if err := s.eventRepo.Create(ctx, event); err != nil {
		s.uploads.Discard(ctx, staged...)
		return nil, err
	}

	// 4. Commit
	if err := s.uploads.Commit(ctx, domain.OwnerEvent, event.ID, staged...); err != nil {
		log.Printf("⚠️ Failed to commit event images for event %d: %v", event.ID, err)
	}
	s.cache.Delete(cacheKeyPublicEvents)
	s.activity.Record(ctx, actor, ActivityEntry{
		SubjectType: models.SubjectEvent,
		SubjectID:   event.ID,
		Action:      models.ActCreate,
		ToState:     event.Status,
		Description: "Event: " + event.Title,
	})

	log.Printf("✅ Event created: %s (ID: %d)", event.Title, event.ID)
	return event.ToResponse(), nil
}

// Update edits an event, optionally replacing either image
func (s *EventService) Update(ctx context.Context, actor Actor, id uint, input *EventInput, images EventImages) (*models.EventResponse, error) {
	// 1. Load
	event, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.apply(event); err != nil {
		return nil, err
	}

	// 2. Stage replacements
	oldKeys := make([]string, 0, 2)
	if images.Flyer != nil {
		oldKeys = append(oldKeys, event.ImageKey)
	}
	if images.Cover != nil {
		oldKeys = append(oldKeys, event.CoverKey)
	}
	staged, err := s.stageImages(ctx, actor, event, images)
	if err != nil {
		return nil, err
	}

	// 3. Save
	if err := s.eventRepo.Update(ctx, event); err != nil {
		s.uploads.Discard(ctx, staged...)
		return nil, err
	}

	// 4. Commit new, orphan replaced
	if len(staged) > 0 {
		if err := s.uploads.Commit(ctx, domain.OwnerEvent, event.ID, staged...); err != nil {
			log.Printf("⚠️ Failed to commit event images for event %d: %v", event.ID, err)
		}
		s.uploads.Orphan(ctx, oldKeys...)
	}
	s.cache.Delete(cacheKeyPublicEvents)
	s.activity.Record(ctx, actor, ActivityEntry{
		SubjectType: models.SubjectEvent,
		SubjectID:   event.ID,
		Action:      models.ActUpdate,
		Description: "Event: " + event.Title,
	})

	return event.ToResponse(), nil
}

// stageImages uploads whichever images are present and points the event at them
func (s *EventService) stageImages(ctx context.Context, actor Actor, event *models.Event, images EventImages) ([]*models.StoredObject, error) {
	staged := make([]*models.StoredObject, 0, 2)

	if images.Flyer != nil {
		obj, err := s.uploads.Stage(ctx, actor.AccountID, PrefixEventImages, images.Flyer)
		if err != nil {
			return nil, err
		}
		staged = append(staged, obj)
		event.ImageURL = obj.URL
		event.ImageKey = obj.Key
	}
	if images.Cover != nil {
		obj, err := s.uploads.Stage(ctx, actor.AccountID, PrefixEventImages, images.Cover)
		if err != nil {
			s.uploads.Discard(ctx, staged...)
			return nil, err
		}
		staged = append(staged, obj)
		event.CoverURL = obj.URL
		event.CoverKey = obj.Key
	}
	return staged, nil
}

// ListPublic returns active events by start date. With a viewer, each event
// carries whether the viewer marked interest.
func (s *EventService) ListPublic(ctx context.Context, viewer *domain.Session) ([]*models.EventResponse, error) {
	var events []*models.Event
	if cached, ok := s.cache.Get(cacheKeyPublicEvents); ok {
		events, _ = cached.([]*models.Event)
	}
	if events == nil {
		var err error
		events, err = s.eventRepo.List(ctx, string(domain.StatusActive), nil, 0)
		if err != nil {
			return nil, err
		}
		s.cache.Set(cacheKeyPublicEvents, events)
	}

	return s.withInterest(ctx, events, viewer)
}

// Upcoming returns active events that have not started yet
func (s *EventService) Upcoming(ctx context.Context, viewer *domain.Session, limit int) ([]*models.EventResponse, error) {
	now := time.Now()
	events, err := s.eventRepo.List(ctx, string(domain.StatusActive), &now, limit)
	if err != nil {
		return nil, err
	}
	return s.withInterest(ctx, events, viewer)
}

// List returns events for the admin screen; an empty status lists all
func (s *EventService) List(ctx context.Context, status string) ([]*models.EventResponse, error) {
	if status != "" {
		parsed, err := domain.ParsePublishStatus(status)
		if err != nil {
			return nil, err
		}
		status = string(parsed)
	}

	events, err := s.eventRepo.List(ctx, status, nil, 0)
	if err != nil {
		return nil, err
	}
	return s.withInterest(ctx, events, nil)
}

// Get returns one event; suspended events are visible to admins only
func (s *EventService) Get(ctx context.Context, id uint, viewer *domain.Session) (*models.EventResponse, error) {
	event, err := s.visible(ctx, id, viewer)
	if err != nil {
		return nil, err
	}

	result, err := s.withInterest(ctx, []*models.Event{event}, viewer)
	if err != nil {
		return nil, err
	}
	return result[0], nil
}

// SetStatus toggles active/suspended; repeating the current status is a no-op
func (s *EventService) SetStatus(ctx context.Context, actor Actor, id uint, status string) (*models.EventResponse, error) {
	event, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	from := event.Status
	next, changed, err := domain.ChangePublishStatus(domain.PublishStatus(from), status)
	if err != nil {
		return nil, err
	}
	if !changed {
		return event.ToResponse(), nil
	}

	if err := s.eventRepo.UpdateStatus(ctx, id, string(next)); err != nil {
		return nil, err
	}
	event.Status = string(next)

	s.cache.Delete(cacheKeyPublicEvents)
	s.activity.Record(ctx, actor, ActivityEntry{
		SubjectType: models.SubjectEvent,
		SubjectID:   id,
		Action:      models.ActStatusChange,
		FromState:   from,
		ToState:     event.Status,
		Description: "Event: " + event.Title,
	})
	return event.ToResponse(), nil
}

// Delete removes an event and releases both images
func (s *EventService) Delete(ctx context.Context, actor Actor, id uint) error {
	event, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.uploads.Orphan(ctx, event.ImageKey, event.CoverKey)

	s.cache.Delete(cacheKeyPublicEvents)
	s.activity.Record(ctx, actor, ActivityEntry{
		SubjectType: models.SubjectEvent,
		SubjectID:   id,
		Action:      models.ActDelete,
		FromState:   event.Status,
		Description: "Event: " + event.Title,
	})

	log.Printf("✅ Event deleted: %s (ID: %d)", event.Title, id)
	return nil
}

// MarkInterested records the viewer's interest once; repeating it changes nothing
func (s *EventService) MarkInterested(ctx context.Context, viewer *domain.Session, eventID uint) (*models.EventResponse, error) {
	return s.toggleInterest(ctx, viewer, eventID, true)
}

// UnmarkInterested removes the viewer's interest; repeating it changes nothing
func (s *EventService) UnmarkInterested(ctx context.Context, viewer *domain.Session, eventID uint) (*models.EventResponse, error) {
	return s.toggleInterest(ctx, viewer, eventID, false)
}

func (s *EventService) toggleInterest(ctx context.Context, viewer *domain.Session, eventID uint, interested bool) (*models.EventResponse, error) {
	if viewer == nil {
		return nil, domain.ErrUnauthorized
	}
	if _, err := s.visible(ctx, eventID, viewer); err != nil {
		return nil, err
	}

	var changed bool
	var err error
	if interested {
		changed, err = s.eventRepo.AddInterest(ctx, eventID, viewer.AccountID)
	} else {
		changed, err = s.eventRepo.RemoveInterest(ctx, eventID, viewer.AccountID)
	}
	if err != nil {
		return nil, err
	}
	if changed {
		s.cache.Delete(cacheKeyPublicEvents)
	}

	// reload for the current counter
	event, err := s.get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	resp := event.ToResponse()
	resp.Interested = &interested
	return resp, nil
}

func (s *EventService) withInterest(ctx context.Context, events []*models.Event, viewer *domain.Session) ([]*models.EventResponse, error) {
	result := make([]*models.EventResponse, len(events))
	ids := make([]uint, len(events))
	for i, e := range events {
		result[i] = e.ToResponse()
		ids[i] = e.ID
	}
	if viewer == nil || len(events) == 0 {
		return result, nil
	}

	marked, err := s.eventRepo.InterestedEventIDs(ctx, viewer.AccountID, ids)
	if err != nil {
		return nil, err
	}
	for _, r := range result {
		v := marked[r.ID]
		r.Interested = &v
	}
	return result, nil
}

func (s *EventService) visible(ctx context.Context, id uint, viewer *domain.Session) (*models.Event, error) {
	event, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.Status != string(domain.StatusActive) && !viewer.IsAdmin() {
		return nil, ErrEventNotFound
	}
	return event, nil
}

func (s *EventService) get(ctx context.Context, id uint) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}
