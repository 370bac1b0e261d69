package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"clubportal/internal/adapters/persistence/models"
	"clubportal/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type eventFixture struct {
	svc     *EventService
	events  *MockEventRepo
	objects *MockStoredObjectRepo
	store   *memStore
	cache   *memCache
}

func newEventFixture() *eventFixture {
	f := &eventFixture{
		events:  new(MockEventRepo),
		objects: new(MockStoredObjectRepo),
		store:   newMemStore(),
		cache:   newMemCache(),
	}
	uploads := NewUploadService(f.store, f.objects, 1<<20, time.Hour, 50)
	activity, _ := newActivity()
	f.svc = NewEventService(f.events, uploads, activity, f.cache)
	return f
}

func boolPtr(b bool) *bool { return &b }

func paidInput() *EventInput {
	return &EventInput{
		Title:      "Spring Gala",
		Location:   "Main Hall",
		StartDate:  time.Date(2026, 4, 1, 18, 0, 0, 0, time.UTC),
		SignUpLink: "https://club.test/gala",
		IsFree:     boolPtr(false),
		Cost:       "$10",
	}
}

func TestEventService_CreatePaidEvent(t *testing.T) {
	f := newEventFixture()
	ctx := context.Background()

	f.objects.On("Create", ctx, mock.Anything).Return(nil).Twice()
	f.events.On("Create", ctx, mock.AnythingOfType("*models.Event")).
		Run(func(args mock.Arguments) { args.Get(1).(*models.Event).ID = 7 }).
		Return(nil).Once()
	f.objects.On("MarkCommitted", ctx, mock.MatchedBy(func(keys []string) bool { return len(keys) == 2 }), domain.OwnerEvent, uint(7)).
		Return(nil).Once()

	resp, err := f.svc.Create(ctx, Actor{AccountID: 9}, paidInput(), EventImages{Flyer: pngFile(), Cover: pngFile()})
	require.NoError(t, err)

	assert.Equal(t, uint(7), resp.ID)
	assert.Equal(t, "active", resp.Status)
	assert.Equal(t, "Cost: $10", resp.CostLabel)
	assert.NotContains(t, resp.CostLabel, "Free")
	assert.True(t, strings.HasPrefix(resp.ImageURL, "http://files.test/eventImages/"))
	assert.True(t, strings.HasPrefix(resp.CoverURL, "http://files.test/eventImages/"))
	assert.NotEqual(t, resp.ImageURL, resp.CoverURL)
	f.events.AssertExpectations(t)
	f.objects.AssertExpectations(t)
}

func TestEventService_CreateValidation(t *testing.T) {
	f := newEventFixture()
	ctx := context.Background()
	images := EventImages{Flyer: pngFile(), Cover: pngFile()}

	in := paidInput()
	in.Cost = ""
	_, err := f.svc.Create(ctx, Actor{AccountID: 9}, in, images)
	assert.ErrorIs(t, err, domain.ErrCostRequired)

	in = paidInput()
	end := in.StartDate.Add(-time.Hour)
	in.EndDate = &end
	_, err = f.svc.Create(ctx, Actor{AccountID: 9}, in, images)
	assert.ErrorIs(t, err, domain.ErrInvalidEventWindow)

	in = paidInput()
	in.SignUpLink = "ftp://club.test"
	_, err = f.svc.Create(ctx, Actor{AccountID: 9}, in, images)
	assert.ErrorIs(t, err, ErrInvalidLink)

	_, err = f.svc.Create(ctx, Actor{AccountID: 9}, paidInput(), EventImages{Flyer: pngFile()})
	assert.ErrorIs(t, err, ErrEventImagesMissing)

	f.events.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestEventService_CreateDiscardsImagesWhenInsertFails(t *testing.T) {
	f := newEventFixture()
	ctx := context.Background()

	f.objects.On("Create", ctx, mock.Anything).Return(nil).Twice()
	f.objects.On("DeleteByKey", ctx, mock.Anything).Return(nil).Twice()
	f.events.On("Create", ctx, mock.Anything).Return(assert.AnError).Once()

	_, err := f.svc.Create(ctx, Actor{AccountID: 9}, paidInput(), EventImages{Flyer: pngFile(), Cover: pngFile()})
	assert.ErrorIs(t, err, assert.AnError)
	assert.Empty(t, f.store.objects)
	f.objects.AssertExpectations(t)
}

func TestEventService_FreeEventDropsCost(t *testing.T) {
	f := newEventFixture()
	ctx := context.Background()

	f.objects.On("Create", ctx, mock.Anything).Return(nil)
	f.objects.On("MarkCommitted", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.events.On("Create", ctx, mock.Anything).Return(nil).Once()

	in := paidInput()
	in.IsFree = boolPtr(true)
	resp, err := f.svc.Create(ctx, Actor{AccountID: 9}, in, EventImages{Flyer: pngFile(), Cover: pngFile()})
	require.NoError(t, err)
	assert.Equal(t, "Free", resp.CostLabel)
	assert.Empty(t, resp.Cost)
}

func TestEventService_UpdateWithoutPricingKeepsPaidEvent(t *testing.T) {
	f := newEventFixture()
	ctx := context.Background()

	stored := &models.Event{ID: 3, Title: "Spring Gala", Status: "active", IsFree: false, Cost: "$10"}
	f.events.On("GetByID", ctx, uint(3)).Return(stored, nil).Once()
	f.events.On("Update", ctx, mock.MatchedBy(func(e *models.Event) bool {
		return !e.IsFree && e.Cost == "$10"
	})).Return(nil).Once()

	in := paidInput()
	in.Title = "Spring Gala 2026"
	in.IsFree = nil
	in.Cost = ""
	resp, err := f.svc.Update(ctx, Actor{AccountID: 9}, 3, in, EventImages{})
	require.NoError(t, err)
	assert.Equal(t, "Spring Gala 2026", resp.Title)
	assert.Equal(t, "Cost: $10", resp.CostLabel)
	f.events.AssertExpectations(t)
}

func TestEventService_UpdateCanMakeEventFree(t *testing.T) {
	f := newEventFixture()
	ctx := context.Background()

	f.events.On("GetByID", ctx, uint(3)).Return(&models.Event{ID: 3, Status: "active", Cost: "$10"}, nil).Once()
	f.events.On("Update", ctx, mock.Anything).Return(nil).Once()

	in := paidInput()
	in.IsFree = boolPtr(true)
	resp, err := f.svc.Update(ctx, Actor{AccountID: 9}, 3, in, EventImages{})
	require.NoError(t, err)
	assert.Equal(t, "Free", resp.CostLabel)
	assert.Empty(t, resp.Cost)
}

func TestEventService_CreateWithoutPricingIsFree(t *testing.T) {
	f := newEventFixture()
	ctx := context.Background()

	f.objects.On("Create", ctx, mock.Anything).Return(nil)
	f.objects.On("MarkCommitted", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.events.On("Create", ctx, mock.Anything).Return(nil).Once()

	in := paidInput()
	in.IsFree = nil
	resp, err := f.svc.Create(ctx, Actor{AccountID: 9}, in, EventImages{Flyer: pngFile(), Cover: pngFile()})
	require.NoError(t, err)
	assert.Equal(t, "Free", resp.CostLabel)
}

func TestEventService_SetStatusIsIdempotent(t *testing.T) {
	f := newEventFixture()
	ctx := context.Background()

	f.events.On("GetByID", ctx, uint(3)).Return(&models.Event{ID: 3, Status: "active"}, nil).Once()
	resp, err := f.svc.SetStatus(ctx, Actor{AccountID: 9}, 3, "active")
	require.NoError(t, err)
	assert.Equal(t, "active", resp.Status)
	f.events.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)

	f.cache.Set(cacheKeyPublicEvents, []*models.Event{})
	f.events.On("GetByID", ctx, uint(3)).Return(&models.Event{ID: 3, Status: "active"}, nil).Once()
	f.events.On("UpdateStatus", ctx, uint(3), "suspended").Return(nil).Once()
	resp, err = f.svc.SetStatus(ctx, Actor{AccountID: 9}, 3, "suspended")
	require.NoError(t, err)
	assert.Equal(t, "suspended", resp.Status)
	_, cached := f.cache.Get(cacheKeyPublicEvents)
	assert.False(t, cached)

	f.events.On("GetByID", ctx, uint(3)).Return(&models.Event{ID: 3, Status: "active"}, nil).Once()
	_, err = f.svc.SetStatus(ctx, Actor{AccountID: 9}, 3, "archived")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestEventService_SuspendedHiddenFromPublic(t *testing.T) {
	f := newEventFixture()
	ctx := context.Background()
	f.events.On("GetByID", ctx, uint(3)).Return(&models.Event{ID: 3, Status: "suspended"}, nil)
	f.events.On("InterestedEventIDs", ctx, uint(9), []uint{3}).Return(map[uint]bool{}, nil)

	_, err := f.svc.Get(ctx, 3, nil)
	assert.ErrorIs(t, err, ErrEventNotFound)

	_, err = f.svc.Get(ctx, 3, &domain.Session{AccountID: 2, AccountLevel: domain.LevelStaff})
	assert.ErrorIs(t, err, ErrEventNotFound)

	resp, err := f.svc.Get(ctx, 3, &domain.Session{AccountID: 9, AccountLevel: domain.LevelAdmin})
	require.NoError(t, err)
	assert.Equal(t, "suspended", resp.Status)
}

func TestEventService_ListPublicMarksViewerInterest(t *testing.T) {
	f := newEventFixture()
	ctx := context.Background()
	events := []*models.Event{
		{ID: 1, Title: "A", Status: "active", IsFree: true},
		{ID: 2, Title: "B", Status: "active", Cost: "5", InterestedCount: 3},
	}
	f.events.On("List", ctx, "active", (*time.Time)(nil), 0).Return(events, nil).Once()
	f.events.On("InterestedEventIDs", ctx, uint(4), []uint{1, 2}).Return(map[uint]bool{2: true}, nil).Once()

	anon, err := f.svc.ListPublic(ctx, nil)
	require.NoError(t, err)
	require.Len(t, anon, 2)
	assert.Nil(t, anon[0].Interested)

	// second call is served from the cache
	viewer := &domain.Session{AccountID: 4, AccountLevel: domain.LevelGuest}
	mine, err := f.svc.ListPublic(ctx, viewer)
	require.NoError(t, err)
	require.NotNil(t, mine[1].Interested)
	assert.False(t, *mine[0].Interested)
	assert.True(t, *mine[1].Interested)
	assert.Equal(t, "Cost: 5", mine[1].CostLabel)
	f.events.AssertExpectations(t)
}

func TestEventService_InterestIsIdempotent(t *testing.T) {
	f := newEventFixture()
	ctx := context.Background()
	viewer := &domain.Session{AccountID: 4, AccountLevel: domain.LevelGuest}

	f.events.On("GetByID", ctx, uint(5)).Return(&models.Event{ID: 5, Status: "active", InterestedCount: 1}, nil)
	f.events.On("AddInterest", ctx, uint(5), uint(4)).Return(true, nil).Once()
	f.events.On("AddInterest", ctx, uint(5), uint(4)).Return(false, nil).Once()

	f.cache.Set(cacheKeyPublicEvents, []*models.Event{})
	resp, err := f.svc.MarkInterested(ctx, viewer, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.InterestedCount)
	assert.True(t, *resp.Interested)
	_, cached := f.cache.Get(cacheKeyPublicEvents)
	assert.False(t, cached)

	// repeating leaves the cache alone since nothing changed
	f.cache.Set(cacheKeyPublicEvents, []*models.Event{})
	resp, err = f.svc.MarkInterested(ctx, viewer, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.InterestedCount)
	_, cached = f.cache.Get(cacheKeyPublicEvents)
	assert.True(t, cached)

	f.events.On("RemoveInterest", ctx, uint(5), uint(4)).Return(true, nil).Once()
	resp, err = f.svc.UnmarkInterested(ctx, viewer, 5)
	require.NoError(t, err)
	assert.False(t, *resp.Interested)

	_, err = f.svc.MarkInterested(ctx, nil, 5)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	f.events.AssertExpectations(t)
}

func TestEventService_ConcurrentInterestCountsEveryAccount(t *testing.T) {
	repo := newMemEventRepo(models.Event{ID: 5, Title: "Mixer", Status: "active"})
	activity, _ := newActivity()
	uploads := NewUploadService(newMemStore(), new(MockStoredObjectRepo), 1<<20, time.Hour, 50)
	svc := NewEventService(repo, uploads, activity, newMemCache())
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for _, id := range []uint{11, 12} {
		wg.Add(1)
		go func(accountID uint) {
			defer wg.Done()
			_, err := svc.MarkInterested(ctx, &domain.Session{AccountID: accountID, AccountLevel: domain.LevelGuest}, 5)
			errs <- err
		}(id)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	// a repeat mark by the same account is not counted
	resp, err := svc.MarkInterested(ctx, &domain.Session{AccountID: 11, AccountLevel: domain.LevelGuest}, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.InterestedCount)
	assert.True(t, *resp.Interested)

	resp, err = svc.UnmarkInterested(ctx, &domain.Session{AccountID: 12, AccountLevel: domain.LevelGuest}, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.InterestedCount)
}

func TestEventService_DeleteOrphansBothImages(t *testing.T) {
	f := newEventFixture()
	ctx := context.Background()

	f.events.On("GetByID", ctx, uint(3)).Return(&models.Event{ID: 3, Status: "active", ImageKey: "eventImages/a.png", CoverKey: "eventImages/b.png"}, nil)
	f.events.On("Delete", ctx, uint(3)).Return(nil).Once()
	f.objects.On("MarkOrphaned", ctx, []string{"eventImages/a.png", "eventImages/b.png"}).Return(nil).Once()

	require.NoError(t, f.svc.Delete(ctx, Actor{AccountID: 9}, 3))
	f.objects.AssertExpectations(t)
}
