package services

import (
	"context"
	"testing"
	"time"

	"clubportal/internal/adapters/persistence/models"
	"clubportal/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newPartnerFixture() (*PartnerService, *MockPartnerRepo, *MockStoredObjectRepo, *memCache) {
	partners := new(MockPartnerRepo)
	objects := new(MockStoredObjectRepo)
	cache := newMemCache()
	uploads := NewUploadService(newMemStore(), objects, 1<<20, time.Hour, 50)
	activity, _ := newActivity()
	return NewPartnerService(partners, uploads, activity, cache), partners, objects, cache
}

func TestPartnerService_CreateRequiresLogo(t *testing.T) {
	svc, partners, _, _ := newPartnerFixture()

	_, err := svc.Create(context.Background(), Actor{AccountID: 9}, &PartnerInput{Title: "Chess"}, nil)
	assert.ErrorIs(t, err, ErrLogoRequired)

	_, err = svc.Create(context.Background(), Actor{AccountID: 9}, &PartnerInput{Title: ""}, pngFile())
	assert.ErrorIs(t, err, ErrTitleRequired)

	partners.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPartnerService_CreateCommitsLogo(t *testing.T) {
	svc, partners, objects, _ := newPartnerFixture()
	ctx := context.Background()

	objects.On("Create", ctx, mock.Anything).Return(nil).Once()
	partners.On("Create", ctx, mock.AnythingOfType("*models.Partner")).
		Run(func(args mock.Arguments) { args.Get(1).(*models.Partner).ID = 3 }).
		Return(nil).Once()
	objects.On("MarkCommitted", ctx, mock.Anything, domain.OwnerPartner, uint(3)).Return(nil).Once()

	p, err := svc.Create(ctx, Actor{AccountID: 9}, &PartnerInput{
		Title:       "Chess Club",
		WebsiteLink: "https://chess.test",
	}, pngFile())
	require.NoError(t, err)
	assert.Equal(t, "active", p.Status)
	assert.Contains(t, p.LogoURL, "partnerLogos/")
	objects.AssertExpectations(t)
}

func TestPartnerService_ListPublicCachesUntilChange(t *testing.T) {
	svc, partners, _, cache := newPartnerFixture()
	ctx := context.Background()

	partners.On("List", ctx, "active").Return([]*models.Partner{{ID: 1, Title: "A", Status: "active"}}, nil).Once()

	first, err := svc.ListPublic(ctx)
	require.NoError(t, err)
	second, err := svc.ListPublic(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	partners.AssertNumberOfCalls(t, "List", 1)

	partners.On("GetByID", ctx, uint(1)).Return(&models.Partner{ID: 1, Status: "active"}, nil).Once()
	partners.On("UpdateStatus", ctx, uint(1), "suspended").Return(nil).Once()
	_, err = svc.SetStatus(ctx, Actor{AccountID: 9}, 1, "suspended")
	require.NoError(t, err)

	_, ok := cache.Get(cacheKeyPublicPartners)
	assert.False(t, ok)
}

func TestPartnerService_SetStatusSameValueIsNoop(t *testing.T) {
	svc, partners, _, _ := newPartnerFixture()
	ctx := context.Background()

	partners.On("GetByID", ctx, uint(1)).Return(&models.Partner{ID: 1, Status: "suspended"}, nil).Once()

	p, err := svc.SetStatus(ctx, Actor{AccountID: 9}, 1, "SUSPENDED")
	require.NoError(t, err)
	assert.Equal(t, "suspended", p.Status)
	partners.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestPartnerService_GetSuspendedAdminOnly(t *testing.T) {
	svc, partners, _, _ := newPartnerFixture()
	ctx := context.Background()
	partners.On("GetByID", ctx, uint(1)).Return(&models.Partner{ID: 1, Status: "suspended"}, nil)

	_, err := svc.Get(ctx, 1, nil)
	assert.ErrorIs(t, err, ErrPartnerNotFound)

	p, err := svc.Get(ctx, 1, &domain.Session{AccountLevel: domain.LevelAdmin})
	require.NoError(t, err)
	assert.Equal(t, uint(1), p.ID)
}

func TestValidateLink(t *testing.T) {
	link, err := ValidateLink("  ")
	assert.NoError(t, err)
	assert.Empty(t, link)

	link, err = ValidateLink(" https://club.test/a ")
	assert.NoError(t, err)
	assert.Equal(t, "https://club.test/a", link)

	for _, bad := range []string{"club.test", "javascript:alert(1)", "https://"} {
		_, err = ValidateLink(bad)
		assert.ErrorIs(t, err, ErrInvalidLink, bad)
	}
}
