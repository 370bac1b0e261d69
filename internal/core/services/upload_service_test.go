package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"clubportal/internal/adapters/persistence/models"
	"clubportal/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUploadService_StageSniffsType(t *testing.T) {
	store := newMemStore()
	objects := new(MockStoredObjectRepo)
	svc := NewUploadService(store, objects, 1<<20, time.Hour, 10)
	ctx := context.Background()

	objects.On("Create", ctx, mock.MatchedBy(func(o *models.StoredObject) bool {
		return o.State == domain.ObjectStaged && o.ContentType == "image/png" && o.UploadedBy == 4
	})).Return(nil).Once()

	obj, err := svc.Stage(ctx, 4, PrefixProfilePictures, pngFile())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(obj.Key, "profilePictures/"))
	assert.True(t, strings.HasSuffix(obj.Key, ".png"))
	assert.True(t, store.has(obj.Key))
	// the full body reaches the store, not just the sniffed head
	assert.Len(t, store.objects[obj.Key], int(pngFile().Size))
	objects.AssertExpectations(t)
}

func TestUploadService_StageRejects(t *testing.T) {
	store := newMemStore()
	objects := new(MockStoredObjectRepo)
	svc := NewUploadService(store, objects, 16, time.Hour, 10)
	ctx := context.Background()

	_, err := svc.Stage(ctx, 4, PrefixPartnerLogos, nil)
	assert.ErrorIs(t, err, ErrFileRequired)

	_, err = svc.Stage(ctx, 4, PrefixPartnerLogos, pngFile())
	assert.ErrorIs(t, err, ErrFileTooLarge)

	svc = NewUploadService(store, objects, 1<<20, time.Hour, 10)
	_, err = svc.Stage(ctx, 4, PrefixPartnerLogos, textFile())
	assert.ErrorIs(t, err, ErrUnsupportedFileType)

	assert.Empty(t, store.objects)
	objects.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUploadService_StageCleansUpWhenTrackingFails(t *testing.T) {
	store := newMemStore()
	objects := new(MockStoredObjectRepo)
	svc := NewUploadService(store, objects, 1<<20, time.Hour, 10)
	ctx := context.Background()

	objects.On("Create", ctx, mock.Anything).Return(assert.AnError).Once()

	_, err := svc.Stage(ctx, 4, PrefixEventImages, pngFile())
	assert.ErrorIs(t, err, assert.AnError)
	assert.Empty(t, store.objects)
}

func TestUploadService_DiscardAndOrphan(t *testing.T) {
	store := newMemStore()
	objects := new(MockStoredObjectRepo)
	svc := NewUploadService(store, objects, 1<<20, time.Hour, 10)
	ctx := context.Background()

	objects.On("Create", ctx, mock.Anything).Return(nil).Once()
	obj, err := svc.Stage(ctx, 4, PrefixEventImages, pngFile())
	require.NoError(t, err)

	objects.On("DeleteByKey", ctx, obj.Key).Return(nil).Once()
	svc.Discard(ctx, obj, nil)
	assert.False(t, store.has(obj.Key))

	// empty keys are skipped entirely
	svc.Orphan(ctx, "", "")
	objects.AssertNotCalled(t, "MarkOrphaned", mock.Anything, mock.Anything)

	objects.On("MarkOrphaned", ctx, []string{"a.png"}).Return(nil).Once()
	svc.Orphan(ctx, "", "a.png")
	objects.AssertExpectations(t)
}

func TestUploadService_SweepOrphans(t *testing.T) {
	store := newMemStore()
	store.objects["eventImages/old.png"] = []byte{1}
	store.objects["eventImages/stale.png"] = []byte{2}
	objects := new(MockStoredObjectRepo)
	svc := NewUploadService(store, objects, 1<<20, time.Hour, 25)
	ctx := context.Background()

	objects.On("ListSweepable", ctx, mock.MatchedBy(func(before time.Time) bool {
		return time.Since(before) >= time.Hour
	}), 25).Return([]*models.StoredObject{
		{Key: "eventImages/old.png", State: domain.ObjectOrphaned},
		{Key: "eventImages/stale.png", State: domain.ObjectStaged},
	}, nil).Once()
	objects.On("DeleteByKey", ctx, "eventImages/old.png").Return(nil).Once()
	objects.On("DeleteByKey", ctx, "eventImages/stale.png").Return(assert.AnError).Once()

	n, err := svc.SweepOrphans(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Empty(t, store.objects)
	objects.AssertExpectations(t)
}
