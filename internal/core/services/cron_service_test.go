package services

import (
	"context"
	"testing"
	"time"

	"clubportal/internal/adapters/persistence/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewCronService_RejectsBadSchedule(t *testing.T) {
	_, err := NewCronService("every fifteen minutes", nil, nil)
	assert.Error(t, err)

	// five-field specs lack the seconds field
	_, err = NewCronService("*/15 * * * *", nil, nil)
	assert.Error(t, err)
}

func TestCronService_SweepJob(t *testing.T) {
	objects := new(MockStoredObjectRepo)
	uploads := NewUploadService(newMemStore(), objects, 1<<20, time.Hour, 10)
	svc, err := NewCronService("0 */15 * * * *", uploads, nil)
	require.NoError(t, err)

	objects.On("ListSweepable", mock.Anything, mock.Anything, 10).
		Return([]*models.StoredObject{{Key: "k"}}, nil).Once()
	objects.On("DeleteByKey", mock.Anything, "k").Return(nil).Once()

	svc.SweepOrphanUploads()
	objects.AssertExpectations(t)
}

func TestCronService_RecoversFromPanic(t *testing.T) {
	svc := &CronService{}
	ran := false
	assert.NotPanics(t, func() {
		svc.runWithRecovery("boom", func(ctx context.Context) {
			ran = true
			panic("boom")
		})
	})
	assert.True(t, ran)
}
