package services

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	tokenCleanupSchedule = "0 0 3 * * *"
	cronJobTimeout       = 5 * time.Minute
)

// CronService runs the periodic maintenance jobs
type CronService struct {
	cron    *cron.Cron
	uploads *UploadService
	auth    *AuthService
}

// NewCronService creates the scheduler and registers its jobs
func NewCronService(sweepSchedule string, uploads *UploadService, auth *AuthService) (*CronService, error) {
	s := &CronService{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithSeconds(),
		),
		uploads: uploads,
		auth:    auth,
	}

	if _, err := s.cron.AddFunc(sweepSchedule, s.SweepOrphanUploads); err != nil {
		return nil, err
	}
	if _, err := s.cron.AddFunc(tokenCleanupSchedule, s.CleanupExpiredTokens); err != nil {
		return nil, err
	}
	return s, nil
}

// Start begins the scheduler
func (s *CronService) Start() {
	s.cron.Start()
	log.Printf("🚀 Cron started with %d jobs", len(s.cron.Entries()))
}

// Stop waits for running jobs to finish
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 Cron stopped")
}

// SweepOrphanUploads deletes released and abandoned uploads
func (s *CronService) SweepOrphanUploads() {
	s.runWithRecovery("SweepOrphanUploads", func(ctx context.Context) {
		n, err := s.uploads.SweepOrphans(ctx)
		if err != nil {
			log.Printf("❌ Orphan sweep failed: %v", err)
			return
		}
		if n > 0 {
			log.Printf("🧹 Swept %d orphaned uploads", n)
		}
	})
}

// CleanupExpiredTokens removes expired and revoked refresh tokens
func (s *CronService) CleanupExpiredTokens() {
	s.runWithRecovery("CleanupExpiredTokens", func(ctx context.Context) {
		n, err := s.auth.CleanupExpiredTokens(ctx)
		if err != nil {
			log.Printf("❌ Token cleanup failed: %v", err)
			return
		}
		log.Printf("🧹 Removed %d dead refresh tokens", n)
	})
}

func (s *CronService) runWithRecovery(name string, job func(ctx context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ Cron job %s panicked: %v", name, r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), cronJobTimeout)
	defer cancel()
	job(ctx)
}
