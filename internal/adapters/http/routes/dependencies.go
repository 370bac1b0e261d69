package routes

import (
	"clubportal/internal/adapters/cache"
	"clubportal/internal/adapters/http/handlers"
	"clubportal/internal/adapters/persistence/repositories"
	"clubportal/internal/adapters/storage"
	"clubportal/internal/config"
	"clubportal/internal/core/policy"
	"clubportal/internal/core/services"

	"gorm.io/gorm"
)

// Dependencies holds every service the HTTP layer and the cron jobs use
type Dependencies struct {
	Config *config.Config
	Policy *policy.Engine
	Store  storage.ObjectStore
	Hub    *services.SessionHub

	// Extra dependencies reported by /health
	Checks []handlers.Pinger

	Sessions        *services.SessionService
	Auth            *services.AuthService
	Accounts        *services.AccountService
	Roles           *services.RoleService
	PartnerRequests *services.PartnerRequestService
	Partners        *services.PartnerService
	Events          *services.EventService
	Members         *services.MemberService
	Dashboard       *services.DashboardService
	Activity        *services.ActivityService
	Uploads         *services.UploadService
}

// NewDependencies wires repositories and services
func NewDependencies(db *gorm.DB, cfg *config.Config, engine *policy.Engine, store storage.ObjectStore, hub *services.SessionHub) *Dependencies {
	// Initialize repositories
	accountRepo := repositories.NewAccountRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	activityRepo := repositories.NewActivityRepository(db)
	partnerRequestRepo := repositories.NewPartnerRequestRepository(db)
	partnerRepo := repositories.NewPartnerRepository(db)
	eventRepo := repositories.NewEventRepository(db)
	storedObjectRepo := repositories.NewStoredObjectRepository(db)

	// Caches
	sessionCache := cache.New(cfg.Session.CacheTTL)
	directoryCache := cache.New(cfg.Session.CacheTTL)

	// Initialize services
	sessionService := services.NewSessionService(accountRepo, sessionCache, hub)
	activityService := services.NewActivityService(activityRepo)
	uploadService := services.NewUploadService(
		store,
		storedObjectRepo,
		cfg.Storage.MaxUploadBytes(),
		cfg.Sweep.Grace,
		cfg.Sweep.Batch,
	)
	authService := services.NewAuthService(accountRepo, refreshTokenRepo, sessionService, cfg)
	accountService := services.NewAccountService(accountRepo, refreshTokenRepo, uploadService, sessionService)
	roleService := services.NewRoleService(accountRepo, activityService, sessionService)
	partnerRequestService := services.NewPartnerRequestService(partnerRequestRepo, accountRepo, activityService, sessionService)
	partnerService := services.NewPartnerService(partnerRepo, uploadService, activityService, directoryCache)
	eventService := services.NewEventService(eventRepo, uploadService, activityService, directoryCache)
	memberService := services.NewMemberService(accountRepo, refreshTokenRepo, roleService, activityService, sessionService)
	dashboardService := services.NewDashboardService(accountService, roleService, partnerRequestService, eventService, memberService)

	return &Dependencies{
		Config:          cfg,
		Policy:          engine,
		Store:           store,
		Hub:             hub,
		Checks:          []handlers.Pinger{store},
		Sessions:        sessionService,
		Auth:            authService,
		Accounts:        accountService,
		Roles:           roleService,
		PartnerRequests: partnerRequestService,
		Partners:        partnerService,
		Events:          eventService,
		Members:         memberService,
		Dashboard:       dashboardService,
		Activity:        activityService,
		Uploads:         uploadService,
	}
}
