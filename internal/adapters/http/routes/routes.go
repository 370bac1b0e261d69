package routes

import (
	"time"

	"clubportal/internal/adapters/http/handlers"
	"clubportal/internal/adapters/http/middleware"
	"clubportal/internal/adapters/storage"
	"clubportal/internal/core/policy"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, deps *Dependencies) {
	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(deps.Config.AppMode, deps.Checks...)
	authHandler := handlers.NewAuthHandler(deps.Auth, deps.Accounts, deps.Config)
	profileHandler := handlers.NewProfileHandler(deps.Accounts)
	sessionHandler := handlers.NewSessionHandler(deps.Hub)
	roleHandler := handlers.NewRoleHandler(deps.Roles)
	partnerRequestHandler := handlers.NewPartnerRequestHandler(deps.PartnerRequests)
	partnerHandler := handlers.NewPartnerHandler(deps.Partners)
	eventHandler := handlers.NewEventHandler(deps.Events)
	dashboardHandler := handlers.NewDashboardHandler(deps.Dashboard)
	adminHandler := handlers.NewAdminHandler(deps.Members, deps.Activity)

	auth := middleware.AuthMiddleware(deps.Auth, deps.Sessions)
	optionalAuth := middleware.OptionalAuth(deps.Auth, deps.Sessions)
	can := func(action string) fiber.Handler {
		return middleware.Authorize(deps.Policy, action, nil)
	}
	canModifyMember := middleware.Authorize(deps.Policy, policy.ActionMemberModify, middleware.TargetID)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Local uploads are served straight from disk
	if local, ok := deps.Store.(*storage.LocalStore); ok {
		app.Static("/uploads", local.Root(), fiber.Static{
			MaxAge: int((24 * time.Hour).Seconds()),
		})
	}

	// API v1 group
	api := app.Group("/api/v1")
	api.Get("/", healthHandler.APIInfo)

	// Auth routes
	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", middleware.AuthRateLimiter(), authHandler.Register)
	authRoutes.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	authRoutes.Post("/refresh", middleware.AuthRateLimiter(), authHandler.RefreshToken)
	authRoutes.Post("/logout", authHandler.Logout)
	authRoutes.Get("/me", auth, middleware.NoCacheHeaders(), authHandler.Me)
	authRoutes.Post("/logout-all", auth, authHandler.LogoutAll)

	// Session snapshot and stream
	sessionRoutes := api.Group("/session", middleware.NoCacheHeaders())
	sessionRoutes.Get("/", auth, sessionHandler.Get)
	sessionRoutes.Get("/stream", middleware.StreamAuth(deps.Auth, deps.Sessions), sessionHandler.Stream)

	// Profile routes (any signed-in account)
	profileRoutes := api.Group("/profile", auth, middleware.NoCacheHeaders())
	profileRoutes.Get("/", profileHandler.GetProfile)
	profileRoutes.Put("/", profileHandler.UpdateProfile)
	profileRoutes.Put("/password", profileHandler.ChangePassword)
	profileRoutes.Post("/picture", profileHandler.UploadPicture)

	// Public team page
	api.Get("/team", middleware.CacheControl(time.Minute), profileHandler.ListTeam)

	// Dashboard
	api.Get("/dashboard", auth, can(policy.ActionDashboardView), middleware.NoCacheHeaders(), dashboardHandler.GetDashboard)

	// Role workflow
	roleRoutes := api.Group("/roles", auth)
	roleRoutes.Post("/request", can(policy.ActionRoleRequest), roleHandler.RequestRole)
	roleRoutes.Get("/requests", can(policy.ActionRoleReview), roleHandler.ListRequests)
	roleRoutes.Post("/requests/:id/approve", can(policy.ActionRoleReview), canModifyMember, roleHandler.Approve)
	roleRoutes.Post("/requests/:id/reject", can(policy.ActionRoleReview), canModifyMember, roleHandler.Reject)
	roleRoutes.Post("/staff/:id/remove", can(policy.ActionRoleReview), canModifyMember, roleHandler.RemoveStaff)

	// Partner applications
	requestRoutes := api.Group("/partner-requests", auth, can(policy.ActionPartnerRequestSubmit))
	requestRoutes.Post("/", partnerRequestHandler.Submit)
	requestRoutes.Get("/me", partnerRequestHandler.GetMine)

	// Public partner directory and events
	api.Get("/partners", middleware.CacheControl(time.Minute), partnerHandler.ListPublic)
	api.Get("/partners/:id", optionalAuth, partnerHandler.Get)
	api.Get("/events", optionalAuth, middleware.PrivateCacheHeaders(30*time.Second), eventHandler.ListPublic)
	api.Get("/events/:id", optionalAuth, eventHandler.Get)
	api.Post("/events/:id/interest", auth, can(policy.ActionEventInterest), eventHandler.MarkInterested)
	api.Delete("/events/:id/interest", auth, can(policy.ActionEventInterest), eventHandler.UnmarkInterested)

	// Admin routes
	admin := api.Group("/admin", auth, middleware.NoCacheHeaders())
	setupAdminRoutes(admin, can, canModifyMember, partnerRequestHandler, partnerHandler, eventHandler, dashboardHandler, adminHandler)
}

// setupAdminRoutes configures the admin console routes
func setupAdminRoutes(
	router fiber.Router,
	can func(string) fiber.Handler,
	canModifyMember fiber.Handler,
	partnerRequestHandler *handlers.PartnerRequestHandler,
	partnerHandler *handlers.PartnerHandler,
	eventHandler *handlers.EventHandler,
	dashboardHandler *handlers.DashboardHandler,
	adminHandler *handlers.AdminHandler,
) {
	router.Get("/console", can(policy.ActionConsoleView), dashboardHandler.GetConsole)
	router.Get("/activity", can(policy.ActionConsoleView), adminHandler.ListActivity)

	// Partner requests
	requests := router.Group("/partner-requests", can(policy.ActionPartnerRequestReview))
	requests.Get("/", partnerRequestHandler.List)
	requests.Post("/:id/approve", partnerRequestHandler.Approve)
	requests.Post("/:id/reject", partnerRequestHandler.Reject)

	// Partners
	partners := router.Group("/partners", can(policy.ActionPartnerManage))
	partners.Get("/", partnerHandler.List)
	partners.Get("/:id", partnerHandler.Get)
	partners.Post("/", partnerHandler.Create)
	partners.Put("/:id", partnerHandler.Update)
	partners.Patch("/:id/status", partnerHandler.SetStatus)
	partners.Delete("/:id", partnerHandler.Delete)

	// Events
	events := router.Group("/events", can(policy.ActionEventManage))
	events.Get("/", eventHandler.List)
	events.Get("/:id", eventHandler.Get)
	events.Post("/", eventHandler.Create)
	events.Put("/:id", eventHandler.Update)
	events.Patch("/:id/status", eventHandler.SetStatus)
	events.Delete("/:id", eventHandler.Delete)

	// Members
	members := router.Group("/members", can(policy.ActionMemberManage))
	members.Get("/", adminHandler.ListMembers)
	members.Get("/stats", adminHandler.Stats)
	members.Get("/export", adminHandler.ExportMembers)
	members.Put("/:id/level", canModifyMember, adminHandler.SetLevel)
	members.Delete("/:id", canModifyMember, adminHandler.DeleteMember)
}
