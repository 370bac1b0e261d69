package handlers

import (
	"context"
	"time"

	"clubportal/internal/config"

	"github.com/gofiber/fiber/v2"
)

// Pinger is a dependency that can report its own health
type Pinger interface {
	Ping(ctx context.Context) error
	Name() string
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	mode     string
	checkers []Pinger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(mode string, checkers ...Pinger) *HealthHandler {
	return &HealthHandler{mode: mode, checkers: checkers}
}

// Root handles root endpoint
// @Summary Root endpoint
// @Description Returns API status
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "running",
		"message": "🚀 Club Portal API v1.0 is running",
		"mode":    h.mode,
		"docs":    "/swagger/index.html",
	})
}

// HealthCheck handles health check
// @Summary Health check
// @Description Check API, database, storage and relay health
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
	defer cancel()

	status := "ok"
	checks := fiber.Map{"api": "healthy"}

	// Check database
	checks["database"] = "healthy"
	if err := config.HealthCheck(ctx); err != nil {
		checks["database"] = "unhealthy"
		status = "degraded"
	}

	for _, checker := range h.checkers {
		checks[checker.Name()] = "healthy"
		if err := checker.Ping(ctx); err != nil {
			checks[checker.Name()] = "unhealthy"
			status = "degraded"
		}
	}

	code := fiber.StatusOK
	if status != "ok" {
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(fiber.Map{
		"status": status,
		"checks": checks,
	})
}

// APIInfo handles API v1 info
// @Summary API v1 Info
// @Description Returns API v1 information
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1 [get]
func (h *HealthHandler) APIInfo(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Club Portal API v1.0",
		"version": "1.0.0",
	})
}
