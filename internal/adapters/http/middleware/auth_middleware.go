package middleware

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"clubportal/internal/core/domain"
	"clubportal/internal/core/policy"
	"clubportal/internal/core/services"
	"clubportal/internal/pkg/jwt"
	"clubportal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const sessionLocal = "session"

// TokenValidator checks access tokens
type TokenValidator interface {
	ValidateAccessToken(accessToken string) (*jwt.Claims, error)
}

// SessionLoader resolves the current identity behind a token
type SessionLoader interface {
	Load(ctx context.Context, accountID uint) (*domain.Session, error)
}

// ParamsFunc extracts policy params (such as target ids) from the request
type ParamsFunc func(c *fiber.Ctx) map[string]any

func extractToken(c *fiber.Ctx) string {
	// 1. Cookie first
	if token := c.Cookies("access_token"); token != "" {
		return token
	}

	// 2. Then Authorization header
	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// extractStreamToken also accepts ?access_token=, since EventSource cannot set headers
func extractStreamToken(c *fiber.Ctx) string {
	if token := extractToken(c); token != "" {
		return token
	}
	return c.Query("access_token")
}

// AuthMiddleware requires a valid access token and loads the live session.
// Level and role status come from the account, not from the token.
func AuthMiddleware(tokens TokenValidator, sessions SessionLoader) fiber.Handler {
	return authenticate(tokens, sessions, extractToken)
}

// StreamAuth is AuthMiddleware for the session stream; only there may the
// token travel in the query string.
func StreamAuth(tokens TokenValidator, sessions SessionLoader) fiber.Handler {
	return authenticate(tokens, sessions, extractStreamToken)
}

func authenticate(tokens TokenValidator, sessions SessionLoader, extract func(*fiber.Ctx) string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := extract(c)
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		claims, err := tokens.ValidateAccessToken(accessToken)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		session, err := sessions.Load(c.UserContext(), claims.UserID)
		if err != nil {
			if errors.Is(err, services.ErrSessionInvalid) {
				return response.Unauthorized(c, "Session is no longer valid")
			}
			return response.InternalServerError(c, "Failed to load session")
		}

		c.Locals(sessionLocal, session)
		c.Locals("userID", session.AccountID)
		return c.Next()
	}
}

// OptionalAuth sets the session when a valid token is present and never rejects
func OptionalAuth(tokens TokenValidator, sessions SessionLoader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := extractToken(c)
		if accessToken == "" {
			return c.Next()
		}

		claims, err := tokens.ValidateAccessToken(accessToken)
		if err != nil {
			return c.Next()
		}
		if session, err := sessions.Load(c.UserContext(), claims.UserID); err == nil {
			c.Locals(sessionLocal, session)
			c.Locals("userID", session.AccountID)
		}
		return c.Next()
	}
}

// Authorize asks the policy engine whether the session may perform action
func Authorize(engine *policy.Engine, action string, params ParamsFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session := GetSession(c)
		if session == nil {
			return response.Unauthorized(c, "Unauthorized")
		}

		ctx := policy.RequestContext{Requester: session}
		if params != nil {
			ctx.Params = params(c)
		}
		if !engine.Allowed(ctx, action) {
			return response.Forbidden(c, "You don't have permission to access this resource")
		}
		return c.Next()
	}
}

// TargetID exposes the :id route param as params.target_id
func TargetID(c *fiber.Ctx) map[string]any {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return nil
	}
	return map[string]any{"target_id": uint(id)}
}

// GetSession returns the session set by AuthMiddleware or OptionalAuth
func GetSession(c *fiber.Ctx) *domain.Session {
	session, _ := c.Locals(sessionLocal).(*domain.Session)
	return session
}

// GetActor returns the caller as a service actor
func GetActor(c *fiber.Ctx) services.Actor {
	actor := services.Actor{IP: c.IP()}
	if session := GetSession(c); session != nil {
		actor.AccountID = session.AccountID
	}
	return actor
}
