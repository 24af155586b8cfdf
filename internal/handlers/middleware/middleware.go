package middleware

import (
	"context"
	"strings"

	"gatehouse/config"
	"gatehouse/internal/logger"
	. "gatehouse/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SessionResolver maps a bearer token to its user.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*User, error)
}

type Middleware struct {
	sessions SessionResolver
	config   config.Config
	log      logger.Logger
}

func New(sessions SessionResolver, config config.Config) Middleware {
	return Middleware{
		sessions: sessions,
		config:   config,
		log:      logger.New("middleware"),
	}
}

// RequireSession authenticates the bearer token and stores the user and
// token in locals for downstream handlers.
func (m Middleware) RequireSession(c *fiber.Ctx) error {
	token := bearerToken(c)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).
			JSON(fiber.Map{"message": "error", "error": "missing bearer token"})
	}

	user, err := m.sessions.Resolve(c.Context(), token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).
			JSON(fiber.Map{"message": "error", "error": "invalid or expired session"})
	}

	c.Locals("user", *user)
	c.Locals("token", token)
	return c.Next()
}

// RequireAdmin gates admin-only routes. Runs after RequireSession.
func (m Middleware) RequireAdmin(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(User)
	if !ok || !user.IsAdmin() {
		return c.Status(fiber.StatusForbidden).
			JSON(fiber.Map{"message": "error", "error": "admin access required"})
	}
	return c.Next()
}

// RequireGuard gates gate-operation routes. Admins pass too.
func (m Middleware) RequireGuard(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(User)
	if !ok || (!user.IsGuard() && !user.IsAdmin()) {
		return c.Status(fiber.StatusForbidden).
			JSON(fiber.Map{"message": "error", "error": "guard access required"})
	}
	return c.Next()
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if token, found := strings.CutPrefix(header, "Bearer "); found {
		return strings.TrimSpace(token)
	}
	return ""
}
