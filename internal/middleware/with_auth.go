package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/studypath-api/internal/session"
	"github.com/noah-isme/studypath-api/internal/utils"
)

// SessionFrom returns the session bound by JWTProtected.
func SessionFrom(c *fiber.Ctx) (session.Session, bool) {
	if s, ok := c.Locals(SessionLocalKey).(session.Session); ok && s.Valid() {
		return s, true
	}
	return session.FromContext(c.UserContext())
}

// RequireSession rejects requests that reach handler without a session.
func RequireSession(handler fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := SessionFrom(c); !ok {
			return utils.Fail(c, fiber.StatusUnauthorized, "authentication required", nil)
		}
		return handler(c)
	}
}
