package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"adinsights/internal/infrastructure/session"
)

const userIDKey = "userID"

// NewAuth returns the bearer-session middleware guarding dashboard routes.
// The webhook and health routes are mounted outside it.
func NewAuth(verifier session.Verifier, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		tokenValue := strings.TrimPrefix(header, "Bearer ")
		if header == "" || tokenValue == header {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing bearer token",
			})
		}

		userID, err := verifier.UserID(c.UserContext(), tokenValue)
		if err != nil {
			logger.Debug("Session verification failed", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired session",
			})
		}

		c.Locals(userIDKey, userID)
		return c.Next()
	}
}

// UserID returns the authenticated user id set by the auth middleware.
func UserID(c *fiber.Ctx) string {
	userID, _ := c.Locals(userIDKey).(string)
	return userID
}
