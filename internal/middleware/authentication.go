package middleware

import (
	"strings"

	app_errors "github.com/Xenn-00/warteschlangen-meister/internal/errors"
	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware prüft das statische API-Token. Mehr Session-Verwaltung braucht
// die Warteschlangen-API nicht; die Operator-Identität kommt als Header mit.
func AuthMiddleware(apiToken string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return app_errors.NewAppError(fiber.StatusUnauthorized, app_errors.ErrUnauthorized, "auth.unauthorized", nil)
		}

		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token != apiToken {
			return app_errors.NewAppError(fiber.StatusUnauthorized, app_errors.ErrUnauthorized, "auth.unauthorized", nil)
		}

		operatorID := c.Get("X-Operator-Id")
		if operatorID == "" {
			operatorID = "unknown"
		}
		c.Locals("operator_id", operatorID)

		return c.Next()
	}
}
