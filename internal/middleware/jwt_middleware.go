package middleware

import (
	"log"
	"strings"

	"promptsite/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired is a Fiber middleware to check for a valid JWT token.
// Every rejection uses the same body so callers cannot probe which part
// of the check failed. Detail goes to the log only.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return notAuthenticated(c)
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return notAuthenticated(c)
		}

		userID, err := authService.ResolveToken(parts[1])
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return notAuthenticated(c)
		}

		// Store the identity in Fiber context for subsequent handlers
		c.Locals("user_id", userID)

		// Continue to the next handler
		return c.Next()
	}
}

func notAuthenticated(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Not authenticated",
	})
}
