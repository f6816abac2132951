package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/hiring-pipeline/internal/models"
	"alfredoptarigan/hiring-pipeline/internal/repositories"
)

const actorKey = "actor"

// Identity resolves the authenticated user from the gateway-supplied header.
// Credential verification happens upstream; this service only needs the
// identity and role for the access policy.
func Identity(users repositories.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rawID := c.Get("X-User-ID")
		if rawID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing identity",
			})
		}

		userID, err := uuid.Parse(rawID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid identity",
			})
		}

		user, err := users.FindByID(userID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unknown identity",
			})
		}

		c.Locals(actorKey, user)
		return c.Next()
	}
}

// Actor returns the resolved user for the request, or nil when the identity
// middleware did not run.
func Actor(c *fiber.Ctx) *models.User {
	if user, ok := c.Locals(actorKey).(*models.User); ok {
		return user
	}
	return nil
}
