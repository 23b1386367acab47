package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/inventoryhub/backend/internal/dto"
)

// AdminRequired gates a route on the admin role. It must run after
// AuthRequired, which loads the role fresh from the database.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if UserRole(c) != "admin" {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: "Admin access required"})
		}
		return c.Next()
	}
}
