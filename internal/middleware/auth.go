package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/inventoryhub/backend/internal/dto"
	"github.com/inventoryhub/backend/internal/models"
	"github.com/inventoryhub/backend/internal/services"
)

// UserLookup resolves a session's user id to the current user row, so
// role changes take effect on the next request.
type UserLookup interface {
	ByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// AuthRequired resolves the bearer token to a live session and loads
// the owning user into the request context.
func AuthRequired(sessions *services.SessionService, users UserLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok := bearerToken(c)

		userID, err := sessions.Resolve(c.Context(), tok)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrSessionExpired):
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "Session expired"})
			case errors.Is(err, services.ErrUnauthorized):
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "Unauthorized"})
			default:
				return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "Internal server error"})
			}
		}

		user, err := users.ByID(c.Context(), userID)
		if err != nil {
			// Session outlived its user.
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "Unauthorized"})
		}

		c.Locals("user_id", user.ID)
		c.Locals("user_role", user.Role)
		c.Locals("session_token", tok)
		return c.Next()
	}
}

// UserID returns the authenticated user id set by AuthRequired.
func UserID(c *fiber.Ctx) uuid.UUID {
	id, _ := c.Locals("user_id").(uuid.UUID)
	return id
}

// UserRole returns the authenticated user's role set by AuthRequired.
func UserRole(c *fiber.Ctx) string {
	role, _ := c.Locals("user_role").(string)
	return role
}

// SessionToken returns the raw bearer token of the current request.
func SessionToken(c *fiber.Ctx) string {
	tok, _ := c.Locals("session_token").(string)
	return tok
}

func bearerToken(c *fiber.Ctx) string {
	auth := c.Get(fiber.HeaderAuthorization)
	if len(auth) > 7 && strings.EqualFold(auth[:7], "Bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
