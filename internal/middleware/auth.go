package middleware

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/inklab/canvasdb/internal/services"
	"github.com/inklab/canvasdb/internal/types"
)

// AuthUser validates that the request carries a valid user session and
// stores the resolved user id in the request context.
func AuthUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return authorize(c, []string{"user"}, "canvas.authorization.user")
	}
}

// UserID returns the requesting user's id resolved by AuthUser.
func UserID(c *fiber.Ctx) (string, error) {
	id, ok := c.Locals("userID").(string)
	if !ok || id == "" {
		return "", fmt.Errorf("user not found in context")
	}
	return id, nil
}

// authorize performs the authorization check
func authorize(c *fiber.Ctx, roles []string, errorType string) error {
	// Get session cookie
	session := c.Cookies("cookie_session")
	if session == "" {
		return &types.CustomError{
			Code:    fiber.StatusForbidden,
			Message: "Authorizer cookie \"cookie_session\" not found",
			Type:    errorType,
		}
	}

	// Validate session
	user, err := services.ValidateSession(session, roles)
	if err != nil {
		return &types.CustomError{
			Code:    fiber.StatusForbidden,
			Message: fmt.Sprintf("Invalid session: %v", err),
			Type:    errorType,
		}
	}

	c.Locals("userID", user.ID)
	c.Locals("user", user)

	return c.Next()
}
