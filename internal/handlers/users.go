package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/inklab/canvasdb/internal/middleware"
	"github.com/inklab/canvasdb/internal/services"
	"github.com/inklab/canvasdb/internal/utils"
	"gorm.io/gorm"
)

// UserHandler handles identity read routes
type UserHandler struct {
	DB *gorm.DB
}

// UserMeResponse is the authenticated user's own profile
type UserMeResponse struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

// UserListEntry is one grant target in the share dialog
type UserListEntry struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Me handles GET /api/user/me
// @Summary Read own profile
// @Tags User
// @Produce json
// @Success 200 {object} UserMeResponse
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /user/me [get]
func (h *UserHandler) Me(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "user.authorization")
	}

	user, err := services.ReadUserByID(h.DB, userID)
	if err != nil {
		return serviceError(c, err, "userMe")
	}

	return c.Status(fiber.StatusOK).JSON(UserMeResponse{
		UID:         user.ID,
		DisplayName: user.DisplayName,
		Email:       user.Email,
	})
}

// ListUsers handles GET /api/user/users
// @Summary List users
// @Description List enabled users as grant targets; only id and email are exposed
// @Tags User
// @Produce json
// @Success 200 {array} UserListEntry
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /user/users [get]
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	users, err := services.ListUsers(h.DB)
	if err != nil {
		return serviceError(c, err, "listUsers")
	}

	entries := make([]UserListEntry, len(users))
	for i, u := range users {
		entries[i] = UserListEntry{ID: u.ID, Email: u.Email}
	}
	return c.Status(fiber.StatusOK).JSON(entries)
}
