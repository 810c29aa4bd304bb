package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/inklab/canvasdb/internal/middleware"
	"github.com/inklab/canvasdb/internal/services"
	"github.com/inklab/canvasdb/internal/types"
	"github.com/inklab/canvasdb/internal/utils"
	"gorm.io/gorm"
)

// AccessHandler handles canvas sharing routes
type AccessHandler struct {
	DB *gorm.DB
}

// AccessRequest names the person on a single grant or revoke
type AccessRequest struct {
	PersonID string `json:"personId"`
}

// AccessByTagRequest scopes a bulk grant or revoke by tags
type AccessByTagRequest struct {
	TagIDs    types.FlexList[string] `json:"tagIds"`
	PersonIDs types.FlexList[string] `json:"personIds,omitempty"`
}

// GiveAccess handles PUT /api/canvas/:id/access
// @Summary Grant canvas access
// @Description Grant a person access to a canvas; granting twice is a no-op
// @Tags CanvasAccess
// @Accept json
// @Produce json
// @Param id path string true "Canvas ID"
// @Param body body AccessRequest true "Person to grant"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /canvas/{id}/access [put]
func (h *AccessHandler) GiveAccess(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "canvas.authorization.user")
	}

	canvasID := c.Params("id")
	ok, err := services.CanAccess(h.DB, canvasID, userID)
	if err != nil {
		return serviceError(c, err, "giveAccess")
	}
	if !ok {
		return utils.ForbiddenResponse(c, "No access to this canvas")
	}

	var body AccessRequest
	if err := c.BodyParser(&body); err != nil || body.PersonID == "" {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "canvas.validation.input")
	}

	if _, err := services.GiveAccess(h.DB, canvasID, body.PersonID); err != nil {
		return serviceError(c, err, "giveAccess")
	}
	return utils.MutationSuccessResponse(c)
}

// CancelAccess handles DELETE /api/canvas/:id/access
// @Summary Revoke canvas access
// @Description Revoke a person's access; owner records survive unless self-revoked
// @Tags CanvasAccess
// @Accept json
// @Produce json
// @Param id path string true "Canvas ID"
// @Param body body AccessRequest true "Person to revoke"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /canvas/{id}/access [delete]
func (h *AccessHandler) CancelAccess(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "canvas.authorization.user")
	}

	canvasID := c.Params("id")
	ok, err := services.CanAccess(h.DB, canvasID, userID)
	if err != nil {
		return serviceError(c, err, "cancelAccess")
	}
	if !ok {
		return utils.ForbiddenResponse(c, "No access to this canvas")
	}

	var body AccessRequest
	if err := c.BodyParser(&body); err != nil || body.PersonID == "" {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "canvas.validation.input")
	}

	if err := services.CancelAccess(h.DB, canvasID, body.PersonID, userID); err != nil {
		return serviceError(c, err, "cancelAccess")
	}
	return utils.MutationSuccessResponse(c)
}

// GiveAccessByTag handles PUT /api/canvas/access/tag
// @Summary Grant access by tag
// @Description Grant each person access to every tagged canvas visible to the requesting user
// @Tags CanvasAccess
// @Accept json
// @Produce json
// @Param body body AccessByTagRequest true "Tags and people"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /canvas/access/tag [put]
func (h *AccessHandler) GiveAccessByTag(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "canvas.authorization.user")
	}

	var body AccessByTagRequest
	if err := c.BodyParser(&body); err != nil || len(body.TagIDs) == 0 || len(body.PersonIDs) == 0 {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "canvas.validation.input")
	}

	if err := services.GiveAccessByTag(h.DB, body.TagIDs.Slice(), body.PersonIDs.Slice(), userID); err != nil {
		return serviceError(c, err, "giveAccessByTag")
	}
	return utils.MutationSuccessResponse(c)
}

// CancelAccessByTag handles DELETE /api/canvas/access/tag
// @Summary Revoke access by tag
// @Description On every tagged canvas visible to the requesting user, revoke everyone else's access
// @Tags CanvasAccess
// @Accept json
// @Produce json
// @Param body body AccessByTagRequest true "Tags"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /canvas/access/tag [delete]
func (h *AccessHandler) CancelAccessByTag(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "canvas.authorization.user")
	}

	var body AccessByTagRequest
	if err := c.BodyParser(&body); err != nil || len(body.TagIDs) == 0 {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "canvas.validation.input")
	}

	if err := services.CancelAccessByTag(h.DB, body.TagIDs.Slice(), userID); err != nil {
		return serviceError(c, err, "cancelAccessByTag")
	}
	return utils.MutationSuccessResponse(c)
}
