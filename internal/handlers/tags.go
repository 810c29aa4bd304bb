package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/inklab/canvasdb/internal/middleware"
	"github.com/inklab/canvasdb/internal/pagination"
	"github.com/inklab/canvasdb/internal/services"
	"github.com/inklab/canvasdb/internal/types"
	"github.com/inklab/canvasdb/internal/utils"
	"gorm.io/gorm"
)

// TagHandler handles tag lifecycle and canvas tagging routes
type TagHandler struct {
	DB *gorm.DB
}

// TagRequest is the create/update tag body
type TagRequest struct {
	Name        string `json:"name"`
	Color       string `json:"color,omitempty"`
	Description string `json:"description,omitempty"`
}

// ModifyCanvasTagsRequest names the tags to add to or remove from a canvas
type ModifyCanvasTagsRequest struct {
	TagIDs types.FlexList[string] `json:"tagIds"`
}

// CreateTag handles POST /api/tags
// @Summary Create a tag
// @Tags Tags
// @Accept json
// @Produce json
// @Param body body TagRequest true "Tag"
// @Success 201 {object} models.CanvasTag
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /tags [post]
func (h *TagHandler) CreateTag(c *fiber.Ctx) error {
	var body TagRequest
	if err := c.BodyParser(&body); err != nil || body.Name == "" {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "tag.validation.input")
	}

	tag, err := services.CreateTag(h.DB, body.Name, body.Color, body.Description)
	if err != nil {
		return serviceError(c, err, "createTag")
	}
	return c.Status(fiber.StatusCreated).JSON(tag)
}

// ListTags handles GET /api/tags
// @Summary List tags
// @Tags Tags
// @Produce json
// @Param page query int false "1-based page number"
// @Param pageSize query int false "Page size (max 500)"
// @Param orderBy query string false "Sort column: name"
// @Param sortOrder query string false "ASC or DESC"
// @Success 200 {object} pagination.PagedResult[models.CanvasTag]
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /tags [get]
func (h *TagHandler) ListTags(c *fiber.Ctx) error {
	var filter pagination.ListFilter
	if err := c.QueryParser(&filter); err != nil {
		return utils.ErrorResponse(c, "Invalid filter", fiber.StatusBadRequest, "tag.validation.filter")
	}

	result, err := services.ListTags(h.DB, filter)
	if err != nil {
		return serviceError(c, err, "listTags")
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

// ReadTag handles GET /api/tags/:id
// @Summary Read a tag
// @Tags Tags
// @Produce json
// @Param id path string true "Tag ID"
// @Success 200 {object} models.CanvasTag
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /tags/{id} [get]
func (h *TagHandler) ReadTag(c *fiber.Ctx) error {
	tag, err := services.ReadTagByID(h.DB, c.Params("id"))
	if err != nil {
		return serviceError(c, err, "readTag")
	}
	return c.Status(fiber.StatusOK).JSON(tag)
}

// UpdateTag handles PATCH /api/tags/:id
// @Summary Update a tag
// @Tags Tags
// @Accept json
// @Produce json
// @Param id path string true "Tag ID"
// @Param body body TagRequest true "Tag"
// @Success 200 {object} models.CanvasTag
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /tags/{id} [patch]
func (h *TagHandler) UpdateTag(c *fiber.Ctx) error {
	var body TagRequest
	if err := c.BodyParser(&body); err != nil || body.Name == "" {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "tag.validation.input")
	}

	tag, err := services.UpdateTag(h.DB, c.Params("id"), body.Name, body.Color, body.Description)
	if err != nil {
		return serviceError(c, err, "updateTag")
	}
	return c.Status(fiber.StatusOK).JSON(tag)
}

// DeleteTag handles DELETE /api/tags/:id
// @Summary Delete a tag
// @Description Delete a tag and detach it from every canvas that carried it
// @Tags Tags
// @Produce json
// @Param id path string true "Tag ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /tags/{id} [delete]
func (h *TagHandler) DeleteTag(c *fiber.Ctx) error {
	if err := services.DeleteTag(h.DB, c.Params("id")); err != nil {
		return serviceError(c, err, "deleteTag")
	}
	return utils.MutationSuccessResponse(c)
}

// AddCanvasTags handles PUT /api/canvas/:id/tags
// @Summary Tag a canvas
// @Description Add tags to an accessible canvas; already-present tags are skipped
// @Tags Tags
// @Accept json
// @Produce json
// @Param id path string true "Canvas ID"
// @Param body body ModifyCanvasTagsRequest true "Tag ids"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /canvas/{id}/tags [put]
func (h *TagHandler) AddCanvasTags(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "canvas.authorization.user")
	}

	canvasID := c.Params("id")
	ok, err := services.CanAccess(h.DB, canvasID, userID)
	if err != nil {
		return serviceError(c, err, "addCanvasTags")
	}
	if !ok {
		return utils.ForbiddenResponse(c, "No access to this canvas")
	}

	var body ModifyCanvasTagsRequest
	if err := c.BodyParser(&body); err != nil || len(body.TagIDs) == 0 {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "tag.validation.input")
	}

	if err := services.AddTags(h.DB, canvasID, body.TagIDs.Slice()); err != nil {
		return serviceError(c, err, "addCanvasTags")
	}
	return utils.MutationSuccessResponse(c)
}

// RemoveCanvasTags handles DELETE /api/canvas/:id/tags
// @Summary Untag a canvas
// @Description Remove tags from an accessible canvas; absent tags are skipped
// @Tags Tags
// @Accept json
// @Produce json
// @Param id path string true "Canvas ID"
// @Param body body ModifyCanvasTagsRequest true "Tag ids"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /canvas/{id}/tags [delete]
func (h *TagHandler) RemoveCanvasTags(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "canvas.authorization.user")
	}

	canvasID := c.Params("id")
	ok, err := services.CanAccess(h.DB, canvasID, userID)
	if err != nil {
		return serviceError(c, err, "removeCanvasTags")
	}
	if !ok {
		return utils.ForbiddenResponse(c, "No access to this canvas")
	}

	var body ModifyCanvasTagsRequest
	if err := c.BodyParser(&body); err != nil || len(body.TagIDs) == 0 {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "tag.validation.input")
	}

	if err := services.RemoveTags(h.DB, canvasID, body.TagIDs.Slice()); err != nil {
		return serviceError(c, err, "removeCanvasTags")
	}
	return utils.MutationSuccessResponse(c)
}
