package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/inklab/canvasdb/internal/middleware"
	"github.com/inklab/canvasdb/internal/models"
	"github.com/inklab/canvasdb/internal/pagination"
	"github.com/inklab/canvasdb/internal/services"
	"github.com/inklab/canvasdb/internal/utils"
	"gorm.io/gorm"
)

// CanvasHandler handles canvas lifecycle and state routes
type CanvasHandler struct {
	DB *gorm.DB
}

// CanvasCreateRequest is the create/update metadata body
type CanvasCreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CanvasStateRequest is the snapshot append body
type CanvasStateRequest struct {
	AppState models.JSON `json:"appState"`
	Elements models.JSON `json:"elements"`
	Files    models.JSON `json:"files"`
}

// CreateCanvas handles POST /api/canvas
// @Summary Create a canvas
// @Description Create a canvas owned by the requesting user
// @Tags Canvas
// @Accept json
// @Produce json
// @Param body body CanvasCreateRequest true "Canvas metadata"
// @Success 201 {object} models.Canvas
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /canvas [post]
func (h *CanvasHandler) CreateCanvas(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "canvas.authorization.user")
	}

	var body CanvasCreateRequest
	if err := c.BodyParser(&body); err != nil || body.Name == "" {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "canvas.validation.input")
	}

	canvas, err := services.CreateCanvas(h.DB, body.Name, body.Description, userID)
	if err != nil {
		return serviceError(c, err, "createCanvas")
	}

	return c.Status(fiber.StatusCreated).JSON(canvas)
}

// ReadAllCanvases handles GET /api/canvas
// @Summary List canvases
// @Description List the canvases accessible to the requesting user, filtered and paged
// @Tags Canvas
// @Produce json
// @Param page query int false "1-based page number"
// @Param pageSize query int false "Page size (max 500)"
// @Param orderBy query string false "Sort column: name, date_created, date_updated"
// @Param sortOrder query string false "ASC or DESC"
// @Param tagIds query string false "Comma-separated tag ids; every tag must match"
// @Param searchQuery query string false "Case-insensitive substring on name or description"
// @Success 200 {object} pagination.PagedResult[models.Canvas]
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /canvas [get]
func (h *CanvasHandler) ReadAllCanvases(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "canvas.authorization.user")
	}

	var filter services.CanvasFilter
	if err := c.QueryParser(&filter); err != nil {
		return utils.ErrorResponse(c, "Invalid filter", fiber.StatusBadRequest, "canvas.validation.filter")
	}
	filter.TagIDs = queryIDList(c, "tagIds")

	result, err := services.ReadAllCanvases(h.DB, filter, userID)
	if err != nil {
		return serviceError(c, err, "readAllCanvases")
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

// ReadCanvasByID handles GET /api/canvas/:id
// @Summary Read a canvas
// @Description Read one canvas by id; canvases are public-read while not deleted
// @Tags Canvas
// @Produce json
// @Param id path string true "Canvas ID"
// @Success 200 {object} models.Canvas
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /canvas/{id} [get]
func (h *CanvasHandler) ReadCanvasByID(c *fiber.Ctx) error {
	canvas, err := services.ReadCanvasByID(h.DB, c.Params("id"))
	if err != nil {
		return serviceError(c, err, "readCanvasById")
	}
	return c.Status(fiber.StatusOK).JSON(canvas)
}

// UpdateCanvasMetadata handles PATCH /api/canvas/:id
// @Summary Update canvas metadata
// @Description Update name and description of an accessible canvas
// @Tags Canvas
// @Accept json
// @Produce json
// @Param id path string true "Canvas ID"
// @Param body body CanvasCreateRequest true "Canvas metadata"
// @Success 200 {object} models.Canvas
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /canvas/{id} [patch]
func (h *CanvasHandler) UpdateCanvasMetadata(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "canvas.authorization.user")
	}

	canvasID := c.Params("id")
	ok, err := services.CanAccess(h.DB, canvasID, userID)
	if err != nil {
		return serviceError(c, err, "updateCanvasMetadata")
	}
	if !ok {
		return utils.ForbiddenResponse(c, "No access to this canvas")
	}

	var body CanvasCreateRequest
	if err := c.BodyParser(&body); err != nil || body.Name == "" {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "canvas.validation.input")
	}

	canvas, err := services.UpdateCanvasMetadata(h.DB, canvasID, body.Name, body.Description)
	if err != nil {
		return serviceError(c, err, "updateCanvasMetadata")
	}
	return c.Status(fiber.StatusOK).JSON(canvas)
}

// DeleteCanvas handles DELETE /api/canvas/:id
// @Summary Delete a canvas
// @Description Soft-delete a canvas; only its owner may delete it
// @Tags Canvas
// @Produce json
// @Param id path string true "Canvas ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /canvas/{id} [delete]
func (h *CanvasHandler) DeleteCanvas(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "canvas.authorization.user")
	}

	canvasID := c.Params("id")
	owner, err := services.IsOwner(h.DB, canvasID, userID)
	if err != nil {
		return serviceError(c, err, "deleteCanvas")
	}
	if !owner {
		return utils.ForbiddenResponse(c, "Only the canvas owner may delete it")
	}

	if err := services.DeleteCanvas(h.DB, canvasID); err != nil {
		return serviceError(c, err, "deleteCanvas")
	}
	return utils.MutationSuccessResponse(c)
}

// AppendCanvasState handles POST /api/canvas/:id/state
// @Summary Append a canvas snapshot
// @Description Append an immutable content snapshot to an accessible canvas
// @Tags CanvasState
// @Accept json
// @Produce json
// @Param id path string true "Canvas ID"
// @Param body body CanvasStateRequest true "Snapshot payloads"
// @Success 201 {object} models.Canvas
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /canvas/{id}/state [post]
func (h *CanvasHandler) AppendCanvasState(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "canvas.authorization.user")
	}

	canvasID := c.Params("id")
	ok, err := services.CanAccess(h.DB, canvasID, userID)
	if err != nil {
		return serviceError(c, err, "appendCanvasState")
	}
	if !ok {
		return utils.ForbiddenResponse(c, "No access to this canvas")
	}

	var body CanvasStateRequest
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "canvas.validation.input")
	}

	canvas, err := services.AppendCanvasState(h.DB, canvasID, body.AppState, body.Elements, body.Files)
	if err != nil {
		return serviceError(c, err, "appendCanvasState")
	}
	return c.Status(fiber.StatusCreated).JSON(canvas)
}

// ReadCanvasState handles GET /api/canvas/:id/state
// @Summary Read a canvas snapshot
// @Description Read the current snapshot, or a specific one via versionId
// @Tags CanvasState
// @Produce json
// @Param id path string true "Canvas ID"
// @Param versionId query string false "Snapshot ID; latest when omitted"
// @Success 200 {object} models.CanvasState
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /canvas/{id}/state [get]
func (h *CanvasHandler) ReadCanvasState(c *fiber.Ctx) error {
	state, err := services.ReadCanvasState(h.DB, c.Params("id"), c.Query("versionId"))
	if err != nil {
		return serviceError(c, err, "readCanvasState")
	}
	return c.Status(fiber.StatusOK).JSON(state)
}

// ReadCanvasStateHistory handles GET /api/canvas/:id/state/history
// @Summary List canvas snapshots
// @Description List the snapshot history of an accessible canvas, paged
// @Tags CanvasState
// @Produce json
// @Param id path string true "Canvas ID"
// @Param page query int false "1-based page number"
// @Param pageSize query int false "Page size (max 500)"
// @Param orderBy query string false "Sort column: date_created"
// @Param sortOrder query string false "ASC or DESC"
// @Success 200 {object} pagination.PagedResult[models.CanvasState]
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /canvas/{id}/state/history [get]
func (h *CanvasHandler) ReadCanvasStateHistory(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "canvas.authorization.user")
	}

	canvasID := c.Params("id")
	ok, err := services.CanAccess(h.DB, canvasID, userID)
	if err != nil {
		return serviceError(c, err, "readCanvasStateHistory")
	}
	if !ok {
		return utils.ForbiddenResponse(c, "No access to this canvas")
	}

	var filter pagination.ListFilter
	if err := c.QueryParser(&filter); err != nil {
		return utils.ErrorResponse(c, "Invalid filter", fiber.StatusBadRequest, "canvas.validation.filter")
	}

	result, err := services.ReadCanvasStates(h.DB, canvasID, filter)
	if err != nil {
		return serviceError(c, err, "readCanvasStateHistory")
	}
	return c.Status(fiber.StatusOK).JSON(result)
}
