package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/inklab/canvasdb/internal/pagination"
	"github.com/inklab/canvasdb/internal/services"
	"github.com/inklab/canvasdb/internal/utils"
)

// serviceError maps service-layer failures onto the response envelopes:
// ErrNotFound becomes 404, a bad orderBy becomes 400, anything else 500.
func serviceError(c *fiber.Ctx, err error, errorType string) error {
	if errors.Is(err, services.ErrNotFound) {
		return utils.NotFoundResponse(c, "Resource not found")
	}
	if errors.Is(err, pagination.ErrInvalidOrderBy) {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "canvas.validation.orderBy")
	}
	return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, errorType)
}

// queryIDList extracts an id list from query parameters, supporting both
// repeated keys and comma-separated values.
func queryIDList(c *fiber.Ctx, name string) []string {
	idMap := make(map[string]struct{})

	args := c.Context().QueryArgs()
	for key, value := range args.All() {
		if string(key) == name {
			// Split by comma in case the value itself is comma-separated
			vals := strings.Split(string(value), ",")
			for _, v := range vals {
				v = strings.TrimSpace(v)
				if v != "" {
					idMap[v] = struct{}{}
				}
			}
		}
	}

	if len(idMap) == 0 {
		return nil
	}

	ids := make([]string, 0, len(idMap))
	for k := range idMap {
		ids = append(ids, k)
	}

	return ids
}
