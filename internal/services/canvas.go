// Canvas lifecycle: creation, metadata, snapshot history, soft delete.

package services

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/inklab/canvasdb/internal/models"
	"github.com/inklab/canvasdb/internal/pagination"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CreateCanvas creates a canvas and seeds the owner access record for
// ownerUserID. The two writes run in one transaction so a failure between
// them never leaves a canvas without an owner.
func CreateCanvas(db *gorm.DB, name, description, ownerUserID string) (*models.Canvas, error) {
	var user models.User
	if err := db.Where("id = ?", ownerUserID).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	canvas := models.Canvas{
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&canvas).Error; err != nil {
			return err
		}
		access := models.CanvasAccess{
			CanvasID: canvas.ID,
			UserID:   user.ID,
			IsOwner:  true,
		}
		return tx.Create(&access).Error
	})
	if err != nil {
		return nil, err
	}
	canvas.IsOwner = true
	canvas.Owner = user.DisplayName
	return &canvas, nil
}

// UpdateCanvasMetadata updates name and description in place and refreshes
// the updated timestamp.
func UpdateCanvasMetadata(db *gorm.DB, id, name, description string) (*models.Canvas, error) {
	var canvas models.Canvas
	if err := db.Where("id = ? AND deleted = ?", id, false).First(&canvas).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	canvas.Name = strings.TrimSpace(name)
	canvas.Description = strings.TrimSpace(description)
	canvas.DateUpdated = time.Now()
	if err := db.Save(&canvas).Error; err != nil {
		return nil, err
	}
	return &canvas, nil
}

// AppendCanvasState appends an immutable snapshot of the canvas content and
// refreshes the canvas's updated timestamp. Snapshots are never rewritten;
// the newest one is the current state.
func AppendCanvasState(db *gorm.DB, canvasID string, appState, elements, files models.JSON) (*models.Canvas, error) {
	var canvas models.Canvas
	if err := db.Where("id = ? AND deleted = ?", canvasID, false).First(&canvas).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	state := models.CanvasState{
		CanvasID: canvasID,
		AppState: resetCollaborators(appState),
		Elements: orDefault(elements, models.JSONArray()),
		Files:    orDefault(files, models.JSONObject()),
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&state).Error; err != nil {
			return err
		}
		return tx.Model(&canvas).Update("date_updated", time.Now()).Error
	})
	if err != nil {
		return nil, err
	}
	return &canvas, nil
}

// resetCollaborators empties the collaborators list inside appState.
// Canvas clients choke on a stale collaborator set when a stored
// scene is reloaded, so never persist one.
func resetCollaborators(appState models.JSON) models.JSON {
	appState = orDefault(appState, models.JSONObject())

	var decoded map[string]interface{}
	if err := json.Unmarshal(appState.JSON, &decoded); err != nil {
		return appState
	}
	decoded["collaborators"] = []interface{}{}
	encoded, err := json.Marshal(decoded)
	if err != nil {
		return appState
	}
	return models.JSON{JSON: datatypes.JSON(encoded)}
}

func orDefault(value, fallback models.JSON) models.JSON {
	if len(value.JSON) == 0 {
		return fallback
	}
	return value
}

// ReadCanvasByID returns a non-deleted canvas with its tags. Canvases are
// public-read: no access check applies to a direct id lookup.
func ReadCanvasByID(db *gorm.DB, id string) (*models.Canvas, error) {
	var canvas models.Canvas
	err := db.Preload("Tags").Where("id = ? AND deleted = ?", id, false).First(&canvas).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &canvas, nil
}

// ReadCanvasState returns one snapshot of a canvas: the one named by
// versionID, or the most recent when versionID is empty. A canvas with no
// matching snapshot yields the well-defined empty state rather than an error.
func ReadCanvasState(db *gorm.DB, canvasID, versionID string) (*models.CanvasState, error) {
	var canvas models.Canvas
	if err := db.Where("id = ? AND deleted = ?", canvasID, false).First(&canvas).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	query := db.Where("canvas_id = ?", canvasID).Order("date_created DESC")
	if versionID != "" {
		query = query.Where("id = ?", versionID)
	}

	var state models.CanvasState
	if err := query.First(&state).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			empty := models.EmptyCanvasState(canvasID)
			return &empty, nil
		}
		return nil, err
	}
	return &state, nil
}

// ReadCanvasStates returns the snapshot history of a canvas, paged.
func ReadCanvasStates(db *gorm.DB, canvasID string, filter pagination.ListFilter) (pagination.PagedResult[models.CanvasState], error) {
	var result pagination.PagedResult[models.CanvasState]
	filter.Normalize()

	var count int64
	if err := db.Model(&models.CanvasState{}).Where("canvas_id = ?", canvasID).Count(&count).Error; err != nil {
		return result, err
	}

	var states []models.CanvasState
	err := db.Where("canvas_id = ?", canvasID).
		Scopes(filter.Scope("date_created")).
		Find(&states).Error
	if err != nil {
		return result, err
	}
	return pagination.NewPagedResult(filter, states, count), nil
}

// DeleteCanvas soft-deletes a canvas. The row and its access and snapshot
// history stay in storage, but the canvas disappears from every normal read.
func DeleteCanvas(db *gorm.DB, id string) error {
	var canvas models.Canvas
	if err := db.Where("id = ? AND deleted = ?", id, false).First(&canvas).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return err
	}
	return db.Model(&canvas).Update("deleted", true).Error
}
