// Access store: the set of (canvas, user, isOwner) records and the
// predicates the handlers consult before mutating operations.

package services

import (
	"github.com/inklab/canvasdb/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GiveAccess grants userID access to canvasID and returns the access record.
// Granting an already-granted pair is a no-op that returns the existing
// record. The unique index on (canvas_id, user_id) makes two concurrent
// grants collapse to one row; OnConflict DoNothing swallows the loser.
func GiveAccess(db *gorm.DB, canvasID, userID string) (*models.CanvasAccess, error) {
	var user models.User
	if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var canvas models.Canvas
	if err := db.Where("id = ? AND deleted = ?", canvasID, false).First(&canvas).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	access := models.CanvasAccess{
		CanvasID: canvasID,
		UserID:   userID,
		IsOwner:  false,
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "canvas_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(&access).Error; err != nil {
		return nil, err
	}

	// Re-read so the caller always sees the persisted row, owner flag
	// included, whether this call created it or an earlier one did.
	var existing models.CanvasAccess
	if err := db.Where("canvas_id = ? AND user_id = ?", canvasID, userID).First(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

// CancelAccess removes personID's access to canvasID. Owner records are
// protected from third-party revocation: the delete skips rows with
// is_owner unless the person revokes their own access (requestedBy ==
// personID). Revoking a non-existent grant is a silent no-op.
func CancelAccess(db *gorm.DB, canvasID, personID, requestedBy string) error {
	tx := db.Where("canvas_id = ? AND user_id = ?", canvasID, personID)
	if requestedBy != personID {
		tx = tx.Where("is_owner = ?", false)
	}
	return tx.Delete(&models.CanvasAccess{}).Error
}

// AccessibleCanvasIDs returns the ids of all non-deleted canvases for which
// the user holds any access record, owner or not.
func AccessibleCanvasIDs(db *gorm.DB, userID string) ([]string, error) {
	var ids []string
	err := db.Model(&models.CanvasAccess{}).
		Joins("JOIN canvas ON canvas.id = canvas_access.canvas_id AND canvas.deleted = ?", false).
		Where("canvas_access.user_id = ?", userID).
		Pluck("canvas_access.canvas_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// CanAccess reports whether the user holds any access record on the canvas.
func CanAccess(db *gorm.DB, canvasID, userID string) (bool, error) {
	var count int64
	err := db.Model(&models.CanvasAccess{}).
		Where("canvas_id = ? AND user_id = ?", canvasID, userID).
		Count(&count).Error
	return count > 0, err
}

// IsOwner reports whether the user holds the owner record on the canvas.
func IsOwner(db *gorm.DB, canvasID, userID string) (bool, error) {
	var count int64
	err := db.Model(&models.CanvasAccess{}).
		Where("canvas_id = ? AND user_id = ? AND is_owner = ?", canvasID, userID, true).
		Count(&count).Error
	return count > 0, err
}

// listCanvasAccesses returns every access record currently held on a canvas.
func listCanvasAccesses(db *gorm.DB, canvasID string) ([]models.CanvasAccess, error) {
	var accesses []models.CanvasAccess
	err := db.Where("canvas_id = ?", canvasID).Find(&accesses).Error
	if err != nil {
		return nil, err
	}
	return accesses, nil
}
