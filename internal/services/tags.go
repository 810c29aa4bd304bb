// Tag index and tag lifecycle. Tags have an independent lifecycle and are
// referenced, never owned, by canvases through the canvas_tags join table.

package services

import (
	"strings"

	"github.com/inklab/canvasdb/internal/models"
	"github.com/inklab/canvasdb/internal/pagination"
	"gorm.io/gorm"
)

// ResolveCanvasesByTags returns the ids of canvases that the user can
// already see AND that carry at least one of the given tags. Bulk access
// operations act only inside this set: tags scope, they do not discover.
func ResolveCanvasesByTags(db *gorm.DB, tagIDs []string, userID string) ([]string, error) {
	if len(tagIDs) == 0 {
		return nil, nil
	}

	accessible, err := AccessibleCanvasIDs(db, userID)
	if err != nil {
		return nil, err
	}
	if len(accessible) == 0 {
		return nil, nil
	}

	var ids []string
	err = db.Model(&models.Canvas{}).
		Distinct().
		Joins("JOIN canvas_tags ON canvas_tags.canvas_id = canvas.id").
		Where("canvas.id IN ?", accessible).
		Where("canvas_tags.canvas_tag_id IN ?", tagIDs).
		Pluck("canvas.id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// AddTags applies the given tags to a canvas as a set union; tags already
// present are left alone. An unknown tag id fails with ErrNotFound before
// anything is written.
func AddTags(db *gorm.DB, canvasID string, tagIDs []string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var canvas models.Canvas
		if err := tx.Preload("Tags").Where("id = ? AND deleted = ?", canvasID, false).First(&canvas).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNotFound
			}
			return err
		}

		tags, err := readTags(tx, tagIDs)
		if err != nil {
			return err
		}

		present := make(map[string]struct{}, len(canvas.Tags))
		for _, tag := range canvas.Tags {
			present[tag.ID] = struct{}{}
		}

		var missing []models.CanvasTag
		for _, tag := range tags {
			if _, ok := present[tag.ID]; !ok {
				missing = append(missing, tag)
			}
		}
		if len(missing) == 0 {
			return nil
		}
		return tx.Model(&canvas).Association("Tags").Append(&missing)
	})
}

// RemoveTags removes the given tags from a canvas as a set difference;
// removing a tag the canvas does not carry is a no-op. An unknown tag id
// fails with ErrNotFound.
func RemoveTags(db *gorm.DB, canvasID string, tagIDs []string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var canvas models.Canvas
		if err := tx.Where("id = ? AND deleted = ?", canvasID, false).First(&canvas).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNotFound
			}
			return err
		}

		tags, err := readTags(tx, tagIDs)
		if err != nil {
			return err
		}
		if len(tags) == 0 {
			return nil
		}
		return tx.Model(&canvas).Association("Tags").Delete(&tags)
	})
}

// readTags loads every requested tag, failing with ErrNotFound when any id
// is unknown.
func readTags(db *gorm.DB, tagIDs []string) ([]models.CanvasTag, error) {
	if len(tagIDs) == 0 {
		return nil, nil
	}
	var tags []models.CanvasTag
	if err := db.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
		return nil, err
	}
	if len(tags) != len(uniqueStrings(tagIDs)) {
		return nil, ErrNotFound
	}
	return tags, nil
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

// CreateTag creates a tag with a globally unique name.
func CreateTag(db *gorm.DB, name, color, description string) (*models.CanvasTag, error) {
	tag := models.CanvasTag{
		Name:        strings.TrimSpace(name),
		Color:       color,
		Description: description,
	}
	if err := db.Create(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// ReadTagByID returns a single tag.
func ReadTagByID(db *gorm.DB, id string) (*models.CanvasTag, error) {
	var tag models.CanvasTag
	if err := db.Where("id = ?", id).First(&tag).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &tag, nil
}

// ListTags returns all tags, paged.
func ListTags(db *gorm.DB, filter pagination.ListFilter) (pagination.PagedResult[models.CanvasTag], error) {
	var result pagination.PagedResult[models.CanvasTag]
	filter.Normalize()

	var count int64
	if err := db.Model(&models.CanvasTag{}).Count(&count).Error; err != nil {
		return result, err
	}

	var tags []models.CanvasTag
	if err := db.Scopes(filter.Scope("name")).Find(&tags).Error; err != nil {
		return result, err
	}
	return pagination.NewPagedResult(filter, tags, count), nil
}

// UpdateTag updates a tag's name, color, and description.
func UpdateTag(db *gorm.DB, id, name, color, description string) (*models.CanvasTag, error) {
	var tag models.CanvasTag
	if err := db.Where("id = ?", id).First(&tag).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	tag.Name = strings.TrimSpace(name)
	tag.Color = color
	tag.Description = description
	if err := db.Save(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// DeleteTag removes a tag. The canvas_tags join rows are cleared as an
// explicit step in the same transaction so the tag disappears from every
// canvas that referenced it; no implicit storage cascade is relied on.
func DeleteTag(db *gorm.DB, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var tag models.CanvasTag
		if err := tx.Where("id = ?", id).First(&tag).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Exec("DELETE FROM canvas_tags WHERE canvas_tag_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&tag).Error
	})
}
