// Orchestration over the access store and tag index: the filtered listing
// and the tag-scoped bulk grant/revoke fan-outs.

package services

import (
	"log"
	"strings"

	"github.com/inklab/canvasdb/internal/models"
	"github.com/inklab/canvasdb/internal/pagination"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// CanvasFilter narrows the canvas listing: every tag id must be present on
// a matching canvas (AND), and the search query matches name or description
// case-insensitively.
type CanvasFilter struct {
	pagination.ListFilter
	TagIDs      []string `query:"tagIds" json:"tagIds,omitempty"`
	SearchQuery string   `query:"searchQuery" json:"searchQuery,omitempty"`
}

// canvasOrderable lists the columns the canvas listing may sort by.
var canvasOrderable = []string{"name", "date_created", "date_updated"}

// ReadAllCanvases returns the canvases the user holds any access record on,
// non-deleted, narrowed by the filter, paged. Filtering applies before
// counting, so totalItems reflects the filtered set. Each result is
// annotated with whether the user owns it and with the owner's display name.
func ReadAllCanvases(db *gorm.DB, filter CanvasFilter, userID string) (pagination.PagedResult[models.Canvas], error) {
	var result pagination.PagedResult[models.Canvas]
	filter.Normalize()

	base := func() *gorm.DB {
		tx := db.Model(&models.Canvas{}).
			Joins("JOIN canvas_access ON canvas_access.canvas_id = canvas.id AND canvas_access.user_id = ?", userID).
			Where("canvas.deleted = ?", false)

		// AND across required tags: one EXISTS per tag id.
		for _, tagID := range filter.TagIDs {
			tx = tx.Where(
				"EXISTS (SELECT 1 FROM canvas_tags WHERE canvas_tags.canvas_id = canvas.id AND canvas_tags.canvas_tag_id = ?)",
				tagID,
			)
		}

		if filter.SearchQuery != "" {
			pattern := "%" + strings.ToLower(filter.SearchQuery) + "%"
			tx = tx.Where(
				db.Where("LOWER(canvas.name) LIKE ?", pattern).
					Or("LOWER(canvas.description) LIKE ?", pattern),
			)
		}
		return tx
	}

	var count int64
	if err := base().Count(&count).Error; err != nil {
		return result, err
	}

	query := base().Preload("Tags").Scopes(filter.Scope(canvasOrderable...))
	if db.Dialector.Name() == "mysql" {
		// The only query with no structural bound besides the page
		// window; keep a runaway scan from pinning a connection.
		query = query.Clauses(hints.New("MAX_EXECUTION_TIME(10000)"))
	}

	var canvases []models.Canvas
	if err := query.Find(&canvases).Error; err != nil {
		return result, err
	}

	if err := annotateOwners(db, canvases, userID); err != nil {
		return result, err
	}
	return pagination.NewPagedResult(filter.ListFilter, canvases, count), nil
}

// annotateOwners fills the per-user IsOwner flag and the owner display name
// on each listed canvas from the owner access rows.
func annotateOwners(db *gorm.DB, canvases []models.Canvas, userID string) error {
	if len(canvases) == 0 {
		return nil
	}
	ids := make([]string, len(canvases))
	for i, c := range canvases {
		ids[i] = c.ID
	}

	var owners []models.CanvasAccess
	err := db.Preload("User").
		Where("canvas_id IN ? AND is_owner = ?", ids, true).
		Find(&owners).Error
	if err != nil {
		return err
	}

	byCanvas := make(map[string]models.CanvasAccess, len(owners))
	for _, o := range owners {
		byCanvas[o.CanvasID] = o
	}
	for i := range canvases {
		if owner, ok := byCanvas[canvases[i].ID]; ok {
			canvases[i].IsOwner = owner.UserID == userID
			canvases[i].Owner = owner.User.DisplayName
		}
	}
	return nil
}

// GiveAccessByTag grants every person access to every canvas that carries at
// least one of the tags and is visible to the requesting user. The fan-out
// is best-effort, not atomic: each grant is idempotent, so a failed pair is
// logged and the rest proceed; the first failure is reported once the loop
// finishes.
func GiveAccessByTag(db *gorm.DB, tagIDs, personIDs []string, requestingUserID string) error {
	var user models.User
	if err := db.Where("id = ?", requestingUserID).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return err
	}

	canvasIDs, err := ResolveCanvasesByTags(db, tagIDs, user.ID)
	if err != nil {
		return err
	}

	var firstErr error
	for _, canvasID := range canvasIDs {
		for _, personID := range personIDs {
			if _, err := GiveAccess(db, canvasID, personID); err != nil {
				log.Printf("giveAccessByTag: grant canvas=%s person=%s failed: %v", canvasID, personID, err)
				if firstErr == nil {
					firstErr = err
				}
			}
		}
	}
	return firstErr
}

// CancelAccessByTag revokes, on every tag-matching canvas visible to the
// requesting user, the access of every other user holding a record there.
// The requesting user's own access is never touched, and owner protection
// applies per individual revoke.
func CancelAccessByTag(db *gorm.DB, tagIDs []string, requestingUserID string) error {
	var user models.User
	if err := db.Where("id = ?", requestingUserID).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return err
	}

	canvasIDs, err := ResolveCanvasesByTags(db, tagIDs, user.ID)
	if err != nil {
		return err
	}

	var firstErr error
	for _, canvasID := range canvasIDs {
		accesses, err := listCanvasAccesses(db, canvasID)
		if err != nil {
			log.Printf("cancelAccessByTag: list canvas=%s failed: %v", canvasID, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		for _, access := range accesses {
			if access.UserID == user.ID {
				continue
			}
			if err := CancelAccess(db, canvasID, access.UserID, user.ID); err != nil {
				log.Printf("cancelAccessByTag: revoke canvas=%s person=%s failed: %v", canvasID, access.UserID, err)
				if firstErr == nil {
					firstErr = err
				}
			}
		}
	}
	return firstErr
}
