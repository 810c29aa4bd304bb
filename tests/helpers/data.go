package helpers

import (
	"testing"

	"github.com/inklab/canvasdb/internal/models"
	"gorm.io/gorm"
)

// CreateTestUser creates an enabled user row and returns it.
func CreateTestUser(t *testing.T, db *gorm.DB, email, displayName string) *models.User {
	t.Helper()
	user := models.User{
		Email:       email,
		DisplayName: displayName,
		IsEnabled:   true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", email, err)
	}
	return &user
}

// CreateTestCanvas creates a canvas owned by ownerID, including the owner
// access row.
func CreateTestCanvas(t *testing.T, db *gorm.DB, ownerID, name string) *models.Canvas {
	t.Helper()
	canvas := models.Canvas{
		Name: name,
	}
	if err := db.Create(&canvas).Error; err != nil {
		t.Fatalf("Failed to create canvas %s: %v", name, err)
	}
	access := models.CanvasAccess{
		CanvasID: canvas.ID,
		UserID:   ownerID,
		IsOwner:  true,
	}
	if err := db.Create(&access).Error; err != nil {
		t.Fatalf("Failed to create owner access for %s: %v", name, err)
	}
	return &canvas
}

// CreateTestTag creates a tag row and returns it.
func CreateTestTag(t *testing.T, db *gorm.DB, name string) *models.CanvasTag {
	t.Helper()
	tag := models.CanvasTag{
		Name: name,
	}
	if err := db.Create(&tag).Error; err != nil {
		t.Fatalf("Failed to create tag %s: %v", name, err)
	}
	return &tag
}

// TagTestCanvas associates tags with a canvas.
func TagTestCanvas(t *testing.T, db *gorm.DB, canvas *models.Canvas, tags ...*models.CanvasTag) {
	t.Helper()
	for _, tag := range tags {
		if err := db.Model(canvas).Association("Tags").Append(tag); err != nil {
			t.Fatalf("Failed to tag canvas %s with %s: %v", canvas.Name, tag.Name, err)
		}
	}
}

// GrantTestAccess creates a non-owner access row.
func GrantTestAccess(t *testing.T, db *gorm.DB, canvasID, userID string) {
	t.Helper()
	access := models.CanvasAccess{
		CanvasID: canvasID,
		UserID:   userID,
	}
	if err := db.Create(&access).Error; err != nil {
		t.Fatalf("Failed to grant access on %s to %s: %v", canvasID, userID, err)
	}
}
