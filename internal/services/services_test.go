// Shared fixtures for the service tests. All tests run against in-memory
// SQLite with the full schema migrated.

package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/inklab/canvasdb/internal/models"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Canvas{},
		&models.CanvasTag{},
		&models.CanvasAccess{},
		&models.CanvasState{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email, displayName string) *models.User {
	t.Helper()
	user := models.User{Email: email, DisplayName: displayName, IsEnabled: true}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to seed user %s: %v", email, err)
	}
	return &user
}

func seedCanvas(t *testing.T, db *gorm.DB, ownerID, name string) *models.Canvas {
	t.Helper()
	canvas, err := CreateCanvas(db, name, "", ownerID)
	if err != nil {
		t.Fatalf("Failed to seed canvas %s: %v", name, err)
	}
	return canvas
}

func seedTag(t *testing.T, db *gorm.DB, name string) *models.CanvasTag {
	t.Helper()
	tag, err := CreateTag(db, name, "#336699", "")
	if err != nil {
		t.Fatalf("Failed to seed tag %s: %v", name, err)
	}
	return tag
}

func mustJSON(t *testing.T, raw string) models.JSON {
	t.Helper()
	var j models.JSON
	if err := j.Scan([]byte(raw)); err != nil {
		t.Fatalf("Failed to build JSON value from %q: %v", raw, err)
	}
	return j
}
