package services

import (
	"testing"

	"github.com/inklab/canvasdb/internal/models"
)

func TestReadUserByID(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "reader@example.com", "Reader")

	loaded, err := ReadUserByID(db, user.ID)
	if err != nil {
		t.Fatalf("ReadUserByID failed: %v", err)
	}
	if loaded.Email != "reader@example.com" {
		t.Errorf("Expected the seeded user, got %q", loaded.Email)
	}

	if _, err := ReadUserByID(db, "missing"); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestListUsers(t *testing.T) {
	db := setupTestDB(t)
	seedUser(t, db, "zoe@example.com", "Zoe")
	seedUser(t, db, "adam@example.com", "Adam")

	disabled := models.User{Email: "gone@example.com", DisplayName: "Gone", IsEnabled: false}
	if err := db.Create(&disabled).Error; err != nil {
		t.Fatalf("Failed to seed disabled user: %v", err)
	}

	users, err := ListUsers(db)
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("Expected 2 enabled users, got %d", len(users))
	}
	if users[0].Email != "adam@example.com" {
		t.Errorf("Expected email ordering, got %q first", users[0].Email)
	}
}
