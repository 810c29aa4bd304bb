package services

import (
	"testing"

	"github.com/inklab/canvasdb/internal/models"
)

func TestGiveAccess(t *testing.T) {
	db := setupTestDB(t)
	owner := seedUser(t, db, "owner@example.com", "Owner")
	guest := seedUser(t, db, "guest@example.com", "Guest")
	canvas := seedCanvas(t, db, owner.ID, "Shared")

	access, err := GiveAccess(db, canvas.ID, guest.ID)
	if err != nil {
		t.Fatalf("GiveAccess failed: %v", err)
	}
	if access.IsOwner {
		t.Error("Expected granted access to be non-owner")
	}
	if access.CanvasID != canvas.ID || access.UserID != guest.ID {
		t.Errorf("Access row references wrong pair: %+v", access)
	}

	ok, err := CanAccess(db, canvas.ID, guest.ID)
	if err != nil {
		t.Fatalf("CanAccess failed: %v", err)
	}
	if !ok {
		t.Error("Expected guest to have access after grant")
	}
}

func TestGiveAccessIdempotent(t *testing.T) {
	db := setupTestDB(t)
	owner := seedUser(t, db, "owner@example.com", "Owner")
	guest := seedUser(t, db, "guest@example.com", "Guest")
	canvas := seedCanvas(t, db, owner.ID, "Shared")

	first, err := GiveAccess(db, canvas.ID, guest.ID)
	if err != nil {
		t.Fatalf("First grant failed: %v", err)
	}
	second, err := GiveAccess(db, canvas.ID, guest.ID)
	if err != nil {
		t.Fatalf("Second grant failed: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("Expected the same access row, got %s and %s", first.ID, second.ID)
	}

	var count int64
	db.Model(&models.CanvasAccess{}).Where("canvas_id = ? AND user_id = ?", canvas.ID, guest.ID).Count(&count)
	if count != 1 {
		t.Errorf("Expected exactly 1 access row, got %d", count)
	}
}

func TestGiveAccessOwnerGrantKeepsOwnerFlag(t *testing.T) {
	db := setupTestDB(t)
	owner := seedUser(t, db, "owner@example.com", "Owner")
	canvas := seedCanvas(t, db, owner.ID, "Shared")

	// Granting the owner again must not demote the owner record
	access, err := GiveAccess(db, canvas.ID, owner.ID)
	if err != nil {
		t.Fatalf("Grant to owner failed: %v", err)
	}
	if !access.IsOwner {
		t.Error("Expected the existing owner record, owner flag intact")
	}
}

func TestGiveAccessUnknownTargets(t *testing.T) {
	db := setupTestDB(t)
	owner := seedUser(t, db, "owner@example.com", "Owner")
	canvas := seedCanvas(t, db, owner.ID, "Shared")

	if _, err := GiveAccess(db, canvas.ID, "missing-user"); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound for unknown user, got %v", err)
	}
	if _, err := GiveAccess(db, "missing-canvas", owner.ID); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound for unknown canvas, got %v", err)
	}

	// A deleted canvas is invisible to grants
	if err := DeleteCanvas(db, canvas.ID); err != nil {
		t.Fatalf("DeleteCanvas failed: %v", err)
	}
	if _, err := GiveAccess(db, canvas.ID, owner.ID); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound for deleted canvas, got %v", err)
	}
}

func TestCancelAccessOwnerProtection(t *testing.T) {
	db := setupTestDB(t)
	owner := seedUser(t, db, "owner@example.com", "Owner")
	guest := seedUser(t, db, "guest@example.com", "Guest")
	canvas := seedCanvas(t, db, owner.ID, "Shared")
	if _, err := GiveAccess(db, canvas.ID, guest.ID); err != nil {
		t.Fatalf("Grant failed: %v", err)
	}

	// A third party cannot remove the owner record
	if err := CancelAccess(db, canvas.ID, owner.ID, guest.ID); err != nil {
		t.Fatalf("CancelAccess errored: %v", err)
	}
	ok, _ := IsOwner(db, canvas.ID, owner.ID)
	if !ok {
		t.Error("Expected owner record to survive third-party revoke")
	}

	// A third party can remove a plain record
	if err := CancelAccess(db, canvas.ID, guest.ID, owner.ID); err != nil {
		t.Fatalf("CancelAccess errored: %v", err)
	}
	ok, _ = CanAccess(db, canvas.ID, guest.ID)
	if ok {
		t.Error("Expected guest access to be revoked")
	}

	// The owner can remove their own record
	if err := CancelAccess(db, canvas.ID, owner.ID, owner.ID); err != nil {
		t.Fatalf("Self-revoke errored: %v", err)
	}
	ok, _ = CanAccess(db, canvas.ID, owner.ID)
	if ok {
		t.Error("Expected self-revoke to remove the owner record")
	}
}

func TestCancelAccessMissingGrantIsNoop(t *testing.T) {
	db := setupTestDB(t)
	owner := seedUser(t, db, "owner@example.com", "Owner")
	canvas := seedCanvas(t, db, owner.ID, "Shared")

	if err := CancelAccess(db, canvas.ID, "never-granted", owner.ID); err != nil {
		t.Errorf("Expected revoking a non-existent grant to be a no-op, got %v", err)
	}
}

func TestAccessibleCanvasIDsSkipsDeleted(t *testing.T) {
	db := setupTestDB(t)
	owner := seedUser(t, db, "owner@example.com", "Owner")
	kept := seedCanvas(t, db, owner.ID, "Kept")
	doomed := seedCanvas(t, db, owner.ID, "Doomed")

	if err := DeleteCanvas(db, doomed.ID); err != nil {
		t.Fatalf("DeleteCanvas failed: %v", err)
	}

	ids, err := AccessibleCanvasIDs(db, owner.ID)
	if err != nil {
		t.Fatalf("AccessibleCanvasIDs failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != kept.ID {
		t.Errorf("Expected only the kept canvas, got %v", ids)
	}
}
