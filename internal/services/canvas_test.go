package services

import (
	"encoding/json"
	"testing"

	"github.com/inklab/canvasdb/internal/models"
	"github.com/inklab/canvasdb/internal/pagination"
)

func TestCreateCanvas(t *testing.T) {
	db := setupTestDB(t)
	owner := seedUser(t, db, "owner@example.com", "Owner Name")

	canvas, err := CreateCanvas(db, "  My Canvas  ", " notes ", owner.ID)
	if err != nil {
		t.Fatalf("CreateCanvas failed: %v", err)
	}
	if canvas.Name != "My Canvas" || canvas.Description != "notes" {
		t.Errorf("Expected trimmed metadata, got %q / %q", canvas.Name, canvas.Description)
	}
	if !canvas.IsOwner || canvas.Owner != "Owner Name" {
		t.Errorf("Expected owner annotations, got isOwner=%v owner=%q", canvas.IsOwner, canvas.Owner)
	}

	// Exactly one owner record exists
	var count int64
	db.Model(&models.CanvasAccess{}).Where("canvas_id = ? AND is_owner = ?", canvas.ID, true).Count(&count)
	if count != 1 {
		t.Errorf("Expected exactly 1 owner record, got %d", count)
	}

	ok, err := IsOwner(db, canvas.ID, owner.ID)
	if err != nil {
		t.Fatalf("IsOwner failed: %v", err)
	}
	if !ok {
		t.Error("Expected the creator to hold the owner record")
	}
}

func TestCreateCanvasUnknownOwner(t *testing.T) {
	db := setupTestDB(t)
	if _, err := CreateCanvas(db, "Orphan", "", "missing-user"); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	var count int64
	db.Model(&models.Canvas{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected no canvas row, got %d", count)
	}
}

func TestUpdateCanvasMetadata(t *testing.T) {
	db := setupTestDB(t)
	owner := seedUser(t, db, "owner@example.com", "Owner")
	canvas := seedCanvas(t, db, owner.ID, "Before")

	updated, err := UpdateCanvasMetadata(db, canvas.ID, " After ", " changed ")
	if err != nil {
		t.Fatalf("UpdateCanvasMetadata failed: %v", err)
	}
	if updated.Name != "After" || updated.Description != "changed" {
		t.Errorf("Update did not stick: %q / %q", updated.Name, updated.Description)
	}

	if _, err := UpdateCanvasMetadata(db, "missing", "x", ""); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestAppendCanvasState(t *testing.T) {
	db := setupTestDB(t)
	owner := seedUser(t, db, "owner@example.com", "Owner")
	canvas := seedCanvas(t, db, owner.ID, "Versioned")

	appState := mustJSON(t, `{"zoom":2,"collaborators":[{"id":"stale"}]}`)
	elements := mustJSON(t, `[{"type":"rectangle"}]`)

	if _, err := AppendCanvasState(db, canvas.ID, appState, elements, models.JSON{}); err != nil {
		t.Fatalf("AppendCanvasState failed: %v", err)
	}

	state, err := ReadCanvasState(db, canvas.ID, "")
	if err != nil {
		t.Fatalf("ReadCanvasState failed: %v", err)
	}

	// Stale collaborator sets are cleared on write
	var decoded map[string]interface{}
	if err := json.Unmarshal(state.AppState.JSON, &decoded); err != nil {
		t.Fatalf("Failed to decode appState: %v", err)
	}
	collaborators, ok := decoded["collaborators"].([]interface{})
	if !ok || len(collaborators) != 0 {
		t.Errorf("Expected collaborators reset to empty, got %v", decoded["collaborators"])
	}
	if decoded["zoom"] != float64(2) {
		t.Errorf("Expected the rest of appState to survive, got %v", decoded["zoom"])
	}

	// Missing payloads get their empty defaults
	if string(state.Files.JSON) != "{}" {
		t.Errorf("Expected empty files default, got %s", state.Files.JSON)
	}

	if _, err := AppendCanvasState(db, "missing", models.JSON{}, models.JSON{}, models.JSON{}); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSnapshotsAreAppendOnly(t *testing.T) {
	db := setupTestDB(t)
	owner := seedUser(t, db, "owner@example.com", "Owner")
	canvas := seedCanvas(t, db, owner.ID, "Versioned")

	if _, err := AppendCanvasState(db, canvas.ID, models.JSON{}, mustJSON(t, `[1]`), models.JSON{}); err != nil {
		t.Fatalf("First append failed: %v", err)
	}
	if _, err := AppendCanvasState(db, canvas.ID, models.JSON{}, mustJSON(t, `[1,2]`), models.JSON{}); err != nil {
		t.Fatalf("Second append failed: %v", err)
	}

	var count int64
	db.Model(&models.CanvasState{}).Where("canvas_id = ?", canvas.ID).Count(&count)
	if count != 2 {
		t.Fatalf("Expected 2 snapshot rows, got %d", count)
	}

	history, err := ReadCanvasStates(db, canvas.ID, pagination.ListFilter{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("ReadCanvasStates failed: %v", err)
	}
	if history.Page.TotalItems != 2 {
		t.Errorf("Expected history of 2, got %d", history.Page.TotalItems)
	}

	// A versioned read pins an old snapshot
	var states []models.CanvasState
	if err := db.Where("canvas_id = ?", canvas.ID).Order("date_created ASC").Find(&states).Error; err != nil {
		t.Fatalf("Failed to load snapshots: %v", err)
	}
	pinned, err := ReadCanvasState(db, canvas.ID, states[0].ID)
	if err != nil {
		t.Fatalf("Versioned ReadCanvasState failed: %v", err)
	}
	if string(pinned.Elements.JSON) != "[1]" {
		t.Errorf("Expected the first snapshot, got %s", pinned.Elements.JSON)
	}
}

func TestReadCanvasStateEmptyDefault(t *testing.T) {
	db := setupTestDB(t)
	owner := seedUser(t, db, "owner@example.com", "Owner")
	canvas := seedCanvas(t, db, owner.ID, "Fresh")

	state, err := ReadCanvasState(db, canvas.ID, "")
	if err != nil {
		t.Fatalf("ReadCanvasState failed: %v", err)
	}
	if string(state.AppState.JSON) != "{}" || string(state.Elements.JSON) != "[]" || string(state.Files.JSON) != "{}" {
		t.Errorf("Expected the empty state shape, got %s / %s / %s",
			state.AppState.JSON, state.Elements.JSON, state.Files.JSON)
	}

	if _, err := ReadCanvasState(db, "missing", ""); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound for unknown canvas, got %v", err)
	}
}

func TestDeleteCanvas(t *testing.T) {
	db := setupTestDB(t)
	owner := seedUser(t, db, "owner@example.com", "Owner")
	canvas := seedCanvas(t, db, owner.ID, "Doomed")
	if _, err := AppendCanvasState(db, canvas.ID, models.JSON{}, models.JSON{}, models.JSON{}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	if err := DeleteCanvas(db, canvas.ID); err != nil {
		t.Fatalf("DeleteCanvas failed: %v", err)
	}

	if _, err := ReadCanvasByID(db, canvas.ID); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
	if _, err := ReadCanvasState(db, canvas.ID, ""); err != ErrNotFound {
		t.Errorf("Expected states of a deleted canvas to be invisible, got %v", err)
	}
	if err := DeleteCanvas(db, canvas.ID); err != ErrNotFound {
		t.Errorf("Expected repeated delete to report ErrNotFound, got %v", err)
	}

	// Soft delete: the rows themselves survive
	var count int64
	db.Model(&models.Canvas{}).Where("id = ?", canvas.ID).Count(&count)
	if count != 1 {
		t.Errorf("Expected the canvas row to remain, got %d", count)
	}
	db.Model(&models.CanvasState{}).Where("canvas_id = ?", canvas.ID).Count(&count)
	if count != 1 {
		t.Errorf("Expected the snapshot history to remain, got %d", count)
	}
}
