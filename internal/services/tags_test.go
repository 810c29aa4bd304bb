package services

import (
	"sort"
	"testing"

	"github.com/inklab/canvasdb/internal/pagination"
)

func TestResolveCanvasesByTags(t *testing.T) {
	db := setupTestDB(t)
	owner := seedUser(t, db, "owner@example.com", "Owner")
	other := seedUser(t, db, "other@example.com", "Other")

	team := seedTag(t, db, "team")
	archive := seedTag(t, db, "archive")

	tagged1 := seedCanvas(t, db, owner.ID, "Tagged One")
	tagged2 := seedCanvas(t, db, owner.ID, "Tagged Two")
	untagged := seedCanvas(t, db, owner.ID, "Untagged")
	foreign := seedCanvas(t, db, other.ID, "Foreign Tagged")

	for _, id := range []string{tagged1.ID, tagged2.ID, foreign.ID} {
		if err := AddTags(db, id, []string{team.ID}); err != nil {
			t.Fatalf("AddTags failed: %v", err)
		}
	}

	ids, err := ResolveCanvasesByTags(db, []string{team.ID}, owner.ID)
	if err != nil {
		t.Fatalf("ResolveCanvasesByTags failed: %v", err)
	}
	sort.Strings(ids)
	want := []string{tagged1.ID, tagged2.ID}
	sort.Strings(want)
	if len(ids) != 2 || ids[0] != want[0] || ids[1] != want[1] {
		t.Errorf("Expected the owner's tagged canvases only, got %v", ids)
	}
	for _, id := range ids {
		if id == untagged.ID {
			t.Error("Untagged canvas leaked into the resolution")
		}
		if id == foreign.ID {
			t.Error("Tags must scope, not discover: foreign canvas leaked")
		}
	}

	// A canvas carrying several matching tags resolves once
	if err := AddTags(db, tagged1.ID, []string{archive.ID}); err != nil {
		t.Fatalf("AddTags failed: %v", err)
	}
	ids, err = ResolveCanvasesByTags(db, []string{team.ID, archive.ID}, owner.ID)
	if err != nil {
		t.Fatalf("ResolveCanvasesByTags failed: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("Expected 2 distinct canvases, got %v", ids)
	}

	// No tags means no scope
	ids, err = ResolveCanvasesByTags(db, nil, owner.ID)
	if err != nil {
		t.Fatalf("ResolveCanvasesByTags failed: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("Expected empty resolution for no tags, got %v", ids)
	}
}

func TestAddRemoveTags(t *testing.T) {
	db := setupTestDB(t)
	owner := seedUser(t, db, "owner@example.com", "Owner")
	canvas := seedCanvas(t, db, owner.ID, "Tagged")
	team := seedTag(t, db, "team")
	archive := seedTag(t, db, "archive")

	if err := AddTags(db, canvas.ID, []string{team.ID, archive.ID}); err != nil {
		t.Fatalf("AddTags failed: %v", err)
	}
	// Union semantics: re-adding is a no-op
	if err := AddTags(db, canvas.ID, []string{team.ID}); err != nil {
		t.Fatalf("Repeated AddTags failed: %v", err)
	}

	loaded, err := ReadCanvasByID(db, canvas.ID)
	if err != nil {
		t.Fatalf("ReadCanvasByID failed: %v", err)
	}
	if len(loaded.Tags) != 2 {
		t.Errorf("Expected 2 tags, got %d", len(loaded.Tags))
	}

	if err := RemoveTags(db, canvas.ID, []string{team.ID}); err != nil {
		t.Fatalf("RemoveTags failed: %v", err)
	}
	// Difference semantics: removing an absent tag is a no-op
	if err := RemoveTags(db, canvas.ID, []string{team.ID}); err != nil {
		t.Fatalf("Repeated RemoveTags failed: %v", err)
	}

	loaded, err = ReadCanvasByID(db, canvas.ID)
	if err != nil {
		t.Fatalf("ReadCanvasByID failed: %v", err)
	}
	if len(loaded.Tags) != 1 || loaded.Tags[0].ID != archive.ID {
		t.Errorf("Expected only the archive tag to remain, got %v", loaded.Tags)
	}

	// Unknown ids fail up front
	if err := AddTags(db, canvas.ID, []string{"missing-tag"}); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound for unknown tag, got %v", err)
	}
	if err := AddTags(db, "missing-canvas", []string{archive.ID}); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound for unknown canvas, got %v", err)
	}
}

func TestTagLifecycle(t *testing.T) {
	db := setupTestDB(t)

	tag, err := CreateTag(db, "  design  ", "#ff0000", "Design team")
	if err != nil {
		t.Fatalf("CreateTag failed: %v", err)
	}
	if tag.Name != "design" {
		t.Errorf("Expected trimmed name, got %q", tag.Name)
	}

	loaded, err := ReadTagByID(db, tag.ID)
	if err != nil {
		t.Fatalf("ReadTagByID failed: %v", err)
	}
	if loaded.Color != "#ff0000" {
		t.Errorf("Expected color to persist, got %q", loaded.Color)
	}

	updated, err := UpdateTag(db, tag.ID, "design-team", "#00ff00", "Renamed")
	if err != nil {
		t.Fatalf("UpdateTag failed: %v", err)
	}
	if updated.Name != "design-team" || updated.Color != "#00ff00" {
		t.Errorf("Update did not stick: %+v", updated)
	}

	if _, err := ReadTagByID(db, "missing"); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if _, err := UpdateTag(db, "missing", "x", "", ""); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestListTagsPaged(t *testing.T) {
	db := setupTestDB(t)
	names := []string{"alpha", "bravo", "charlie", "delta", "echo"}
	for _, name := range names {
		seedTag(t, db, name)
	}

	result, err := ListTags(db, pagination.ListFilter{Page: 2, PageSize: 2, OrderBy: "name", SortOrder: pagination.SortAsc})
	if err != nil {
		t.Fatalf("ListTags failed: %v", err)
	}
	if result.Page.TotalItems != 5 || result.Page.TotalPages != 3 {
		t.Errorf("Expected 5 items over 3 pages, got %+v", result.Page)
	}
	if len(result.Data) != 2 || result.Data[0].Name != "charlie" {
		t.Errorf("Expected page 2 to start at charlie, got %v", result.Data)
	}
}

func TestDeleteTagClearsReferences(t *testing.T) {
	db := setupTestDB(t)
	owner := seedUser(t, db, "owner@example.com", "Owner")
	canvas := seedCanvas(t, db, owner.ID, "Tagged")
	tag := seedTag(t, db, "ephemeral")

	if err := AddTags(db, canvas.ID, []string{tag.ID}); err != nil {
		t.Fatalf("AddTags failed: %v", err)
	}
	if err := DeleteTag(db, tag.ID); err != nil {
		t.Fatalf("DeleteTag failed: %v", err)
	}

	loaded, err := ReadCanvasByID(db, canvas.ID)
	if err != nil {
		t.Fatalf("ReadCanvasByID failed: %v", err)
	}
	if len(loaded.Tags) != 0 {
		t.Errorf("Expected tag references to be cleared, got %v", loaded.Tags)
	}

	if err := DeleteTag(db, tag.ID); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound for second delete, got %v", err)
	}
}
