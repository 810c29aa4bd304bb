package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CanvasState is one immutable snapshot of a canvas's content. Snapshots are
// append-only; the current state of a canvas is its most recent snapshot.
// The three payloads are opaque JSON documents from the drawing client.
type CanvasState struct {
	ID          string    `gorm:"type:char(36);primaryKey" json:"id"`
	CanvasID    string    `gorm:"type:char(36);not null;index" json:"canvasId"`
	AppState    JSON      `gorm:"not null" json:"appState"`
	Elements    JSON      `gorm:"not null" json:"elements"`
	Files       JSON      `gorm:"not null" json:"files"`
	DateCreated time.Time `gorm:"autoCreateTime" json:"dateCreated"`

	Canvas Canvas `gorm:"foreignKey:CanvasID" json:"-"`
}

// TableName overrides the table name for CanvasState
func (CanvasState) TableName() string {
	return "canvas_state"
}

// BeforeCreate assigns a UUID primary key when none was provided
func (s *CanvasState) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// EmptyCanvasState is the well-defined default returned when a canvas has no
// snapshots yet.
func EmptyCanvasState(canvasID string) CanvasState {
	return CanvasState{
		CanvasID: canvasID,
		AppState: JSONObject(),
		Elements: JSONArray(),
		Files:    JSONObject(),
	}
}
