package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CanvasTag is a label with a globally unique name, usable to scope bulk
// access operations across many canvases. Tags have their own lifecycle and
// are referenced, never owned, by canvases.
type CanvasTag struct {
	ID          string `gorm:"type:char(36);primaryKey" json:"id"`
	Name        string `gorm:"uniqueIndex;size:255;not null" json:"name"`
	Color       string `gorm:"size:7" json:"color,omitempty"`
	Description string `gorm:"size:1024" json:"description,omitempty"`
}

// TableName overrides the table name for CanvasTag
func (CanvasTag) TableName() string {
	return "canvas_tag"
}

// BeforeCreate assigns a UUID primary key when none was provided
func (t *CanvasTag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
