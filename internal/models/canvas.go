package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Canvas is a named, shareable drawing document. It is never physically
// deleted; Deleted hides it from normal reads while history rows remain.
type Canvas struct {
	ID          string    `gorm:"type:char(36);primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	DateCreated time.Time `gorm:"autoCreateTime" json:"dateCreated"`
	DateUpdated time.Time `gorm:"autoUpdateTime" json:"dateUpdated"`
	Deleted     bool      `gorm:"not null;default:false" json:"-"`

	Tags     []CanvasTag    `gorm:"many2many:canvas_tags;constraint:OnDelete:CASCADE" json:"tags"`
	Accesses []CanvasAccess `gorm:"foreignKey:CanvasID" json:"-"`

	// Annotations filled per requesting user by the listing query,
	// never persisted.
	IsOwner bool   `gorm:"-" json:"isOwner"`
	Owner   string `gorm:"-" json:"owner,omitempty"`
}

// TableName overrides the table name for Canvas
func (Canvas) TableName() string {
	return "canvas"
}

// BeforeCreate assigns a UUID primary key when none was provided
func (c *Canvas) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// CanvasAccess joins one canvas to one user. The composite unique index is
// the storage-level guarantee that concurrent grants for the same pair
// collapse to a single row. Exactly one row per canvas carries IsOwner.
type CanvasAccess struct {
	ID       string `gorm:"type:char(36);primaryKey" json:"id"`
	CanvasID string `gorm:"type:char(36);not null;index:idx_canvas_user,unique" json:"canvasId"`
	UserID   string `gorm:"type:char(36);not null;index:idx_canvas_user,unique" json:"userId"`
	IsOwner  bool   `gorm:"not null;default:false" json:"isOwner"`

	Canvas Canvas `gorm:"foreignKey:CanvasID" json:"-"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`
}

// TableName overrides the table name for CanvasAccess
func (CanvasAccess) TableName() string {
	return "canvas_access"
}

// BeforeCreate assigns a UUID primary key when none was provided
func (a *CanvasAccess) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
