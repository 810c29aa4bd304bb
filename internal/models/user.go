package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an identity resolved by the external authorizer. canvasdb only
// reads users; account creation and login live outside this service.
type User struct {
	ID          string `gorm:"type:char(36);primaryKey" json:"id"`
	Email       string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	DisplayName string `gorm:"size:255;not null" json:"displayName"`
	IsEnabled   bool   `gorm:"not null;default:true" json:"isEnabled"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a UUID primary key when none was provided
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
