// Identity reads. Users are created by the external authorizer; this
// service only looks them up.

package services

import (
	"github.com/inklab/canvasdb/internal/models"
	"gorm.io/gorm"
)

// ReadUserByID returns one user by its stable identifier.
func ReadUserByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := db.Where("id = ?", id).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ListUsers returns every enabled user. The share dialog uses this to offer
// grant targets, so only id and email leave the handler layer.
func ListUsers(db *gorm.DB) ([]models.User, error) {
	var users []models.User
	if err := db.Where("is_enabled = ?", true).Order("email").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
