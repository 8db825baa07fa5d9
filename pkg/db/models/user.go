package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents the canonical shopper identity.
type User struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Email         string     `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash  string     `gorm:"column:password_hash;not null"`
	Name          string     `gorm:"column:name;not null"`
	EmailVerified bool       `gorm:"column:email_verified;not null;default:false"`
	LastLoginAt   *time.Time `gorm:"column:last_login_at"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	ensureID(&u.ID)
	return nil
}
