package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Guest is an anonymous browsing session identified by a cookie token.
type Guest struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	SessionToken string    `gorm:"column:session_token;not null;uniqueIndex"`
	ExpiresAt    time.Time `gorm:"column:expires_at;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (g *Guest) BeforeCreate(tx *gorm.DB) error {
	ensureID(&g.ID)
	return nil
}
