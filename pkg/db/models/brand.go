package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Brand is a product manufacturer label.
type Brand struct {
	ID      uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name    string    `gorm:"column:name;not null"`
	Slug    string    `gorm:"column:slug;not null;uniqueIndex"`
	LogoURL *string   `gorm:"column:logo_url"`
}

func (b *Brand) BeforeCreate(tx *gorm.DB) error {
	ensureID(&b.ID)
	return nil
}
