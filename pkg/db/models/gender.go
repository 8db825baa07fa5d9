package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Gender is an audience segment a product is marketed to.
type Gender struct {
	ID    uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Label string    `gorm:"column:label;not null"`
	Slug  string    `gorm:"column:slug;not null;uniqueIndex"`
}

func (g *Gender) BeforeCreate(tx *gorm.DB) error {
	ensureID(&g.ID)
	return nil
}
