package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Color is a variant color swatch.
type Color struct {
	ID      uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name    string    `gorm:"column:name;not null"`
	Slug    string    `gorm:"column:slug;not null;uniqueIndex"`
	HexCode string    `gorm:"column:hex_code;not null"`
}

func (c *Color) BeforeCreate(tx *gorm.DB) error {
	ensureID(&c.ID)
	return nil
}
