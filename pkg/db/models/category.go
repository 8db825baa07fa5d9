package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is a product grouping, optionally nested under a parent.
type Category struct {
	ID       uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Name     string     `gorm:"column:name;not null"`
	Slug     string     `gorm:"column:slug;not null;uniqueIndex"`
	ParentID *uuid.UUID `gorm:"column:parent_id;type:uuid"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	ensureID(&c.ID)
	return nil
}
