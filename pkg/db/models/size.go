package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Size is a variant size option; SortOrder drives display ordering.
type Size struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Slug      string    `gorm:"column:slug;not null;uniqueIndex"`
	SortOrder int       `gorm:"column:sort_order;not null;default:0"`
}

func (s *Size) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.ID)
	return nil
}
