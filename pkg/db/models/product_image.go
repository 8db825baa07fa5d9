package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductImage is a display asset attached to a product, optionally
// scoped to a single variant. Primary images sort ahead of the rest.
type ProductImage struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	ProductID uuid.UUID  `gorm:"column:product_id;type:uuid;not null;index"`
	VariantID *uuid.UUID `gorm:"column:variant_id;type:uuid"`
	URL       string     `gorm:"column:url;not null"`
	SortOrder int        `gorm:"column:sort_order;not null;default:0"`
	IsPrimary bool       `gorm:"column:is_primary;not null;default:false"`
}

func (i *ProductImage) BeforeCreate(tx *gorm.DB) error {
	ensureID(&i.ID)
	return nil
}
