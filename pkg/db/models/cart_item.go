package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartItem is one variant line in a cart. A cart never holds two rows
// for the same variant; quantity increments instead.
type CartItem struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	CartID           uuid.UUID       `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:idx_cart_items_cart_variant"`
	ProductVariantID uuid.UUID       `gorm:"column:product_variant_id;type:uuid;not null;uniqueIndex:idx_cart_items_cart_variant"`
	Quantity         int             `gorm:"column:quantity;not null;default:1"`
	Variant          *ProductVariant `gorm:"foreignKey:ProductVariantID"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (ci *CartItem) BeforeCreate(tx *gorm.DB) error {
	ensureID(&ci.ID)
	return nil
}
