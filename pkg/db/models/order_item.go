package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avelasquez/stridemart-backend/pkg/types"
)

// OrderItem freezes the variant price at the moment of purchase.
type OrderItem struct {
	ID                   uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderID              uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	ProductVariantID     uuid.UUID       `gorm:"column:product_variant_id;type:uuid;not null"`
	Quantity             int             `gorm:"column:quantity;not null"`
	PriceAtPurchaseCents types.Cents     `gorm:"column:price_at_purchase_cents;not null"`
	Variant              *ProductVariant `gorm:"foreignKey:ProductVariantID"`
	CreatedAt            time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (oi *OrderItem) BeforeCreate(tx *gorm.DB) error {
	ensureID(&oi.ID)
	return nil
}
