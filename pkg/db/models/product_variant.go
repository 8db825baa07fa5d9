package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avelasquez/stridemart-backend/pkg/types"
)

// ProductVariant is a purchasable SKU: one color/size combination of a
// product with its own price and stock level.
type ProductVariant struct {
	ID             uuid.UUID    `gorm:"column:id;type:uuid;primaryKey"`
	ProductID      uuid.UUID    `gorm:"column:product_id;type:uuid;not null;index"`
	SKU            string       `gorm:"column:sku;not null;uniqueIndex"`
	PriceCents     types.Cents  `gorm:"column:price_cents;not null"`
	SalePriceCents *types.Cents `gorm:"column:sale_price_cents"`
	ColorID        *uuid.UUID   `gorm:"column:color_id;type:uuid;index"`
	SizeID         *uuid.UUID   `gorm:"column:size_id;type:uuid;index"`
	Stock          int          `gorm:"column:stock;not null;default:0"`
	WeightGrams    *int         `gorm:"column:weight_grams"`
	Product        *Product     `gorm:"foreignKey:ProductID"`
	Color          *Color       `gorm:"foreignKey:ColorID"`
	Size           *Size        `gorm:"foreignKey:SizeID"`
	CreatedAt      time.Time    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time    `gorm:"column:updated_at;autoUpdateTime"`
}

// EffectivePriceCents returns the sale price when set, else the list price.
func (v ProductVariant) EffectivePriceCents() types.Cents {
	if v.SalePriceCents != nil {
		return *v.SalePriceCents
	}
	return v.PriceCents
}

func (v *ProductVariant) BeforeCreate(tx *gorm.DB) error {
	ensureID(&v.ID)
	return nil
}
