package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product represents a storefront listing. Pricing lives on variants.
type Product struct {
	ID               uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	Name             string           `gorm:"column:name;not null"`
	Description      string           `gorm:"column:description;not null"`
	CategoryID       *uuid.UUID       `gorm:"column:category_id;type:uuid;index"`
	GenderID         *uuid.UUID       `gorm:"column:gender_id;type:uuid;index"`
	BrandID          *uuid.UUID       `gorm:"column:brand_id;type:uuid;index"`
	IsPublished      bool             `gorm:"column:is_published;not null;default:false"`
	DefaultVariantID *uuid.UUID       `gorm:"column:default_variant_id;type:uuid"`
	Category         *Category        `gorm:"foreignKey:CategoryID"`
	Gender           *Gender          `gorm:"foreignKey:GenderID"`
	Brand            *Brand           `gorm:"foreignKey:BrandID"`
	Variants         []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Images           []ProductImage   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
