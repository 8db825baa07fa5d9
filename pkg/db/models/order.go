package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avelasquez/stridemart-backend/pkg/enums"
	"github.com/avelasquez/stridemart-backend/pkg/types"
)

// Order is a placed checkout with frozen line pricing.
type Order struct {
	ID                uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	UserID            uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index"`
	Status            enums.OrderStatus `gorm:"column:status;not null"`
	TotalAmountCents  types.Cents       `gorm:"column:total_amount_cents;not null"`
	ShippingAddressID uuid.UUID         `gorm:"column:shipping_address_id;type:uuid;not null"`
	BillingAddressID  uuid.UUID         `gorm:"column:billing_address_id;type:uuid;not null"`
	Items             []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	ensureID(&o.ID)
	return nil
}
