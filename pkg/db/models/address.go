package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avelasquez/stridemart-backend/pkg/enums"
)

// Address is a shipping or billing address owned by a user.
type Address struct {
	ID         uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	UserID     uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index"`
	Type       enums.AddressType `gorm:"column:type;not null"`
	Line1      string            `gorm:"column:line1;not null"`
	Line2      *string           `gorm:"column:line2"`
	City       string            `gorm:"column:city;not null"`
	State      string            `gorm:"column:state;not null"`
	Country    string            `gorm:"column:country;not null"`
	PostalCode string            `gorm:"column:postal_code;not null"`
	IsDefault  bool              `gorm:"column:is_default;not null;default:false"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (a *Address) BeforeCreate(tx *gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
