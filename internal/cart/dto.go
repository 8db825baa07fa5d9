package cart

import (
	"github.com/google/uuid"

	"github.com/avelasquez/stridemart-backend/pkg/db/models"
	"github.com/avelasquez/stridemart-backend/pkg/types"
)

// ItemDTO is one cart line. UnitPrice is the sale price when the variant
// has one, else the list price.
type ItemDTO struct {
	ID          uuid.UUID   `json:"id"`
	VariantID   uuid.UUID   `json:"variant_id"`
	ProductID   uuid.UUID   `json:"product_id"`
	ProductName string      `json:"product_name"`
	SKU         string      `json:"sku"`
	Color       *string     `json:"color,omitempty"`
	Size        *string     `json:"size,omitempty"`
	UnitPrice   types.Cents `json:"unit_price"`
	Quantity    int         `json:"quantity"`
	LineTotal   types.Cents `json:"line_total"`
}

// DTO is the cart view returned to clients. A shopper without a cart gets
// the empty DTO, never an error.
type DTO struct {
	ID         *uuid.UUID  `json:"id,omitempty"`
	Items      []ItemDTO   `json:"items"`
	Subtotal   types.Cents `json:"subtotal"`
	TotalItems int         `json:"total_items"`
}

// EmptyDTO is the cart view for shoppers without a cart.
func EmptyDTO() *DTO {
	return &DTO{Items: []ItemDTO{}}
}

func dtoFromModel(cart *models.Cart) *DTO {
	if cart == nil {
		return EmptyDTO()
	}

	dto := &DTO{ID: &cart.ID, Items: make([]ItemDTO, 0, len(cart.Items))}
	for _, item := range cart.Items {
		line := ItemDTO{
			ID:        item.ID,
			VariantID: item.ProductVariantID,
			Quantity:  item.Quantity,
		}
		if v := item.Variant; v != nil {
			line.ProductID = v.ProductID
			line.SKU = v.SKU
			line.UnitPrice = v.EffectivePriceCents()
			if v.Product != nil {
				line.ProductName = v.Product.Name
			}
			if v.Color != nil {
				name := v.Color.Name
				line.Color = &name
			}
			if v.Size != nil {
				name := v.Size.Name
				line.Size = &name
			}
		}
		line.LineTotal = line.UnitPrice * types.Cents(item.Quantity)
		dto.Subtotal += line.LineTotal
		dto.TotalItems += item.Quantity
		dto.Items = append(dto.Items, line)
	}
	return dto
}
