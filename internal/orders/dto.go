package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/avelasquez/stridemart-backend/pkg/db/models"
	"github.com/avelasquez/stridemart-backend/pkg/enums"
	"github.com/avelasquez/stridemart-backend/pkg/types"
)

// AddressInput is the shipping address supplied at checkout. The billing
// address is a copy of it.
type AddressInput struct {
	Line1      string  `json:"line1" validate:"required"`
	Line2      *string `json:"line2,omitempty"`
	City       string  `json:"city" validate:"required"`
	State      string  `json:"state" validate:"required"`
	Country    string  `json:"country" validate:"required"`
	PostalCode string  `json:"postal_code" validate:"required"`
}

// CreateOrderInput carries the checkout payload.
type CreateOrderInput struct {
	ShippingAddress AddressInput        `json:"shipping_address" validate:"required"`
	PaymentMethod   enums.PaymentMethod `json:"payment_method" validate:"required"`
}

// ItemDTO is one frozen order line.
type ItemDTO struct {
	ID              uuid.UUID   `json:"id"`
	VariantID       uuid.UUID   `json:"variant_id"`
	ProductName     string      `json:"product_name"`
	SKU             string      `json:"sku"`
	Quantity        int         `json:"quantity"`
	PriceAtPurchase types.Cents `json:"price_at_purchase"`
	LineTotal       types.Cents `json:"line_total"`
}

// DTO is the order view returned to clients.
type DTO struct {
	ID          uuid.UUID         `json:"id"`
	Status      enums.OrderStatus `json:"status"`
	TotalAmount types.Cents       `json:"total_amount"`
	Items       []ItemDTO         `json:"items"`
	CreatedAt   time.Time         `json:"created_at"`
}

func dtoFromModel(order models.Order) DTO {
	dto := DTO{
		ID:          order.ID,
		Status:      order.Status,
		TotalAmount: order.TotalAmountCents,
		Items:       make([]ItemDTO, 0, len(order.Items)),
		CreatedAt:   order.CreatedAt,
	}
	for _, item := range order.Items {
		line := ItemDTO{
			ID:              item.ID,
			VariantID:       item.ProductVariantID,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.PriceAtPurchaseCents,
			LineTotal:       item.PriceAtPurchaseCents * types.Cents(item.Quantity),
		}
		if v := item.Variant; v != nil {
			line.SKU = v.SKU
			if v.Product != nil {
				line.ProductName = v.Product.Name
			}
		}
		dto.Items = append(dto.Items, line)
	}
	return dto
}
