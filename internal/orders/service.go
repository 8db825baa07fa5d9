package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avelasquez/stridemart-backend/internal/cart"
	"github.com/avelasquez/stridemart-backend/pkg/db"
	"github.com/avelasquez/stridemart-backend/pkg/db/models"
	"github.com/avelasquez/stridemart-backend/pkg/enums"
	pkgerrors "github.com/avelasquez/stridemart-backend/pkg/errors"
	"github.com/avelasquez/stridemart-backend/pkg/types"
)

// Service defines the behavior needed by the orders controller.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateOrderInput) (*DTO, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]DTO, error)
}

type service struct {
	client *db.Client
	orders *Repository
	carts  *cart.Repository
}

// ServiceParams bundles the dependencies required to build an orders service.
type ServiceParams struct {
	Client   *db.Client
	Repo     *Repository
	CartRepo *cart.Repository
}

// NewService constructs an orders service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Client == nil {
		return nil, fmt.Errorf("db client is required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository is required")
	}
	if params.CartRepo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	return &service{client: params.Client, orders: params.Repo, carts: params.CartRepo}, nil
}

// Create places an order from the user's cart: addresses are persisted
// (billing duplicates shipping), each cart line freezes its unit price,
// a payment record is opened, and the cart is emptied. Everything runs
// in one transaction so a failed checkout leaves the cart untouched.
func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateOrderInput) (*DTO, error) {
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}

	var orderID uuid.UUID
	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		orders := s.orders.WithTx(tx)
		carts := s.carts.WithTx(tx)

		userCart, err := carts.FindByUserID(ctx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && len(userCart.Items) == 0) {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}
		if err != nil {
			return err
		}

		shipping := addressFromInput(userID, enums.AddressTypeShipping, input.ShippingAddress)
		if err := orders.CreateAddress(ctx, shipping); err != nil {
			return err
		}
		billing := addressFromInput(userID, enums.AddressTypeBilling, input.ShippingAddress)
		if err := orders.CreateAddress(ctx, billing); err != nil {
			return err
		}

		var total types.Cents
		items := make([]models.OrderItem, 0, len(userCart.Items))
		for _, line := range userCart.Items {
			if line.Variant == nil {
				return fmt.Errorf("cart line %s has no variant", line.ID)
			}
			unit := line.Variant.EffectivePriceCents()
			total += unit * types.Cents(line.Quantity)
			items = append(items, models.OrderItem{
				ProductVariantID:     line.ProductVariantID,
				Quantity:             line.Quantity,
				PriceAtPurchaseCents: unit,
			})
		}

		order := &models.Order{
			UserID:            userID,
			Status:            enums.OrderStatusPending,
			TotalAmountCents:  total,
			ShippingAddressID: shipping.ID,
			BillingAddressID:  billing.ID,
		}
		if err := orders.CreateOrder(ctx, order); err != nil {
			return err
		}
		orderID = order.ID

		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := orders.CreateItems(ctx, items); err != nil {
			return err
		}

		payment := &models.Payment{
			OrderID: order.ID,
			Method:  input.PaymentMethod,
			Status:  enums.PaymentStatusInitiated,
		}
		if err := orders.CreatePayment(ctx, payment); err != nil {
			return err
		}

		return carts.DeleteItems(ctx, userCart.ID)
	})
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			return nil, appErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	dto := dtoFromModel(*order)
	return &dto, nil
}

// ListForUser returns the user's order history, newest first.
func (s *service) ListForUser(ctx context.Context, userID uuid.UUID) ([]DTO, error) {
	rows, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	out := make([]DTO, 0, len(rows))
	for _, order := range rows {
		out = append(out, dtoFromModel(order))
	}
	return out, nil
}

func addressFromInput(userID uuid.UUID, addrType enums.AddressType, in AddressInput) *models.Address {
	return &models.Address{
		UserID:     userID,
		Type:       addrType,
		Line1:      in.Line1,
		Line2:      in.Line2,
		City:       in.City,
		State:      in.State,
		Country:    in.Country,
		PostalCode: in.PostalCode,
	}
}
