package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avelasquez/stridemart-backend/internal/guest"
	"github.com/avelasquez/stridemart-backend/internal/identity"
	"github.com/avelasquez/stridemart-backend/pkg/db"
	"github.com/avelasquez/stridemart-backend/pkg/db/models"
	pkgerrors "github.com/avelasquez/stridemart-backend/pkg/errors"
)

// AddItemInput carries the fields for adding a variant to a cart.
type AddItemInput struct {
	VariantID uuid.UUID
	Quantity  int
}

// AddItemResult is the cart after the add plus, when a guest session was
// created on the fly, the token the controller must set as a cookie.
type AddItemResult struct {
	Cart             *DTO
	IssuedGuestToken string
}

// Service defines the behavior needed by the cart controller and the auth
// reconciliation flow.
type Service interface {
	Get(ctx context.Context, actor identity.Actor) (*DTO, error)
	AddItem(ctx context.Context, actor identity.Actor, input AddItemInput) (*AddItemResult, error)
	UpdateItem(ctx context.Context, actor identity.Actor, itemID uuid.UUID, quantity int) (*DTO, error)
	RemoveItem(ctx context.Context, actor identity.Actor, itemID uuid.UUID) (*DTO, error)
	Clear(ctx context.Context, actor identity.Actor) (*DTO, error)
	MergeGuestCart(ctx context.Context, guestToken string, userID uuid.UUID) error
}

type service struct {
	client   *db.Client
	carts    *Repository
	guests   *guest.Repository
	guestTTL time.Duration
}

// ServiceParams bundles the dependencies required to build a cart service.
type ServiceParams struct {
	Client    *db.Client
	CartRepo  *Repository
	GuestRepo *guest.Repository
	GuestTTL  time.Duration
}

// NewService constructs a cart service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Client == nil {
		return nil, fmt.Errorf("db client is required")
	}
	if params.CartRepo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if params.GuestRepo == nil {
		return nil, fmt.Errorf("guest repository is required")
	}
	if params.GuestTTL <= 0 {
		return nil, fmt.Errorf("guest ttl must be positive")
	}
	return &service{
		client:   params.Client,
		carts:    params.CartRepo,
		guests:   params.GuestRepo,
		guestTTL: params.GuestTTL,
	}, nil
}

// Get returns the actor's cart. Shoppers without a cart, including guests
// with a stale cookie, get the empty DTO.
func (s *service) Get(ctx context.Context, actor identity.Actor) (*DTO, error) {
	cart, err := s.resolveCart(ctx, s.carts, s.guests, actor)
	if err != nil {
		return nil, err
	}
	return dtoFromModel(cart), nil
}

// AddItem puts a variant into the actor's cart, creating the cart (and,
// for cookie-less guests, the guest session) on first use. Adding a
// variant already in the cart sums the quantities onto the existing line.
func (s *service) AddItem(ctx context.Context, actor identity.Actor, input AddItemInput) (*AddItemResult, error) {
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	if _, err := s.carts.FindVariant(ctx, input.VariantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product variant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load variant")
	}

	var cartID uuid.UUID
	var issuedToken string
	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		carts := s.carts.WithTx(tx)
		guests := s.guests.WithTx(tx)

		cart, token, err := s.ensureCart(ctx, carts, guests, actor)
		if err != nil {
			return err
		}
		cartID = cart.ID
		issuedToken = token

		item, err := carts.FindItem(ctx, cart.ID, input.VariantID)
		switch {
		case err == nil:
			return carts.UpdateItemQuantity(ctx, item.ID, item.Quantity+input.Quantity)
		case errors.Is(err, gorm.ErrRecordNotFound):
			return carts.CreateItem(ctx, &models.CartItem{
				CartID:           cart.ID,
				ProductVariantID: input.VariantID,
				Quantity:         input.Quantity,
			})
		default:
			return err
		}
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add cart item")
	}

	dto, err := s.loadDTO(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return &AddItemResult{Cart: dto, IssuedGuestToken: issuedToken}, nil
}

// UpdateItem sets a line's quantity. Zero or negative removes the line.
func (s *service) UpdateItem(ctx context.Context, actor identity.Actor, itemID uuid.UUID, quantity int) (*DTO, error) {
	cart, item, err := s.ownedItem(ctx, actor, itemID)
	if err != nil {
		return nil, err
	}

	if quantity <= 0 {
		if err := s.carts.DeleteItem(ctx, item.ID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove cart item")
		}
	} else if err := s.carts.UpdateItemQuantity(ctx, item.ID, quantity); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart item")
	}

	return s.loadDTO(ctx, cart.ID)
}

// RemoveItem drops a line from the actor's cart.
func (s *service) RemoveItem(ctx context.Context, actor identity.Actor, itemID uuid.UUID) (*DTO, error) {
	cart, item, err := s.ownedItem(ctx, actor, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.carts.DeleteItem(ctx, item.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove cart item")
	}
	return s.loadDTO(ctx, cart.ID)
}

// Clear empties the actor's cart. Clearing a nonexistent cart is a no-op.
func (s *service) Clear(ctx context.Context, actor identity.Actor) (*DTO, error) {
	cart, err := s.resolveCart(ctx, s.carts, s.guests, actor)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return EmptyDTO(), nil
	}
	if err := s.carts.DeleteItems(ctx, cart.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
	}
	return s.loadDTO(ctx, cart.ID)
}

// MergeGuestCart folds a guest's cart into the user's after login or
// registration: colliding variants sum quantities, the rest re-parent,
// then the guest cart and the guest identity are destroyed. The whole
// merge runs in one transaction. A missing or expired token is a no-op.
func (s *service) MergeGuestCart(ctx context.Context, guestToken string, userID uuid.UUID) error {
	if guestToken == "" {
		return nil
	}

	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		carts := s.carts.WithTx(tx)
		guests := s.guests.WithTx(tx)

		g, err := guests.FindByToken(ctx, guestToken)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		guestCart, err := carts.FindByGuestID(ctx, g.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return guests.Delete(ctx, g.ID)
			}
			return err
		}

		userCart, err := carts.FindByUserID(ctx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			userCart, err = carts.CreateForUser(ctx, userID)
		}
		if err != nil {
			return err
		}

		for _, item := range guestCart.Items {
			existing, err := carts.FindItem(ctx, userCart.ID, item.ProductVariantID)
			switch {
			case err == nil:
				if err := carts.UpdateItemQuantity(ctx, existing.ID, existing.Quantity+item.Quantity); err != nil {
					return err
				}
				if err := carts.DeleteItem(ctx, item.ID); err != nil {
					return err
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				if err := carts.UpdateItemCart(ctx, item.ID, userCart.ID); err != nil {
					return err
				}
			default:
				return err
			}
		}

		if err := carts.DeleteCart(ctx, guestCart.ID); err != nil {
			return err
		}
		return guests.Delete(ctx, g.ID)
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "merge guest cart")
	}
	return nil
}

// resolveCart finds the actor's existing cart without creating anything.
// nil means "no cart".
func (s *service) resolveCart(ctx context.Context, carts *Repository, guests *guest.Repository, actor identity.Actor) (*models.Cart, error) {
	if actor.IsAuthenticated() {
		cart, err := carts.FindByUserID(ctx, actor.UserID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
		}
		return cart, nil
	}

	if actor.GuestToken == "" {
		return nil, nil
	}
	g, err := guests.FindByToken(ctx, actor.GuestToken)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load guest")
	}

	cart, err := carts.FindByGuestID(ctx, g.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	return cart, nil
}

// ensureCart finds or creates the actor's cart. For guests without a live
// session it mints one and reports the token for the cookie.
func (s *service) ensureCart(ctx context.Context, carts *Repository, guests *guest.Repository, actor identity.Actor) (*models.Cart, string, error) {
	if actor.IsAuthenticated() {
		cart, err := carts.FindByUserID(ctx, actor.UserID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cart, err = carts.CreateForUser(ctx, actor.UserID)
		}
		if err != nil {
			return nil, "", err
		}
		return cart, "", nil
	}

	if actor.GuestToken != "" {
		g, err := guests.FindByToken(ctx, actor.GuestToken)
		if err == nil {
			cart, err := carts.FindByGuestID(ctx, g.ID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				cart, err = carts.CreateForGuest(ctx, g.ID)
			}
			if err != nil {
				return nil, "", err
			}
			return cart, "", nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", err
		}
		// stale cookie: fall through and mint a fresh session
	}

	g, err := guests.Create(ctx, s.guestTTL)
	if err != nil {
		return nil, "", err
	}
	cart, err := carts.CreateForGuest(ctx, g.ID)
	if err != nil {
		return nil, "", err
	}
	return cart, g.SessionToken, nil
}

// ownedItem loads the actor's cart and verifies the item belongs to it.
func (s *service) ownedItem(ctx context.Context, actor identity.Actor, itemID uuid.UUID) (*models.Cart, *models.CartItem, error) {
	cart, err := s.resolveCart(ctx, s.carts, s.guests, actor)
	if err != nil {
		return nil, nil, err
	}
	if cart == nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}

	item, err := s.carts.FindItemByID(ctx, itemID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart item")
	}
	if item.CartID != cart.ID {
		return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	return cart, item, nil
}

func (s *service) loadDTO(ctx context.Context, cartID uuid.UUID) (*DTO, error) {
	cart, err := s.carts.FindByID(ctx, cartID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	return dtoFromModel(cart), nil
}
