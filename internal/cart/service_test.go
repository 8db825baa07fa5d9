package cart

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/avelasquez/stridemart-backend/internal/guest"
	"github.com/avelasquez/stridemart-backend/internal/identity"
	"github.com/avelasquez/stridemart-backend/internal/testdb"
	"github.com/avelasquez/stridemart-backend/pkg/db"
	"github.com/avelasquez/stridemart-backend/pkg/db/models"
	pkgerrors "github.com/avelasquez/stridemart-backend/pkg/errors"
	"github.com/avelasquez/stridemart-backend/pkg/types"
)

type fixture struct {
	db     *gorm.DB
	carts  *Repository
	guests *guest.Repository
	svc    Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn := testdb.Open(t)
	carts := NewRepository(conn)
	guests := guest.NewRepository(conn)

	svc, err := NewService(ServiceParams{
		Client:    db.NewFromConn(conn),
		CartRepo:  carts,
		GuestRepo: guests,
		GuestTTL:  7 * 24 * time.Hour,
	})
	require.NoError(t, err)

	return &fixture{db: conn, carts: carts, guests: guests, svc: svc}
}

func (f *fixture) createVariant(t *testing.T, priceCents types.Cents, salePriceCents *types.Cents) models.ProductVariant {
	t.Helper()
	product := models.Product{Name: "Test Product", Description: "d", IsPublished: true}
	require.NoError(t, f.db.Create(&product).Error)

	variant := models.ProductVariant{
		ProductID:      product.ID,
		SKU:            "sku-" + uuid.NewString()[:8],
		PriceCents:     priceCents,
		SalePriceCents: salePriceCents,
		Stock:          10,
	}
	require.NoError(t, f.db.Create(&variant).Error)
	return variant
}

func (f *fixture) createUser(t *testing.T) models.User {
	t.Helper()
	user := models.User{Email: uuid.NewString() + "@example.com", PasswordHash: "x", Name: "Shopper"}
	require.NoError(t, f.db.Create(&user).Error)
	return user
}

func TestGetWithoutCartReturnsEmptyDTO(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for name, actor := range map[string]identity.Actor{
		"authenticated, no cart":  identity.Authenticated(uuid.New()),
		"anonymous, no cookie":    identity.Anonymous(""),
		"anonymous, stale cookie": identity.Anonymous(uuid.NewString()),
	} {
		dto, err := f.svc.Get(ctx, actor)
		require.NoError(t, err, name)
		assert.Empty(t, dto.Items, name)
		assert.Nil(t, dto.ID, name)
		assert.EqualValues(t, 0, dto.Subtotal, name)
	}
}

func TestAddItemTwiceSumsQuantityOnOneRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t)
	actor := identity.Authenticated(user.ID)
	variant := f.createVariant(t, 8000, nil)

	_, err := f.svc.AddItem(ctx, actor, AddItemInput{VariantID: variant.ID, Quantity: 1})
	require.NoError(t, err)
	res, err := f.svc.AddItem(ctx, actor, AddItemInput{VariantID: variant.ID, Quantity: 1})
	require.NoError(t, err)

	require.Len(t, res.Cart.Items, 1, "same variant collapses onto one line")
	assert.Equal(t, 2, res.Cart.Items[0].Quantity)
	assert.EqualValues(t, 16000, res.Cart.Subtotal)
	assert.Equal(t, 2, res.Cart.TotalItems)

	var count int64
	require.NoError(t, f.db.Model(&models.CartItem{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAddItemUsesSalePrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t)
	sale := types.Cents(6000)
	variant := f.createVariant(t, 8000, &sale)

	res, err := f.svc.AddItem(ctx, identity.Authenticated(user.ID), AddItemInput{VariantID: variant.ID, Quantity: 2})
	require.NoError(t, err)

	require.Len(t, res.Cart.Items, 1)
	assert.Equal(t, sale, res.Cart.Items[0].UnitPrice)
	assert.EqualValues(t, 12000, res.Cart.Subtotal)
}

func TestAddItemMintsGuestSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	variant := f.createVariant(t, 5000, nil)

	res, err := f.svc.AddItem(ctx, identity.Anonymous(""), AddItemInput{VariantID: variant.ID, Quantity: 1})
	require.NoError(t, err)
	require.NotEmpty(t, res.IssuedGuestToken, "cookie-less guest gets a session")

	// the token works for subsequent reads
	dto, err := f.svc.Get(ctx, identity.Anonymous(res.IssuedGuestToken))
	require.NoError(t, err)
	require.Len(t, dto.Items, 1)

	// and an existing session is reused, no new token
	res2, err := f.svc.AddItem(ctx, identity.Anonymous(res.IssuedGuestToken), AddItemInput{VariantID: variant.ID, Quantity: 1})
	require.NoError(t, err)
	assert.Empty(t, res2.IssuedGuestToken)
	assert.Equal(t, 2, res2.Cart.Items[0].Quantity)
}

func TestAddItemUnknownVariant(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t)

	_, err := f.svc.AddItem(context.Background(), identity.Authenticated(user.ID), AddItemInput{VariantID: uuid.New(), Quantity: 1})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestUpdateItemToZeroRemovesLine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t)
	actor := identity.Authenticated(user.ID)
	variant := f.createVariant(t, 5000, nil)

	res, err := f.svc.AddItem(ctx, actor, AddItemInput{VariantID: variant.ID, Quantity: 3})
	require.NoError(t, err)
	itemID := res.Cart.Items[0].ID

	dto, err := f.svc.UpdateItem(ctx, actor, itemID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, dto.Items[0].Quantity)

	dto, err = f.svc.UpdateItem(ctx, actor, itemID, 0)
	require.NoError(t, err)
	assert.Empty(t, dto.Items, "quantity zero removes the line")

	var count int64
	require.NoError(t, f.db.Model(&models.CartItem{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestUpdateItemOfAnotherCartIsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createUser(t)
	intruder := f.createUser(t)
	variant := f.createVariant(t, 5000, nil)

	res, err := f.svc.AddItem(ctx, identity.Authenticated(owner.ID), AddItemInput{VariantID: variant.ID, Quantity: 1})
	require.NoError(t, err)

	// intruder needs a cart of their own for the lookup to reach the item check
	other := f.createVariant(t, 100, nil)
	_, err = f.svc.AddItem(ctx, identity.Authenticated(intruder.ID), AddItemInput{VariantID: other.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = f.svc.UpdateItem(ctx, identity.Authenticated(intruder.ID), res.Cart.Items[0].ID, 9)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestRemoveItemAndClear(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t)
	actor := identity.Authenticated(user.ID)
	v1 := f.createVariant(t, 5000, nil)
	v2 := f.createVariant(t, 7000, nil)

	res, err := f.svc.AddItem(ctx, actor, AddItemInput{VariantID: v1.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, actor, AddItemInput{VariantID: v2.ID, Quantity: 1})
	require.NoError(t, err)

	dto, err := f.svc.RemoveItem(ctx, actor, res.Cart.Items[0].ID)
	require.NoError(t, err)
	require.Len(t, dto.Items, 1)

	dto, err = f.svc.Clear(ctx, actor)
	require.NoError(t, err)
	assert.Empty(t, dto.Items)

	// clearing again is a no-op
	_, err = f.svc.Clear(ctx, actor)
	require.NoError(t, err)
}

func TestMergeGuestCartSumsAndReparents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t)
	shared := f.createVariant(t, 5000, nil)
	guestOnly := f.createVariant(t, 3000, nil)

	// user cart: 3 of the shared variant
	_, err := f.svc.AddItem(ctx, identity.Authenticated(user.ID), AddItemInput{VariantID: shared.ID, Quantity: 3})
	require.NoError(t, err)

	// guest cart: 2 shared + 1 guest-only
	res, err := f.svc.AddItem(ctx, identity.Anonymous(""), AddItemInput{VariantID: shared.ID, Quantity: 2})
	require.NoError(t, err)
	token := res.IssuedGuestToken
	_, err = f.svc.AddItem(ctx, identity.Anonymous(token), AddItemInput{VariantID: guestOnly.ID, Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, f.svc.MergeGuestCart(ctx, token, user.ID))

	dto, err := f.svc.Get(ctx, identity.Authenticated(user.ID))
	require.NoError(t, err)
	require.Len(t, dto.Items, 2)

	byVariant := map[uuid.UUID]int{}
	for _, item := range dto.Items {
		byVariant[item.VariantID] = item.Quantity
	}
	assert.Equal(t, 5, byVariant[shared.ID], "collision sums quantities")
	assert.Equal(t, 1, byVariant[guestOnly.ID], "unique lines re-parent")

	// guest identity and cart are gone
	var guestCount int64
	require.NoError(t, f.db.Model(&models.Guest{}).Count(&guestCount).Error)
	assert.EqualValues(t, 0, guestCount)

	var cartCount int64
	require.NoError(t, f.db.Model(&models.Cart{}).Where("guest_id IS NOT NULL").Count(&cartCount).Error)
	assert.EqualValues(t, 0, cartCount)

	// merging the same token again is a no-op
	require.NoError(t, f.svc.MergeGuestCart(ctx, token, user.ID))
}

func TestMergeGuestCartWithoutTokenIsNoop(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t)
	require.NoError(t, f.svc.MergeGuestCart(context.Background(), "", user.ID))
}

func TestExpiredGuestIsPurgedOnLookup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	variant := f.createVariant(t, 5000, nil)

	res, err := f.svc.AddItem(ctx, identity.Anonymous(""), AddItemInput{VariantID: variant.ID, Quantity: 1})
	require.NoError(t, err)
	token := res.IssuedGuestToken

	// force the session past its expiry
	require.NoError(t, f.db.Model(&models.Guest{}).
		Where("session_token = ?", token).
		UpdateColumn("expires_at", time.Now().UTC().Add(-time.Hour)).Error)

	dto, err := f.svc.Get(ctx, identity.Anonymous(token))
	require.NoError(t, err)
	assert.Empty(t, dto.Items, "expired session reads as no cart")

	var guestCount int64
	require.NoError(t, f.db.Model(&models.Guest{}).Count(&guestCount).Error)
	assert.EqualValues(t, 0, guestCount, "expired guest purged")

	var cartCount int64
	require.NoError(t, f.db.Model(&models.Cart{}).Count(&cartCount).Error)
	assert.EqualValues(t, 0, cartCount, "orphan cart purged with the guest")
}
