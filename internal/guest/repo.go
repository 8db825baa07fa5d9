// Package guest persists anonymous shopper sessions.
package guest

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avelasquez/stridemart-backend/pkg/db/models"
)

// Repository exposes guest session persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a guest repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx scopes the repository to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a fresh guest session with a random token and the
// provided lifetime.
func (r *Repository) Create(ctx context.Context, ttl time.Duration) (*models.Guest, error) {
	guest := &models.Guest{
		SessionToken: uuid.NewString(),
		ExpiresAt:    time.Now().UTC().Add(ttl),
	}
	if err := r.db.WithContext(ctx).Create(guest).Error; err != nil {
		return nil, err
	}
	return guest, nil
}

// FindByToken resolves a guest by its cookie token. Expired sessions are
// purged on sight, along with their cart, and reported as not found.
func (r *Repository) FindByToken(ctx context.Context, token string) (*models.Guest, error) {
	var guest models.Guest
	if err := r.db.WithContext(ctx).Where("session_token = ?", token).First(&guest).Error; err != nil {
		return nil, err
	}

	if guest.ExpiresAt.Before(time.Now().UTC()) {
		if err := r.Delete(ctx, guest.ID); err != nil {
			return nil, err
		}
		return nil, gorm.ErrRecordNotFound
	}
	return &guest, nil
}

// Delete removes the guest and any cart it owns.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tx := r.db.WithContext(ctx)

	var cart models.Cart
	err := tx.Where("guest_id = ?", id).First(&cart).Error
	switch {
	case err == nil:
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&cart).Error; err != nil {
			return err
		}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}

	return tx.Delete(&models.Guest{}, "id = ?", id).Error
}
