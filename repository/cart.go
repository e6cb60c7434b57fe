package repository

import (
	"context"
	"time"

	"github.com/galazzia/storefront-api/models"
	"gorm.io/gorm"
)

type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

func (r *CartRepository) Create(ctx context.Context, cart *models.Cart) error {
	return r.db.WithContext(ctx).Create(cart).Error
}

// Get loads a cart with its items. Expired carts are reported as not found.
func (r *CartRepository) Get(ctx context.Context, id string) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&cart, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	if !cart.ExpiresAt.IsZero() && cart.ExpiresAt.Before(time.Now()) {
		return nil, ErrNotFound
	}
	return &cart, nil
}

// Save replaces the stored items of the cart with cart.Items.
func (r *CartRepository) Save(ctx context.Context, cart *models.Cart) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Cart{}).Where("id = ?", cart.ID).Updates(map[string]any{
			"coupon_code": cart.CouponCode,
			"expires_at":  cart.ExpiresAt,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return nil
		}
		for i := range cart.Items {
			cart.Items[i].ID = 0
			cart.Items[i].CartID = cart.ID
		}
		return tx.Create(&cart.Items).Error
	})
}

func (r *CartRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Cart{}).Error
	})
}

// DeleteExpired removes carts whose expiry is before now and returns how many
// were dropped.
func (r *CartRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var removed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		expired := tx.Model(&models.Cart{}).Select("id").Where("expires_at < ?", now)
		if err := tx.Where("cart_id IN (?)", expired).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		res := tx.Where("expires_at < ?", now).Delete(&models.Cart{})
		removed = res.RowsAffected
		return res.Error
	})
	return removed, err
}
