package cart

import (
	"context"
	"strings"
	"time"

	"github.com/galazzia/storefront-api/models"
	"github.com/galazzia/storefront-api/repository"
	"github.com/google/uuid"
)

type Store interface {
	Create(ctx context.Context, cart *models.Cart) error
	Get(ctx context.Context, id string) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
	Delete(ctx context.Context, id string) error
}

type ProductLookup interface {
	Get(ctx context.Context, id uint) (*models.Product, error)
}

type Service struct {
	carts      Store
	products   ProductLookup
	ttl        time.Duration
	stockCheck bool
}

// NewService returns a cart service. When stockCheck is set, add and update
// requests that would exceed product stock are rejected.
func NewService(carts Store, products ProductLookup, ttl time.Duration, stockCheck bool) *Service {
	return &Service{carts: carts, products: products, ttl: ttl, stockCheck: stockCheck}
}

type AddItemInput struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
	Color     string `json:"color"`
	Size      string `json:"size"`
}

// Create starts a new guest cart session.
func (s *Service) Create(ctx context.Context) (*models.Cart, error) {
	c := &models.Cart{
		ID:        "guest_" + uuid.NewString(),
		ExpiresAt: time.Now().Add(s.ttl),
	}
	if err := s.carts.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Cart, error) {
	return s.carts.Get(ctx, id)
}

// AddItem merges a product into the cart and returns the stored line.
func (s *Service) AddItem(ctx context.Context, cartID string, in AddItemInput) (*models.Cart, models.CartItem, error) {
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	if in.Quantity < 0 {
		return nil, models.CartItem{}, ErrInvalidQuantity
	}

	c, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return nil, models.CartItem{}, err
	}
	p, err := s.products.Get(ctx, in.ProductID)
	if err != nil {
		return nil, models.CartItem{}, err
	}
	if err := s.checkStock(p, QuantityOf(c.Items, p.ID)+in.Quantity); err != nil {
		return nil, models.CartItem{}, err
	}

	added := ItemFromProduct(p, in.Quantity, in.Color, in.Size)
	c.Items = Merge(c.Items, added)
	if err := s.save(ctx, c); err != nil {
		return nil, models.CartItem{}, err
	}
	return c, added, nil
}

func (s *Service) UpdateQuantity(ctx context.Context, cartID string, key Key, qty int) (*models.Cart, error) {
	c, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}

	if qty > 0 {
		current := 0
		for _, it := range c.Items {
			if KeyOf(it) == key {
				current = it.Quantity
			}
		}
		p, err := s.products.Get(ctx, key.ProductID)
		if err != nil {
			return nil, err
		}
		if err := s.checkStock(p, QuantityOf(c.Items, key.ProductID)-current+qty); err != nil {
			return nil, err
		}
	}

	if c.Items, err = UpdateQuantity(c.Items, key, qty); err != nil {
		return nil, err
	}
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) RemoveItem(ctx context.Context, cartID string, key Key) (*models.Cart, error) {
	c, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if c.Items, err = Remove(c.Items, key); err != nil {
		return nil, err
	}
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Clear empties the cart and drops its coupon.
func (s *Service) Clear(ctx context.Context, cartID string) (*models.Cart, error) {
	c, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	c.Items = nil
	c.CouponCode = ""
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ApplyCoupon accepts a single coupon per cart.
func (s *Service) ApplyCoupon(ctx context.Context, cartID, code string) (*models.Cart, error) {
	c, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if c.CouponCode != "" {
		return nil, ErrCouponAlreadyApplied
	}
	if _, err := CouponPercent(code); err != nil {
		return nil, err
	}
	c.CouponCode = strings.ToUpper(strings.TrimSpace(code))
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) RemoveCoupon(ctx context.Context, cartID string) (*models.Cart, error) {
	c, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	c.CouponCode = ""
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) checkStock(p *models.Product, wanted int) error {
	if s.stockCheck && wanted > p.Stock {
		return &repository.StockError{ProductID: p.ID, Name: p.Name}
	}
	return nil
}

// save persists the cart and slides its expiry forward.
func (s *Service) save(ctx context.Context, c *models.Cart) error {
	c.ExpiresAt = time.Now().Add(s.ttl)
	return s.carts.Save(ctx, c)
}
