// Package cart holds the cart arithmetic and the service that persists guest
// carts.
package cart

import (
	"errors"
	"strings"
	"time"

	"github.com/galazzia/storefront-api/models"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidCoupon        = errors.New("invalid coupon")
	ErrCouponAlreadyApplied = errors.New("a coupon is already applied")
	ErrItemNotFound         = errors.New("item not in cart")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInvalidQuantity      = errors.New("quantity must be positive")
)

// coupons maps upper-cased codes to their percent discount.
var coupons = map[string]int{
	"GALAZZIALOLITA": 15,
}

// Key identifies a cart line. Lines with the same product in a different
// color or size are distinct.
type Key struct {
	ProductID uint   `json:"product_id" form:"product_id" binding:"required"`
	Color     string `json:"color" form:"color"`
	Size      string `json:"size" form:"size"`
}

func KeyOf(item models.CartItem) Key {
	return Key{ProductID: item.ProductID, Color: item.Color, Size: item.Size}
}

type Summary struct {
	ItemCount       int             `json:"item_count"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	CouponCode      string          `json:"coupon_code,omitempty"`
	DiscountPercent int             `json:"discount_percent"`
	Discount        decimal.Decimal `json:"discount"`
	Total           decimal.Decimal `json:"total"`
}

// Merge adds item to items. An existing line with the same key has its
// quantity increased, otherwise the item is appended.
func Merge(items []models.CartItem, item models.CartItem) []models.CartItem {
	key := KeyOf(item)
	for i := range items {
		if KeyOf(items[i]) == key {
			items[i].Quantity += item.Quantity
			return items
		}
	}
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now()
	}
	return append(items, item)
}

// UpdateQuantity sets the quantity of the line with key. A quantity of zero
// or less removes the line.
func UpdateQuantity(items []models.CartItem, key Key, qty int) ([]models.CartItem, error) {
	if qty <= 0 {
		return Remove(items, key)
	}
	for i := range items {
		if KeyOf(items[i]) == key {
			items[i].Quantity = qty
			return items, nil
		}
	}
	return items, ErrItemNotFound
}

func Remove(items []models.CartItem, key Key) ([]models.CartItem, error) {
	for i := range items {
		if KeyOf(items[i]) == key {
			return append(items[:i], items[i+1:]...), nil
		}
	}
	return items, ErrItemNotFound
}

// QuantityOf sums the quantities of every line for productID.
func QuantityOf(items []models.CartItem, productID uint) int {
	n := 0
	for _, it := range items {
		if it.ProductID == productID {
			n += it.Quantity
		}
	}
	return n
}

func ItemCount(items []models.CartItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

func Subtotal(items []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// CouponPercent returns the discount for code, ignoring case.
func CouponPercent(code string) (int, error) {
	pct, ok := coupons[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return 0, ErrInvalidCoupon
	}
	return pct, nil
}

// Summarize computes the cart totals. Shipping is not included.
func Summarize(c *models.Cart) Summary {
	s := Summary{
		ItemCount: ItemCount(c.Items),
		Subtotal:  Subtotal(c.Items),
		Discount:  decimal.Zero,
	}
	if c.CouponCode != "" {
		if pct, err := CouponPercent(c.CouponCode); err == nil {
			s.CouponCode = c.CouponCode
			s.DiscountPercent = pct
			s.Discount = s.Subtotal.Mul(decimal.NewFromInt(int64(pct))).Div(decimal.NewFromInt(100)).Round(2)
		}
	}
	s.Total = s.Subtotal.Sub(s.Discount)
	return s
}

// ItemFromProduct snapshots the current product data into a cart line. Color
// and size are kept exactly as chosen since they form the line key.
func ItemFromProduct(p *models.Product, qty int, color, size string) models.CartItem {
	return models.CartItem{
		ProductID:     p.ID,
		Name:          p.Name,
		Price:         p.FinalPrice(),
		OriginalPrice: p.OriginalPrice(),
		Quantity:      qty,
		Color:         color,
		Size:          size,
		Image:         p.Image,
		Category:      p.Category,
		AddedAt:       time.Now(),
	}
}
