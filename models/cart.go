package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is a guest shopping cart. The ID doubles as the session identifier
// carried in the guest token.
type Cart struct {
	ID         string     `gorm:"primaryKey;size:64" json:"id"`
	CouponCode string     `json:"coupon_code,omitempty"`
	Items      []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	ExpiresAt  time.Time  `json:"expires_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type CartItem struct {
	ID            uint                `gorm:"primaryKey" json:"-"`
	CartID        string              `gorm:"index;size:64" json:"-"`
	ProductID     uint                `json:"product_id"`
	Name          string              `json:"name"`
	Price         decimal.Decimal     `gorm:"type:numeric(12,2)" json:"price"`
	OriginalPrice decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"original_price"`
	Quantity      int                 `json:"quantity"`
	Color         string              `json:"color"`
	Size          string              `json:"size"`
	Image         string              `json:"image"`
	Category      string              `json:"category"`
	AddedAt       time.Time           `json:"added_at"`
}
