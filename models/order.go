package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string
type PaymentMethod string
type ShippingMethod string

const (
	OrderStatusPending   OrderStatus = "pending"   // Order placed, awaiting confirmation
	OrderStatusConfirmed OrderStatus = "confirmed" // Payment or pickup agreed with the customer
	OrderStatusShipped   OrderStatus = "shipped"   // Handed to the courier
	OrderStatusDelivered OrderStatus = "delivered" // Customer received the items
	OrderStatusCancelled OrderStatus = "cancelled"

	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodCash     PaymentMethod = "cash"

	ShippingMethodDelivery ShippingMethod = "delivery"
	ShippingMethodPickup   ShippingMethod = "pickup"
)

// OrderStatuses lists the statuses an admin can pick, in workflow order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

type Order struct {
	ID             string          `gorm:"primaryKey;size:16" json:"id"`
	CartID         string          `gorm:"index;size:64" json:"-"` // guest session that placed the order
	Status         OrderStatus     `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	PaymentMethod  PaymentMethod   `gorm:"type:VARCHAR(20);not null" json:"payment_method"`
	ShippingMethod ShippingMethod  `gorm:"type:VARCHAR(20);not null" json:"shipping_method"`
	Subtotal       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"`
	ShippingCost   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"shipping_cost"`
	Total          decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`
	Notes          string          `json:"notes"`
	Viewed         bool            `gorm:"not null;default:false" json:"viewed"`
	WhatsappSent   bool            `gorm:"not null;default:false" json:"whatsapp_sent"`
	Shipping       *ShippingInfo   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"shipping_info,omitempty"`
	Items          []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ShippingInfo holds the customer contact data of an order. Address fields
// are only filled for home delivery.
type ShippingInfo struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	OrderID    string    `gorm:"uniqueIndex;size:16;not null" json:"order_id"`
	Name       string    `gorm:"not null" json:"name"`
	Email      string    `gorm:"not null" json:"email"`
	Phone      string    `gorm:"not null" json:"phone"`
	Address    string    `json:"address,omitempty"`
	City       string    `json:"city,omitempty"`
	Province   string    `json:"province,omitempty"`
	PostalCode string    `json:"postal_code,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (ShippingInfo) TableName() string { return "shipping_info" }

// OrderItem is a frozen copy of a cart line at checkout time.
type OrderItem struct {
	ID            uint                `gorm:"primaryKey" json:"id"`
	OrderID       string              `gorm:"index;size:16;not null" json:"order_id"`
	ProductID     *uint               `json:"product_id"`
	Name          string              `gorm:"not null" json:"name"`
	Price         decimal.Decimal     `gorm:"type:numeric(12,2);not null" json:"price"`
	OriginalPrice decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"original_price"`
	Quantity      int                 `gorm:"not null" json:"quantity"`
	Color         string              `json:"color"`
	Size          string              `json:"size"`
	Category      string              `json:"category"`
	Image         string              `json:"image"`
	CreatedAt     time.Time           `json:"created_at"`
}

// LineTotal is price times quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
