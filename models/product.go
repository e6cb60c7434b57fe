package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID           uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string          `gorm:"not null" json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Discount     int             `gorm:"not null;default:0" json:"discount"` // percent off Price
	Image        string          `json:"image"`
	Category     string          `gorm:"index" json:"category"`
	Color        string          `json:"color"`
	IsBestseller bool            `json:"is_bestseller"`
	Stock        int             `gorm:"not null;default:0" json:"stock"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
}

// FinalPrice is the price a customer pays after the product discount.
func (p Product) FinalPrice() decimal.Decimal {
	if p.Discount <= 0 {
		return p.Price
	}
	off := p.Price.Mul(decimal.NewFromInt(int64(p.Discount))).Div(decimal.NewFromInt(100))
	return p.Price.Sub(off)
}

// OriginalPrice returns the undiscounted price when a discount applies.
func (p Product) OriginalPrice() decimal.NullDecimal {
	if p.Discount <= 0 {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(p.Price)
}
