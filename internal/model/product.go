package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceScale is the number of decimal places the product price columns keep.
const PriceScale = 2

type Product struct {
	BaseModel
	Name                     string          `gorm:"type:varchar(255);not null;index" json:"name" validate:"required"`
	Category                 string          `gorm:"type:varchar(100)" json:"category"`
	Price                    decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"price" validate:"gte=0"`
	WholesalePrice           decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"wholesale_price" validate:"gte=0"`
	WholesalePriceWithProfit decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"wholesale_price_with_profit" validate:"gte=0"`
	Quantity                 int             `gorm:"not null;default:0" json:"quantity" validate:"gte=0"`
	MinStock                 int             `gorm:"not null;default:0" json:"min_stock" validate:"gte=0"`
	BrandName                string          `gorm:"type:varchar(255)" json:"brand_name"`
	ExpiryDate               *time.Time      `gorm:"type:date" json:"expiry_date"`
	Description              string          `gorm:"type:text" json:"description"`
	Image                    string          `gorm:"type:text" json:"image,omitempty"`
}

// LowStock reports a product that is still on the shelf but at or below its reorder threshold.
func (p Product) LowStock() bool {
	return p.Quantity > 0 && p.Quantity <= p.MinStock
}

func (p Product) OutOfStock() bool {
	return p.Quantity == 0
}

// RoundPrices rounds the money fields to the stored scale so a created row reads back unchanged.
func (p *Product) RoundPrices() {
	p.Price = p.Price.Round(PriceScale)
	p.WholesalePrice = p.WholesalePrice.Round(PriceScale)
	p.WholesalePriceWithProfit = p.WholesalePriceWithProfit.Round(PriceScale)
}
