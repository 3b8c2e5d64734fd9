package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "cash"
	PaymentCard  PaymentMethod = "card"
	PaymentMomo  PaymentMethod = "momo"
	PaymentCheck PaymentMethod = "check"
)

// PaymentMethods lists the accepted tenders in display order.
var PaymentMethods = []PaymentMethod{PaymentCash, PaymentCard, PaymentMomo, PaymentCheck}

func (m PaymentMethod) Valid() bool {
	for _, known := range PaymentMethods {
		if m == known {
			return true
		}
	}
	return false
}

const WalkInCustomer = "Walk-in Customer"

// LineItem is one basket line. The JSON names follow the POS client payload and are
// persisted verbatim inside Transaction.Items.
type LineItem struct {
	ID                       string          `json:"id"`
	Name                     string          `json:"name"`
	Price                    decimal.Decimal `json:"price"`
	Quantity                 int             `json:"quantity"`
	Category                 string          `json:"category,omitempty"`
	Image                    string          `json:"image,omitempty"`
	WholeSalePrice           decimal.Decimal `json:"wholeSalePrice"`
	WholeSalePriceWithProfit decimal.Decimal `json:"wholeSalePriceWithProfit"`
	Subtotal                 decimal.Decimal `json:"subtotal"`
	CostPrice                decimal.Decimal `json:"cost_price"`
}

// UnitCost prefers cost_price and falls back to wholeSalePrice for payloads that only carry one.
func (l LineItem) UnitCost() decimal.Decimal {
	if !l.CostPrice.IsZero() {
		return l.CostPrice
	}
	return l.WholeSalePrice
}

// UnitPrice is the sell price shown on receipts.
func (l LineItem) UnitPrice() decimal.Decimal {
	if !l.WholeSalePriceWithProfit.IsZero() {
		return l.WholeSalePriceWithProfit
	}
	return l.Price
}

// Transaction is written once per completed sale and never edited afterwards.
type Transaction struct {
	BaseModel
	Items           datatypes.JSONSlice[LineItem] `json:"items"`
	Subtotal        decimal.Decimal               `gorm:"type:numeric(14,4);not null" json:"subtotal"`
	DiscountPercent decimal.Decimal               `gorm:"type:numeric(7,4);not null;default:0" json:"discount_percent"`
	Discount        decimal.Decimal               `gorm:"type:numeric(14,4);not null;default:0" json:"discount"`
	Total           decimal.Decimal               `gorm:"type:numeric(14,4);not null" json:"total"`
	PaymentMethod   PaymentMethod                 `gorm:"type:varchar(20);not null" json:"payment_method"`
	CustomerName    string                        `gorm:"type:varchar(255)" json:"customer_name"`
	CashierName     string                        `gorm:"type:varchar(255)" json:"cashier_name"`
	AmountReceived  decimal.Decimal               `gorm:"type:numeric(14,4);not null;default:0" json:"amount_received"`
	Change          decimal.Decimal               `gorm:"type:numeric(14,4);not null;default:0" json:"change"`
	ReceiptNumber   string                        `gorm:"type:varchar(32);uniqueIndex;not null" json:"receipt_number"`
}

// ReceiptSequence hands out receipt numbers from the database so two stations never share one.
type ReceiptSequence struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time
}
