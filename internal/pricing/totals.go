// Package pricing derives basket figures from line items. Every function is pure.
package pricing

import (
	"go-retail-pos/internal/model"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// MoneyScale is the number of decimal places kept for recorded sale amounts.
// It matches the numeric(14,4) transaction columns.
const MoneyScale = 4

func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// Totals bundles every figure shown at checkout and on the receipt.
// Profit is subtotal minus total cost; FlooredProfit and UnflooredProfit are the two
// per-line aggregates used by the admin views, kept side by side because they disagree
// whenever a line sells below cost.
type Totals struct {
	Subtotal        decimal.Decimal `json:"subtotal"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	Total           decimal.Decimal `json:"total"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	Profit          decimal.Decimal `json:"profit"`
	FlooredProfit   decimal.Decimal `json:"floored_profit"`
	UnflooredProfit decimal.Decimal `json:"unfloored_profit"`
	ItemCount       int             `json:"item_count"`
}

// Compute recalculates everything from scratch; baskets are small enough that nothing is cached.
func Compute(lines []model.LineItem, discountPercent decimal.Decimal) Totals {
	pct := ClampDiscount(discountPercent)
	subtotal := Subtotal(lines)
	discount := RoundMoney(DiscountAmount(subtotal, pct))
	totalCost := TotalCost(lines)

	count := 0
	for _, l := range lines {
		count += l.Quantity
	}

	return Totals{
		Subtotal:        subtotal,
		DiscountPercent: pct,
		DiscountAmount:  discount,
		Total:           Total(subtotal, discount),
		TotalCost:       totalCost,
		Profit:          subtotal.Sub(totalCost),
		FlooredProfit:   FlooredProfit(lines),
		UnflooredProfit: UnflooredProfit(lines),
		ItemCount:       count,
	}
}

// ClampDiscount limits a discount percentage to [0, 100].
func ClampDiscount(pct decimal.Decimal) decimal.Decimal {
	if pct.IsNegative() {
		return decimal.Zero
	}
	if pct.GreaterThan(hundred) {
		return hundred
	}
	return pct
}

func LineSubtotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

// Subtotal sums price * quantity; it does not trust the denormalized line subtotal.
func Subtotal(lines []model.LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(LineSubtotal(l.Price, l.Quantity))
	}
	return sum
}

func DiscountAmount(subtotal, pct decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(ClampDiscount(pct)).Div(hundred)
}

func Total(subtotal, discount decimal.Decimal) decimal.Decimal {
	return subtotal.Sub(discount)
}

// Change may be negative when the customer under-tenders.
func Change(received, total decimal.Decimal) decimal.Decimal {
	return received.Sub(total)
}

func CanComplete(received, total decimal.Decimal) bool {
	return !Change(received, total).IsNegative()
}

func TotalCost(lines []model.LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(LineSubtotal(l.UnitCost(), l.Quantity))
	}
	return sum
}

// LineMargin is (price - cost) * quantity and can be negative.
func LineMargin(l model.LineItem) decimal.Decimal {
	return LineSubtotal(l.Price.Sub(l.UnitCost()), l.Quantity)
}

// LineProfit is LineMargin floored at zero.
func LineProfit(l model.LineItem) decimal.Decimal {
	m := LineMargin(l)
	if m.IsNegative() {
		return decimal.Zero
	}
	return m
}

func FlooredProfit(lines []model.LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(LineProfit(l))
	}
	return sum
}

func UnflooredProfit(lines []model.LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(LineMargin(l))
	}
	return sum
}

// ReceiptProfit is the receipt-level figure: subtotal minus total cost.
func ReceiptProfit(lines []model.LineItem) decimal.Decimal {
	return Subtotal(lines).Sub(TotalCost(lines))
}
