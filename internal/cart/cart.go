// Package cart holds the mutable basket of a single checkout session.
package cart

import (
	"go-retail-pos/internal/model"
	"go-retail-pos/internal/pricing"

	"github.com/shopspring/decimal"
)

// Cart is not safe for concurrent use; the owning checkout session serializes access.
// Every operation is total: unknown ids and out-of-range values never fail.
type Cart struct {
	lines           []model.LineItem
	discountPercent decimal.Decimal
	customerName    string
	paymentMethod   model.PaymentMethod
}

func New() *Cart {
	return &Cart{paymentMethod: model.PaymentCash}
}

// Add merges into an existing line for the product or appends a new line of one unit.
// Stock is not checked here.
func (c *Cart) Add(p model.Product) {
	id := p.ID.String()
	if i := c.index(id); i >= 0 {
		c.setQuantity(i, c.lines[i].Quantity+1)
		return
	}

	line := model.LineItem{
		ID:                       id,
		Name:                     p.Name,
		Price:                    p.WholesalePriceWithProfit,
		Quantity:                 1,
		Category:                 p.Category,
		Image:                    p.Image,
		WholeSalePrice:           p.WholesalePrice,
		WholeSalePriceWithProfit: p.WholesalePriceWithProfit,
		CostPrice:                p.WholesalePrice,
	}
	line.Subtotal = pricing.LineSubtotal(line.Price, line.Quantity)
	c.lines = append(c.lines, line)
}

func (c *Cart) Remove(id string) {
	if i := c.index(id); i >= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
}

// UpdateQuantity removes the line when qty <= 0.
func (c *Cart) UpdateQuantity(id string, qty int) {
	i := c.index(id)
	if i < 0 {
		return
	}
	if qty <= 0 {
		c.Remove(id)
		return
	}
	c.setQuantity(i, qty)
}

// Reset clears the lines together with discount, customer and payment method.
func (c *Cart) Reset() {
	c.lines = nil
	c.discountPercent = decimal.Zero
	c.customerName = ""
	c.paymentMethod = model.PaymentCash
}

// Lines returns a copy so callers can keep a snapshot across later mutations.
func (c *Cart) Lines() []model.LineItem {
	out := make([]model.LineItem, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) SetDiscountPercent(pct decimal.Decimal) {
	c.discountPercent = pricing.ClampDiscount(pct)
}

func (c *Cart) DiscountPercent() decimal.Decimal {
	return c.discountPercent
}

func (c *Cart) SetCustomerName(name string) {
	c.customerName = name
}

func (c *Cart) CustomerName() string {
	return c.customerName
}

// SetPaymentMethod ignores unknown methods.
func (c *Cart) SetPaymentMethod(m model.PaymentMethod) {
	if m.Valid() {
		c.paymentMethod = m
	}
}

func (c *Cart) PaymentMethod() model.PaymentMethod {
	return c.paymentMethod
}

func (c *Cart) Totals() pricing.Totals {
	return pricing.Compute(c.lines, c.discountPercent)
}

func (c *Cart) index(id string) int {
	for i := range c.lines {
		if c.lines[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *Cart) setQuantity(i, qty int) {
	c.lines[i].Quantity = qty
	c.lines[i].Subtotal = pricing.LineSubtotal(c.lines[i].Price, qty)
}
