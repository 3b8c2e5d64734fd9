// Package receipt turns a sale into a print-ready document and renders it for narrow printers.
package receipt

import (
	"fmt"
	"strings"
	"time"

	"go-retail-pos/internal/model"
	"go-retail-pos/internal/pricing"

	"github.com/shopspring/decimal"
)

// Store describes the shop printed at the top and bottom of every receipt.
type Store struct {
	Name        string   `json:"name"`
	Tagline     []string `json:"tagline"`
	Currency    string   `json:"currency"`
	WalkInLabel string   `json:"-"`
	Footer      []string `json:"footer"`
}

func DefaultStore() Store {
	return Store{
		Name:        "OWOABENES",
		Tagline:     []string{"Mothercare & Kids Boutique", "Children's Products 0-18 Years"},
		Currency:    "₵",
		WalkInLabel: model.WalkInCustomer,
		Footer:      []string{"Thank you for your purchase!", "Please visit us again", "*** END OF RECEIPT ***"},
	}
}

type Input struct {
	Items           []model.LineItem
	DiscountPercent decimal.Decimal
	// Discount, when set, is the absolute discount and wins over DiscountPercent.
	Discount        *decimal.Decimal
	CustomerName    string
	CashierName     string
	AmountReceived  decimal.Decimal
	PaymentMethod   model.PaymentMethod
	Number          string
	IssuedAt        time.Time
}

type Line struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

type Totals struct {
	Subtotal        decimal.Decimal `json:"subtotal"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	TotalProfit     decimal.Decimal `json:"total_profit"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	Total           decimal.Decimal `json:"total"`
}

type Payment struct {
	Method         model.PaymentMethod `json:"method"`
	AmountReceived decimal.Decimal     `json:"amount_received"`
	Change         decimal.Decimal     `json:"change"`
	// DisplayChange never goes below zero; Change keeps the signed value.
	DisplayChange decimal.Decimal `json:"display_change"`
}

type Document struct {
	Store    Store     `json:"store"`
	Number   string    `json:"receipt_number"`
	IssuedAt time.Time `json:"issued_at"`
	Cashier  string    `json:"cashier"`
	Customer string    `json:"customer"`
	Lines    []Line    `json:"lines"`
	Totals   Totals    `json:"totals"`
	Payment  Payment   `json:"payment"`
}

// Build is pure: the caller supplies the number and the timestamp.
func Build(store Store, in Input) Document {
	priced := make([]model.LineItem, len(in.Items))
	lines := make([]Line, 0, len(in.Items))
	for i, item := range in.Items {
		unit := item.UnitPrice()
		item.Price = unit
		priced[i] = item
		lines = append(lines, Line{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: unit,
			Total:     pricing.LineSubtotal(unit, item.Quantity),
		})
	}
	totals := pricing.Compute(priced, in.DiscountPercent)
	if in.Discount != nil {
		totals.DiscountAmount = *in.Discount
		totals.DiscountPercent = in.DiscountPercent
		totals.Total = pricing.Total(totals.Subtotal, totals.DiscountAmount)
	}

	customer := strings.TrimSpace(in.CustomerName)
	if customer == "" {
		customer = store.WalkInLabel
	}

	method := in.PaymentMethod
	if method == "" {
		method = model.PaymentCash
	}

	change := pricing.Change(in.AmountReceived, totals.Total)
	display := change
	if display.IsNegative() {
		display = decimal.Zero
	}

	return Document{
		Store:    store,
		Number:   in.Number,
		IssuedAt: in.IssuedAt,
		Cashier:  in.CashierName,
		Customer: customer,
		Lines:    lines,
		Totals: Totals{
			Subtotal:        totals.Subtotal,
			TotalCost:       totals.TotalCost,
			TotalProfit:     totals.Profit,
			DiscountPercent: totals.DiscountPercent,
			DiscountAmount:  totals.DiscountAmount,
			Total:           totals.Total,
		},
		Payment: Payment{
			Method:         method,
			AmountReceived: in.AmountReceived,
			Change:         change,
			DisplayChange:  display,
		},
	}
}

// Preview renders a basket that has not been committed yet. Its number is display-only.
func Preview(store Store, in Input, now time.Time) Document {
	in.Number = fmt.Sprintf("PREVIEW-%d", now.Unix())
	in.IssuedAt = now
	return Build(store, in)
}

// FromTransaction rebuilds the receipt of a committed sale. The money figures are the
// stored ones, so the slip always agrees with the ledger row.
func FromTransaction(store Store, tx model.Transaction) Document {
	discount := tx.Discount
	doc := Build(store, Input{
		Items:           tx.Items,
		DiscountPercent: tx.DiscountPercent,
		Discount:        &discount,
		CustomerName:    tx.CustomerName,
		CashierName:     tx.CashierName,
		AmountReceived:  tx.AmountReceived,
		PaymentMethod:   tx.PaymentMethod,
		Number:          tx.ReceiptNumber,
		IssuedAt:        tx.CreatedAt,
	})

	doc.Totals.Subtotal = tx.Subtotal
	doc.Totals.Total = tx.Total
	doc.Totals.TotalProfit = tx.Subtotal.Sub(doc.Totals.TotalCost)
	doc.Payment.Change = tx.Change
	doc.Payment.DisplayChange = tx.Change
	if tx.Change.IsNegative() {
		doc.Payment.DisplayChange = decimal.Zero
	}
	return doc
}
