package receipt

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/shopspring/decimal"
)

// DefaultWidth fits an 80mm roll at the printer's standard font.
const DefaultWidth = 42

const (
	qtyWidth   = 4
	moneyWidth = 10
	minWidth   = 32
)

// Render lays the document out as fixed-width text. Widths are measured in terminal
// cells so the cedi sign and non-ASCII product names stay aligned.
func Render(doc Document, width int) string {
	if width < minWidth {
		width = minWidth
	}
	r := &renderer{width: width, currency: doc.Store.Currency}

	r.center(doc.Store.Name)
	for _, line := range doc.Store.Tagline {
		r.center(line)
	}
	r.rule('=')

	r.pair("Receipt #:", doc.Number)
	r.pair("Date:", doc.IssuedAt.Format("2006-01-02"))
	r.pair("Time:", doc.IssuedAt.Format("15:04:05"))
	if doc.Cashier != "" {
		r.pair("Cashier:", doc.Cashier)
	}
	r.pair("Customer:", doc.Customer)
	r.rule('-')

	nameWidth := width - qtyWidth - 2*moneyWidth
	r.row(nameWidth, "Item", "Qty", "Price", "Total")
	r.rule('-')
	for _, l := range doc.Lines {
		r.row(nameWidth,
			l.Name,
			strconv.Itoa(l.Quantity),
			r.money(l.UnitPrice),
			r.money(l.Total),
		)
	}
	r.rule('-')

	r.pair("Subtotal:", r.money(doc.Totals.Subtotal))
	r.pair("Total Cost:", r.money(doc.Totals.TotalCost))
	r.pair("Total Profit:", r.money(doc.Totals.TotalProfit))
	if doc.Totals.DiscountPercent.IsPositive() {
		r.pair("Discount ("+doc.Totals.DiscountPercent.String()+"%):", "-"+r.money(doc.Totals.DiscountAmount))
	}
	r.rule('=')
	r.pair("TOTAL:", r.money(doc.Totals.Total))
	r.rule('=')

	r.pair("Payment Method:", strings.ToUpper(string(doc.Payment.Method)))
	r.pair("Amount Received:", r.money(doc.Payment.AmountReceived))
	r.pair("Change:", r.money(doc.Payment.DisplayChange))
	r.rule('-')

	for _, line := range doc.Store.Footer {
		r.center(line)
	}

	return r.b.String()
}

type renderer struct {
	b        strings.Builder
	width    int
	currency string
}

func (r *renderer) money(d decimal.Decimal) string {
	return r.currency + d.StringFixed(2)
}

func (r *renderer) line(s string) {
	r.b.WriteString(runewidth.Truncate(s, r.width, ""))
	r.b.WriteByte('\n')
}

func (r *renderer) rule(ch rune) {
	r.line(strings.Repeat(string(ch), r.width))
}

func (r *renderer) center(s string) {
	w := runewidth.StringWidth(s)
	if w >= r.width {
		r.line(s)
		return
	}
	r.line(strings.Repeat(" ", (r.width-w)/2) + s)
}

// pair prints a label on the left and a value flush right.
func (r *renderer) pair(label, value string) {
	gap := r.width - runewidth.StringWidth(label) - runewidth.StringWidth(value)
	if gap < 1 {
		gap = 1
	}
	r.line(label + strings.Repeat(" ", gap) + value)
}

func (r *renderer) row(nameWidth int, name, qty, price, total string) {
	var sb strings.Builder
	sb.WriteString(runewidth.FillRight(runewidth.Truncate(name, nameWidth, "…"), nameWidth))
	sb.WriteString(runewidth.FillLeft(qty, qtyWidth))
	sb.WriteString(runewidth.FillLeft(runewidth.Truncate(price, moneyWidth, ""), moneyWidth))
	sb.WriteString(runewidth.FillLeft(runewidth.Truncate(total, moneyWidth, ""), moneyWidth))
	r.line(sb.String())
}
