package service

import (
	"context"
	"testing"

	"go-retail-pos/internal/model"
	"go-retail-pos/internal/pricing"
	"go-retail-pos/internal/receipt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioDraft(a, b *model.Product) SaleDraft {
	return SaleDraft{
		Items:          []model.LineItem{line(a, 2), line(b, 1)},
		Discount:       d("4.697"),
		PaymentMethod:  model.PaymentCash,
		CashierName:    "Akosua",
		AmountReceived: d("50"),
	}
}

func TestRecordSaleAtomicScenario(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "Item A", "10.99", "12.99", 10, 2)
	b := f.product(t, "Item B", "17.99", "20.99", 4, 2)

	res, err := f.sales(CommitAtomic).RecordSale(context.Background(), scenarioDraft(a, b))
	require.NoError(t, err)
	assert.Empty(t, res.StockWarnings)

	tx := res.Transaction
	assert.Equal(t, "RCP-000001", tx.ReceiptNumber)
	assert.True(t, d("46.97").Equal(tx.Subtotal))
	assert.True(t, d("4.697").Equal(tx.Discount))
	assert.True(t, d("42.273").Equal(tx.Total))
	assert.True(t, d("7.727").Equal(tx.Change))
	assert.Equal(t, model.WalkInCustomer, tx.CustomerName)
	assert.True(t, tx.Total.Equal(tx.Subtotal.Sub(tx.Discount)))
	require.Len(t, tx.Items, 2)
	assert.True(t, d("25.98").Equal(tx.Items[0].Subtotal))
	assert.True(t, d("10.99").Equal(tx.Items[0].CostPrice))

	assert.Equal(t, 8, f.quantity(t, a))
	assert.Equal(t, 3, f.quantity(t, b))

	stored, err := f.sales(CommitAtomic).GetTransactionByID(context.Background(), tx.ID)
	require.NoError(t, err)
	assert.Equal(t, tx.ReceiptNumber, stored.ReceiptNumber)
	assert.Equal(t, "Akosua", stored.CashierName)
}

func TestRecordSaleFloorsStockAtZero(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Bonnet", "3", "5", 3, 1)

	_, err := f.sales(CommitAtomic).RecordSale(context.Background(), SaleDraft{
		Items:          []model.LineItem{line(p, 5)},
		AmountReceived: d("25"),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, f.quantity(t, p))
}

func TestRecordSaleAtomicRollsBackOnInsertFailure(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "Item A", "10.99", "12.99", 10, 2)
	b := f.product(t, "Item B", "17.99", "20.99", 4, 2)
	f.refuseTransactionInserts(t)

	_, err := f.sales(CommitAtomic).RecordSale(context.Background(), scenarioDraft(a, b))
	require.ErrorIs(t, err, ErrCommitFailed)

	assert.Equal(t, 10, f.quantity(t, a))
	assert.Equal(t, 4, f.quantity(t, b))
	assert.Zero(t, f.transactionCount(t))
}

func TestRecordSaleAtomicRejectsMissingProduct(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "Item A", "10.99", "12.99", 10, 2)
	ghost := &model.Product{Name: "Ghost"}
	ghost.ID = uuid.New()

	_, err := f.sales(CommitAtomic).RecordSale(context.Background(), SaleDraft{
		Items:          []model.LineItem{line(a, 1), line(ghost, 1)},
		AmountReceived: d("100"),
	})
	require.ErrorIs(t, err, ErrProductNotFound)

	assert.Equal(t, 10, f.quantity(t, a))
	assert.Zero(t, f.transactionCount(t))
}

// Best-effort mode keeps the legacy gap: decrements already applied survive a failed insert.
func TestRecordSaleBestEffortInsertFailureKeepsDecrement(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "Item A", "10.99", "12.99", 10, 2)
	b := f.product(t, "Item B", "17.99", "20.99", 4, 2)
	f.refuseTransactionInserts(t)

	_, err := f.sales(CommitBestEffort).RecordSale(context.Background(), scenarioDraft(a, b))
	require.ErrorIs(t, err, ErrCommitFailed)

	assert.Equal(t, 8, f.quantity(t, a))
	assert.Equal(t, 3, f.quantity(t, b))
	assert.Zero(t, f.transactionCount(t))
}

func TestRecordSaleBestEffortSkipsFailingLines(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "Item A", "10.99", "12.99", 10, 2)
	ghost := &model.Product{Name: "Ghost"}
	ghost.ID = uuid.New()

	res, err := f.sales(CommitBestEffort).RecordSale(context.Background(), SaleDraft{
		Items:          []model.LineItem{line(ghost, 1), line(a, 3)},
		AmountReceived: d("100"),
		CustomerName:   "  Kofi  ",
	})
	require.NoError(t, err)

	require.Len(t, res.StockWarnings, 1)
	assert.Equal(t, ghost.ID.String(), res.StockWarnings[0].ProductID)
	assert.Equal(t, 7, f.quantity(t, a))
	assert.Equal(t, "Kofi", res.Transaction.CustomerName)
	assert.EqualValues(t, 1, f.transactionCount(t))
}

func TestRecordSaleValidation(t *testing.T) {
	f := newFixture(t)
	svc := f.sales(CommitAtomic)
	p := f.product(t, "Item", "1", "2", 1, 0)

	_, err := svc.RecordSale(context.Background(), SaleDraft{})
	assert.ErrorIs(t, err, ErrEmptySale)

	_, err = svc.RecordSale(context.Background(), SaleDraft{Items: []model.LineItem{line(p, 1)}, PaymentMethod: "bitcoin"})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "payment_method", vErr.Field)

	_, err = svc.RecordSale(context.Background(), SaleDraft{Items: []model.LineItem{line(p, 0)}})
	assert.ErrorAs(t, err, &vErr)
}

func TestValidatePaymentMethod(t *testing.T) {
	for _, m := range model.PaymentMethods {
		assert.NoError(t, ValidatePaymentMethod(m), m)
	}
	var vErr *ValidationError
	require.ErrorAs(t, ValidatePaymentMethod("bitcoin"), &vErr)
	assert.Equal(t, "payment_method", vErr.Tag)
}

func TestRecordSaleDerivesDiscountPercent(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Item", "10", "20", 5, 0)

	res, err := f.sales(CommitAtomic).RecordSale(context.Background(), SaleDraft{
		Items:          []model.LineItem{line(p, 2)},
		Discount:       d("8"),
		AmountReceived: d("30"),
		PaymentMethod:  model.PaymentCard,
	})
	require.NoError(t, err)

	assert.True(t, d("20").Equal(res.Transaction.DiscountPercent))
	assert.True(t, d("32").Equal(res.Transaction.Total))
	assert.True(t, d("-2").Equal(res.Transaction.Change))
}

func TestRecordSaleReceiptMatchesLedger(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Item", "2", "3", 5, 0)
	svc := f.sales(CommitAtomic)

	res, err := svc.RecordSale(context.Background(), SaleDraft{
		Items:          []model.LineItem{line(p, 1)},
		Discount:       d("1"),
		AmountReceived: d("2"),
	})
	require.NoError(t, err)
	assert.True(t, d("33.3333").Equal(res.Transaction.DiscountPercent))

	stored, err := svc.GetTransactionByID(context.Background(), res.Transaction.ID)
	require.NoError(t, err)
	doc := receipt.FromTransaction(receipt.DefaultStore(), *stored)

	assert.True(t, stored.Discount.Equal(doc.Totals.DiscountAmount), doc.Totals.DiscountAmount.String())
	assert.True(t, stored.Total.Equal(doc.Totals.Total), doc.Totals.Total.String())
	assert.True(t, stored.Change.Equal(doc.Payment.Change), doc.Payment.Change.String())
	assert.True(t, doc.Payment.Change.IsZero())
}

func TestRecordSaleRoundsToStoredScale(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Sweet", "0.50", "0.99", 5, 0)
	svc := f.sales(CommitAtomic)

	// 12.5% of 0.99 is 0.12375, one place finer than the columns keep.
	res, err := svc.RecordSale(context.Background(), SaleDraft{
		Items:          []model.LineItem{line(p, 1)},
		Discount:       d("0.12375"),
		AmountReceived: d("1"),
	})
	require.NoError(t, err)

	tx := res.Transaction
	assert.True(t, d("0.1238").Equal(tx.Discount), tx.Discount.String())
	assert.True(t, d("0.8662").Equal(tx.Total), tx.Total.String())
	assert.True(t, d("0.1338").Equal(tx.Change), tx.Change.String())
	assert.True(t, tx.Total.Equal(tx.Subtotal.Sub(tx.Discount)))
	for _, v := range []decimal.Decimal{tx.Subtotal, tx.Discount, tx.Total, tx.AmountReceived, tx.Change} {
		assert.True(t, v.Equal(pricing.RoundMoney(v)), v.String())
	}

	stored, err := svc.GetTransactionByID(context.Background(), tx.ID)
	require.NoError(t, err)
	assert.True(t, tx.Total.Equal(stored.Total))
	assert.True(t, stored.Total.Equal(stored.Subtotal.Sub(stored.Discount)))
}

func TestRecordSaleLedgerOnlyLines(t *testing.T) {
	f := newFixture(t)

	res, err := f.sales(CommitAtomic).RecordSale(context.Background(), SaleDraft{
		Items:          []model.LineItem{{Name: "Gift wrap", Price: d("2"), Quantity: 1}},
		AmountReceived: d("2"),
	})
	require.NoError(t, err)
	assert.True(t, d("2").Equal(res.Transaction.Total))
}

func TestReceiptNumbersAdvancePerSale(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Item", "1", "2", 10, 0)
	svc := f.sales(CommitAtomic)

	first, err := svc.RecordSale(context.Background(), SaleDraft{Items: []model.LineItem{line(p, 1)}, AmountReceived: d("2")})
	require.NoError(t, err)
	second, err := svc.RecordSale(context.Background(), SaleDraft{Items: []model.LineItem{line(p, 1)}, AmountReceived: d("2")})
	require.NoError(t, err)

	assert.Equal(t, "RCP-000001", first.Transaction.ReceiptNumber)
	assert.Equal(t, "RCP-000002", second.Transaction.ReceiptNumber)

	all, err := svc.GetAllTransactions(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestParseCommitMode(t *testing.T) {
	mode, err := ParseCommitMode("")
	require.NoError(t, err)
	assert.Equal(t, CommitAtomic, mode)

	mode, err = ParseCommitMode("Best-Effort")
	require.NoError(t, err)
	assert.Equal(t, CommitBestEffort, mode)

	_, err = ParseCommitMode("yolo")
	assert.Error(t, err)
}
