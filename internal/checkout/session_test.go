package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go-retail-pos/internal/model"
	"go-retail-pos/internal/pricing"
	"go-retail-pos/internal/receipt"
	"go-retail-pos/internal/repository"
	"go-retail-pos/internal/service"
	"go-retail-pos/internal/testdb"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func product(name, cost, sell string) model.Product {
	p := model.Product{
		Name:                     name,
		WholesalePrice:           d(cost),
		WholesalePriceWithProfit: d(sell),
		Quantity:                 10,
	}
	p.ID = uuid.New()
	return p
}

type fakeCommitter struct {
	mu      sync.Mutex
	drafts  []service.SaleDraft
	err     error
	gate    chan struct{}
	entered chan struct{}
}

func (f *fakeCommitter) RecordSale(ctx context.Context, draft service.SaleDraft) (*service.SaleResult, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.gate != nil {
		<-f.gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.drafts = append(f.drafts, draft)
	if f.err != nil {
		return nil, f.err
	}
	subtotal := pricing.Subtotal(draft.Items)
	total := pricing.Total(subtotal, draft.Discount)
	tx := &model.Transaction{
		Items:           draft.Items,
		Subtotal:        subtotal,
		Discount:        draft.Discount,
		Total:           total,
		Change:          pricing.Change(draft.AmountReceived, total),
		PaymentMethod:   draft.PaymentMethod,
		CustomerName:    draft.CustomerName,
		CashierName:     draft.CashierName,
		AmountReceived:  draft.AmountReceived,
		ReceiptNumber:   "RCP-000001",
	}
	tx.CreatedAt = time.Now()
	return &service.SaleResult{Transaction: tx}, nil
}

type countingPublisher struct {
	mu      sync.Mutex
	reasons []string
}

func (p *countingPublisher) Publish(reason string, _ ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reasons = append(p.reasons, reason)
}

func (p *countingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.reasons)
}

func scenarioSession(t *testing.T, c Committer, pub *countingPublisher) *Session {
	t.Helper()
	s := NewSession("s1", "Akosua", c, pub, receipt.DefaultStore())
	a := product("Item A", "10.99", "12.99")
	b := product("Item B", "17.99", "20.99")
	require.NoError(t, s.AddItem(a))
	require.NoError(t, s.AddItem(a))
	require.NoError(t, s.AddItem(b))
	pct := d("10")
	require.NoError(t, s.SetOptions(Options{DiscountPercent: &pct}))
	return s
}

func TestCompleteHappyPath(t *testing.T) {
	c := &fakeCommitter{}
	pub := &countingPublisher{}
	s := scenarioSession(t, c, pub)

	totals, err := s.Confirm()
	require.NoError(t, err)
	assert.True(t, d("42.273").Equal(totals.Total))
	assert.Equal(t, StateConfirming, s.State())

	done, err := s.Complete(context.Background(), d("50"))
	require.NoError(t, err)

	assert.Equal(t, StateCompleted, s.State())
	assert.Equal(t, 1, pub.count())
	require.Len(t, c.drafts, 1)
	assert.True(t, d("4.697").Equal(c.drafts[0].Discount))
	assert.Equal(t, "Akosua", c.drafts[0].CashierName)
	assert.Len(t, done.Lines, 2)
	assert.True(t, d("7.727").Equal(done.Receipt.Payment.Change))

	snap := s.Snapshot()
	assert.Empty(t, snap.Lines)
	assert.True(t, snap.DiscountPercent.IsZero())
	require.NotNil(t, snap.LastSale)
	assert.Equal(t, "RCP-000001", s.Receipt().Number)
}

func TestConfirmEmptyCart(t *testing.T) {
	s := NewSession("s1", "", &fakeCommitter{}, nil, receipt.DefaultStore())
	_, err := s.Confirm()
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, StateIdle, s.State())
}

func TestCompleteRequiresConfirmation(t *testing.T) {
	s := scenarioSession(t, &fakeCommitter{}, &countingPublisher{})
	_, err := s.Complete(context.Background(), d("100"))
	assert.ErrorIs(t, err, ErrNotConfirming)
}

func TestCompleteRejectsUnderTender(t *testing.T) {
	c := &fakeCommitter{}
	s := scenarioSession(t, c, &countingPublisher{})
	_, err := s.Confirm()
	require.NoError(t, err)

	_, err = s.Complete(context.Background(), d("42.27"))
	assert.ErrorIs(t, err, ErrInsufficientPayment)
	assert.Equal(t, StateConfirming, s.State())
	assert.Empty(t, c.drafts)

	_, err = s.Complete(context.Background(), d("42.273"))
	assert.NoError(t, err)
}

func TestEditWhileConfirmingReturnsToIdle(t *testing.T) {
	s := scenarioSession(t, &fakeCommitter{}, &countingPublisher{})
	_, err := s.Confirm()
	require.NoError(t, err)

	require.NoError(t, s.AddItem(product("Bib", "1", "2")))
	assert.Equal(t, StateIdle, s.State())
	assert.Nil(t, s.Snapshot().Frozen)

	_, err = s.Complete(context.Background(), d("100"))
	assert.ErrorIs(t, err, ErrNotConfirming)
}

func TestCancel(t *testing.T) {
	s := scenarioSession(t, &fakeCommitter{}, &countingPublisher{})
	_, err := s.Confirm()
	require.NoError(t, err)

	require.NoError(t, s.Cancel())
	assert.Equal(t, StateIdle, s.State())
	assert.Len(t, s.Snapshot().Lines, 2)
}

func TestFailureKeepsCartForRetry(t *testing.T) {
	c := &fakeCommitter{err: errors.New("store offline")}
	pub := &countingPublisher{}
	s := scenarioSession(t, c, pub)
	_, err := s.Confirm()
	require.NoError(t, err)

	_, err = s.Complete(context.Background(), d("50"))
	require.Error(t, err)
	assert.Equal(t, StateFailed, s.State())
	assert.Len(t, s.Snapshot().Lines, 2)
	assert.Equal(t, "store offline", s.Snapshot().Error)
	assert.Zero(t, pub.count())

	c.err = nil
	_, err = s.Confirm()
	require.NoError(t, err)
	_, err = s.Complete(context.Background(), d("50"))
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, s.State())
}

func TestMutationsRejectedWhileProcessing(t *testing.T) {
	c := &fakeCommitter{gate: make(chan struct{}), entered: make(chan struct{})}
	s := scenarioSession(t, c, &countingPublisher{})
	_, err := s.Confirm()
	require.NoError(t, err)

	errc := make(chan error, 1)
	go func() {
		_, err := s.Complete(context.Background(), d("50"))
		errc <- err
	}()
	<-c.entered

	assert.Equal(t, StateProcessing, s.State())
	assert.ErrorIs(t, s.AddItem(product("Bib", "1", "2")), ErrCheckoutInProgress)
	assert.ErrorIs(t, s.Cancel(), ErrCheckoutInProgress)
	_, err = s.Confirm()
	assert.ErrorIs(t, err, ErrCheckoutInProgress)
	_, err = s.Complete(context.Background(), d("50"))
	assert.ErrorIs(t, err, ErrCheckoutInProgress)
	s.Snapshot()

	close(c.gate)
	require.NoError(t, <-errc)
	assert.Equal(t, StateCompleted, s.State())
}

func TestNextSaleStartsFromCompleted(t *testing.T) {
	s := scenarioSession(t, &fakeCommitter{}, &countingPublisher{})
	_, err := s.Confirm()
	require.NoError(t, err)
	_, err = s.Complete(context.Background(), d("50"))
	require.NoError(t, err)

	require.NoError(t, s.AddItem(product("Bib", "1", "2")))
	assert.Equal(t, StateIdle, s.State())
	assert.Len(t, s.Snapshot().Lines, 1)
	assert.Contains(t, s.Receipt().Number, "PREVIEW-")
}

func TestPreviewReceiptBeforeSale(t *testing.T) {
	s := scenarioSession(t, &fakeCommitter{}, &countingPublisher{})
	doc := s.Receipt()
	assert.Contains(t, doc.Number, "PREVIEW-")
	assert.True(t, d("42.273").Equal(doc.Totals.Total))
	assert.Equal(t, "Akosua", doc.Cashier)
}

// The stock decrement survives a failed ledger insert in best-effort mode and the cart stays intact.
func TestBestEffortInsertFailureEndToEnd(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	products := repository.NewProductRepo(db)
	p := &model.Product{Name: "Item A", WholesalePrice: d("10.99"), WholesalePriceWithProfit: d("12.99"), Quantity: 3}
	require.NoError(t, products.Create(ctx, p))

	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:refuse_transactions", func(tx *gorm.DB) {
		if tx.Statement.Table == "transactions" {
			tx.AddError(errors.New("insert refused"))
		}
	}))

	sales := service.NewSalesService(products, repository.NewTransactionRepo(db), db, service.SalesConfig{Mode: service.CommitBestEffort})
	pub := &countingPublisher{}
	s := NewSession("s1", "Akosua", sales, pub, receipt.DefaultStore())
	require.NoError(t, s.AddItem(*p))
	require.NoError(t, s.UpdateQuantity(p.ID.String(), 5))

	_, err := s.Confirm()
	require.NoError(t, err)
	_, err = s.Complete(ctx, d("100"))
	require.ErrorIs(t, err, service.ErrCommitFailed)

	assert.Equal(t, StateFailed, s.State())
	assert.Len(t, s.Snapshot().Lines, 1)
	assert.Zero(t, pub.count())

	got, err := products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Quantity)

	var n int64
	require.NoError(t, db.Model(&model.Transaction{}).Count(&n).Error)
	assert.Zero(t, n)
}
