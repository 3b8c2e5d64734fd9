// Package checkout runs the cart-to-transaction workflow for one till session at a time.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go-retail-pos/internal/cart"
	"go-retail-pos/internal/model"
	"go-retail-pos/internal/pricing"
	"go-retail-pos/internal/receipt"
	"go-retail-pos/internal/service"
	"go-retail-pos/internal/ws"

	"github.com/shopspring/decimal"
)

type State string

const (
	StateIdle       State = "idle"
	StateConfirming State = "confirming"
	StateProcessing State = "processing"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

var (
	ErrEmptyCart           = errors.New("cart is empty")
	ErrNotConfirming       = errors.New("checkout is not awaiting payment")
	ErrInsufficientPayment = errors.New("amount received is less than the total")
	ErrCheckoutInProgress  = errors.New("checkout is already being processed")
	ErrSessionNotFound     = errors.New("checkout session not found")
)

// Committer persists a sale; service.SalesService satisfies it.
type Committer interface {
	RecordSale(ctx context.Context, draft service.SaleDraft) (*service.SaleResult, error)
}

// Completion is what a successful checkout leaves behind for receipt printing.
type Completion struct {
	Transaction   *model.Transaction     `json:"transaction"`
	Lines         []model.LineItem       `json:"lines"`
	Receipt       receipt.Document       `json:"receipt"`
	StockWarnings []service.StockWarning `json:"stock_warnings,omitempty"`
}

// Options changes the session fields that sit next to the lines. Nil fields are left alone.
type Options struct {
	DiscountPercent *decimal.Decimal     `json:"discount_percent"`
	CustomerName    *string              `json:"customer_name"`
	PaymentMethod   *model.PaymentMethod `json:"payment_method"`
}

// Snapshot is a read-only view of a session.
type Snapshot struct {
	ID              string              `json:"id"`
	State           State               `json:"state"`
	Cashier         string              `json:"cashier"`
	Lines           []model.LineItem    `json:"lines"`
	Totals          pricing.Totals      `json:"totals"`
	Frozen          *pricing.Totals     `json:"frozen_totals,omitempty"`
	DiscountPercent decimal.Decimal     `json:"discount_percent"`
	CustomerName    string              `json:"customer_name"`
	PaymentMethod   model.PaymentMethod `json:"payment_method"`
	Error           string              `json:"error,omitempty"`
	LastSale        *Completion         `json:"last_sale,omitempty"`
}

// Session owns one cart and drives it through Idle, Confirming, Processing and then
// Completed or Failed. The lock is released while the sale is being committed; mutations
// arriving in that window are rejected with ErrCheckoutInProgress.
type Session struct {
	id      string
	cashier string

	mu        sync.Mutex
	cart      *cart.Cart
	state     State
	frozen    *pricing.Totals
	lastErr   error
	completed *Completion

	committer Committer
	publisher ws.Publisher
	store     receipt.Store
	now       func() time.Time
}

func NewSession(id, cashier string, committer Committer, publisher ws.Publisher, store receipt.Store) *Session {
	if publisher == nil {
		publisher = ws.Nop{}
	}
	return &Session{
		id:        id,
		cashier:   cashier,
		cart:      cart.New(),
		state:     StateIdle,
		committer: committer,
		publisher: publisher,
		store:     store,
		now:       time.Now,
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Cashier() string {
	return s.cashier
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) AddItem(p model.Product) error {
	return s.mutate(func(c *cart.Cart) { c.Add(p) })
}

func (s *Session) RemoveItem(productID string) error {
	return s.mutate(func(c *cart.Cart) { c.Remove(productID) })
}

func (s *Session) UpdateQuantity(productID string, qty int) error {
	return s.mutate(func(c *cart.Cart) { c.UpdateQuantity(productID, qty) })
}

func (s *Session) SetOptions(opts Options) error {
	return s.mutate(func(c *cart.Cart) {
		if opts.DiscountPercent != nil {
			c.SetDiscountPercent(*opts.DiscountPercent)
		}
		if opts.CustomerName != nil {
			c.SetCustomerName(*opts.CustomerName)
		}
		if opts.PaymentMethod != nil {
			c.SetPaymentMethod(*opts.PaymentMethod)
		}
	})
}

// mutate applies a cart change. Editing during confirmation drops the frozen totals and
// returns to Idle; the first edit after a completed or failed sale does the same.
func (s *Session) mutate(fn func(c *cart.Cart)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateProcessing {
		return ErrCheckoutInProgress
	}
	fn(s.cart)
	s.state = StateIdle
	s.frozen = nil
	s.lastErr = nil
	return nil
}

// Confirm freezes the totals for payment. An empty cart leaves the session Idle.
func (s *Session) Confirm() (pricing.Totals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateProcessing:
		return pricing.Totals{}, ErrCheckoutInProgress
	case StateConfirming:
		return *s.frozen, nil
	}

	if s.cart.IsEmpty() {
		s.state = StateIdle
		s.frozen = nil
		return pricing.Totals{}, ErrEmptyCart
	}

	totals := s.cart.Totals()
	s.frozen = &totals
	s.state = StateConfirming
	s.lastErr = nil
	return totals, nil
}

// Cancel returns a confirming session to Idle. It is a no-op in any state but Processing.
func (s *Session) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateProcessing:
		return ErrCheckoutInProgress
	case StateConfirming:
		s.state = StateIdle
		s.frozen = nil
	}
	return nil
}

// Complete commits the confirmed sale. On success the cart is reset and the refresh signal
// fires; on failure the cart is kept for a retry.
func (s *Session) Complete(ctx context.Context, amountReceived decimal.Decimal) (*Completion, error) {
	s.mu.Lock()
	switch s.state {
	case StateProcessing:
		s.mu.Unlock()
		return nil, ErrCheckoutInProgress
	case StateConfirming:
	default:
		s.mu.Unlock()
		return nil, ErrNotConfirming
	}

	totals := *s.frozen
	if !pricing.CanComplete(amountReceived, totals.Total) {
		s.mu.Unlock()
		return nil, ErrInsufficientPayment
	}

	draft := service.SaleDraft{
		Items:          s.cart.Lines(),
		Discount:       totals.DiscountAmount,
		PaymentMethod:  s.cart.PaymentMethod(),
		CustomerName:   s.cart.CustomerName(),
		CashierName:    s.cashier,
		AmountReceived: amountReceived,
	}
	s.state = StateProcessing
	s.mu.Unlock()

	result, err := s.committer.RecordSale(ctx, draft)

	s.mu.Lock()
	if err != nil {
		s.state = StateFailed
		s.frozen = nil
		s.lastErr = err
		s.mu.Unlock()
		return nil, fmt.Errorf("checkout %s: %w", s.id, err)
	}

	done := &Completion{
		Transaction:   result.Transaction,
		Lines:         draft.Items,
		Receipt:       receipt.FromTransaction(s.store, *result.Transaction),
		StockWarnings: result.StockWarnings,
	}
	s.cart.Reset()
	s.frozen = nil
	s.lastErr = nil
	s.completed = done
	s.state = StateCompleted
	s.mu.Unlock()

	ids := make([]string, 0, len(draft.Items))
	for _, l := range draft.Items {
		ids = append(ids, l.ID)
	}
	s.publisher.Publish("sale_completed", ids...)

	return done, nil
}

// Receipt returns the last committed receipt, or a preview of the current cart when nothing
// has been sold yet or a new sale is under way.
func (s *Session) Receipt() receipt.Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.completed != nil && (s.state == StateCompleted || s.cart.IsEmpty()) {
		return s.completed.Receipt
	}
	return receipt.Preview(s.store, receipt.Input{
		Items:           s.cart.Lines(),
		DiscountPercent: s.cart.DiscountPercent(),
		CustomerName:    s.cart.CustomerName(),
		CashierName:     s.cashier,
		PaymentMethod:   s.cart.PaymentMethod(),
	}, s.now())
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:              s.id,
		State:           s.state,
		Cashier:         s.cashier,
		Lines:           s.cart.Lines(),
		Totals:          s.cart.Totals(),
		DiscountPercent: s.cart.DiscountPercent(),
		CustomerName:    s.cart.CustomerName(),
		PaymentMethod:   s.cart.PaymentMethod(),
		LastSale:        s.completed,
	}
	if s.frozen != nil {
		frozen := *s.frozen
		snap.Frozen = &frozen
	}
	if s.lastErr != nil {
		snap.Error = s.lastErr.Error()
	}
	return snap
}
