package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go-retail-pos/internal/model"
	"go-retail-pos/internal/pricing"
	"go-retail-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CommitMode selects how a sale's stock decrements and ledger insert are grouped.
type CommitMode string

const (
	// CommitAtomic runs every decrement and the insert in one database transaction.
	CommitAtomic CommitMode = "atomic"
	// CommitBestEffort decrements line by line, logs and skips failures, then inserts.
	// An insert failure leaves the decrements applied.
	CommitBestEffort CommitMode = "best_effort"
)

func ParseCommitMode(s string) (CommitMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(CommitAtomic):
		return CommitAtomic, nil
	case string(CommitBestEffort), "best-effort":
		return CommitBestEffort, nil
	}
	return "", fmt.Errorf("unknown commit mode %q", s)
}

// SaleDraft is everything needed to commit a sale. Discount is the absolute amount and
// is authoritative; the recorded percent is always derived from it.
type SaleDraft struct {
	Items          []model.LineItem
	Discount       decimal.Decimal
	PaymentMethod  model.PaymentMethod
	CustomerName   string
	CashierName    string
	AmountReceived decimal.Decimal
}

// StockWarning records a line whose stock could not be adjusted in best-effort mode.
type StockWarning struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Error     string `json:"error"`
}

type SaleResult struct {
	Transaction   *model.Transaction `json:"transaction"`
	StockWarnings []StockWarning     `json:"stock_warnings,omitempty"`
}

type SalesService interface {
	RecordSale(ctx context.Context, draft SaleDraft) (*SaleResult, error)
	GetAllTransactions(ctx context.Context) ([]model.Transaction, error)
	GetTransactionByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
}

type SalesConfig struct {
	Mode        CommitMode
	WalkInLabel string
}

type salesService struct {
	productRepo     repository.ProductRepository
	transactionRepo repository.TransactionRepository
	db              *gorm.DB
	mode            CommitMode
	walkIn          string
}

func NewSalesService(pRepo repository.ProductRepository, tRepo repository.TransactionRepository, db *gorm.DB, cfg SalesConfig) SalesService {
	if cfg.Mode == "" {
		cfg.Mode = CommitAtomic
	}
	if cfg.WalkInLabel == "" {
		cfg.WalkInLabel = model.WalkInCustomer
	}
	return &salesService{
		productRepo:     pRepo,
		transactionRepo: tRepo,
		db:              db,
		mode:            cfg.Mode,
		walkIn:          cfg.WalkInLabel,
	}
}

func (s *salesService) RecordSale(ctx context.Context, draft SaleDraft) (*SaleResult, error) {
	record, err := s.buildTransaction(draft)
	if err != nil {
		return nil, err
	}

	if s.mode == CommitBestEffort {
		return s.commitBestEffort(ctx, record)
	}
	return s.commitAtomic(ctx, record)
}

func (s *salesService) buildTransaction(d SaleDraft) (*model.Transaction, error) {
	if len(d.Items) == 0 {
		return nil, ErrEmptySale
	}

	method := d.PaymentMethod
	if method == "" {
		method = model.PaymentCash
	}
	if err := ValidatePaymentMethod(method); err != nil {
		return nil, err
	}

	items := make([]model.LineItem, 0, len(d.Items))
	for _, it := range d.Items {
		if it.Quantity <= 0 {
			return nil, &ValidationError{Field: "items.quantity", Tag: "gt"}
		}
		if it.CostPrice.IsZero() {
			it.CostPrice = it.WholeSalePrice
		}
		it.Subtotal = pricing.LineSubtotal(it.Price, it.Quantity)
		items = append(items, it)
	}

	// Amounts are rounded to the column scale before total and change are derived,
	// so the stored row keeps total == subtotal - discount.
	subtotal := pricing.RoundMoney(pricing.Subtotal(items))
	discount := pricing.RoundMoney(d.Discount)
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	received := pricing.RoundMoney(d.AmountReceived)

	// The percent is informational and always follows the absolute discount.
	pct := decimal.Zero
	if discount.IsPositive() && subtotal.IsPositive() {
		pct = pricing.ClampDiscount(discount.Mul(decimal.NewFromInt(100)).Div(subtotal).Round(4))
	}

	customer := strings.TrimSpace(d.CustomerName)
	if customer == "" {
		customer = s.walkIn
	}

	total := pricing.Total(subtotal, discount)
	return &model.Transaction{
		Items:           items,
		Subtotal:        subtotal,
		DiscountPercent: pct,
		Discount:        discount,
		Total:           total,
		PaymentMethod:   method,
		CustomerName:    customer,
		CashierName:     d.CashierName,
		AmountReceived:  received,
		Change:          pricing.Change(received, total),
	}, nil
}

// stockLines yields the lines that reference a product; others are ledger-only.
func stockLines(items []model.LineItem) []model.LineItem {
	var out []model.LineItem
	for _, it := range items {
		if it.ID != "" && it.Quantity > 0 {
			out = append(out, it)
		}
	}
	return out
}

func (s *salesService) commitAtomic(ctx context.Context, record *model.Transaction) (*SaleResult, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := s.productRepo.WithTx(tx)
		for _, line := range stockLines(record.Items) {
			id, err := uuid.Parse(line.ID)
			if err != nil {
				return fmt.Errorf("%w: %s", ErrProductNotFound, line.ID)
			}
			if err := products.DecrementStock(ctx, id, line.Quantity); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return fmt.Errorf("%w: %s", ErrProductNotFound, line.ID)
				}
				return fmt.Errorf("decrement stock for %s: %w", line.ID, err)
			}
		}

		transactions := s.transactionRepo.WithTx(tx)
		number, err := transactions.NextReceiptNumber(ctx)
		if err != nil {
			return fmt.Errorf("%w: receipt number: %v", ErrCommitFailed, err)
		}
		record.ReceiptNumber = number
		if err := transactions.Create(ctx, record); err != nil {
			return fmt.Errorf("%w: %v", ErrCommitFailed, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("sale recorded", "receipt_number", record.ReceiptNumber, "total", record.Total.StringFixed(2), "mode", CommitAtomic)
	return &SaleResult{Transaction: record}, nil
}

func (s *salesService) commitBestEffort(ctx context.Context, record *model.Transaction) (*SaleResult, error) {
	var warnings []StockWarning
	for _, line := range stockLines(record.Items) {
		if err := s.decrementLine(ctx, line); err != nil {
			slog.Warn("stock adjustment failed, continuing checkout", "product_id", line.ID, "name", line.Name, "error", err)
			warnings = append(warnings, StockWarning{ProductID: line.ID, Name: line.Name, Error: err.Error()})
		}
	}

	number, err := s.transactionRepo.NextReceiptNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: receipt number: %v", ErrCommitFailed, err)
	}
	record.ReceiptNumber = number
	if err := s.transactionRepo.Create(ctx, record); err != nil {
		slog.Error("transaction insert failed after stock adjustment", "receipt_number", number, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrCommitFailed, err)
	}

	slog.Info("sale recorded", "receipt_number", record.ReceiptNumber, "total", record.Total.StringFixed(2), "mode", CommitBestEffort, "stock_warnings", len(warnings))
	return &SaleResult{Transaction: record, StockWarnings: warnings}, nil
}

func (s *salesService) decrementLine(ctx context.Context, line model.LineItem) error {
	id, err := uuid.Parse(line.ID)
	if err != nil {
		return ErrProductNotFound
	}
	if err := s.productRepo.DecrementStock(ctx, id, line.Quantity); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	return nil
}

func (s *salesService) GetAllTransactions(ctx context.Context) ([]model.Transaction, error) {
	return s.transactionRepo.FindAll(ctx)
}

func (s *salesService) GetTransactionByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	tx, err := s.transactionRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrTransactionNotFound
	}
	return tx, err
}
