package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"
	"go-retail-pos/internal/testdb"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu      sync.Mutex
	reasons []string
	ids     [][]string
}

func (p *recordingPublisher) Publish(reason string, productIDs ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reasons = append(p.reasons, reason)
	p.ids = append(p.ids, productIDs)
}

func (p *recordingPublisher) Reasons() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.reasons...)
}

type fixture struct {
	db           *gorm.DB
	products     repository.ProductRepository
	archive      repository.DeletedProductRepository
	transactions repository.TransactionRepository
	publisher    *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testdb.New(t)
	return &fixture{
		db:           db,
		products:     repository.NewProductRepo(db),
		archive:      repository.NewDeletedProductRepo(db),
		transactions: repository.NewTransactionRepo(db),
		publisher:    &recordingPublisher{},
	}
}

func (f *fixture) inventory() InventoryService {
	return NewInventoryService(f.products, f.archive, f.db, f.publisher)
}

func (f *fixture) sales(mode CommitMode) SalesService {
	return NewSalesService(f.products, f.transactions, f.db, SalesConfig{Mode: mode})
}

func (f *fixture) product(t *testing.T, name, cost, sell string, qty, minStock int) *model.Product {
	t.Helper()
	p := &model.Product{
		Name:                     name,
		Category:                 "Kids",
		Price:                    decimal.RequireFromString(sell),
		WholesalePrice:           decimal.RequireFromString(cost),
		WholesalePriceWithProfit: decimal.RequireFromString(sell),
		Quantity:                 qty,
		MinStock:                 minStock,
	}
	require.NoError(t, f.products.Create(context.Background(), p))
	return p
}

func (f *fixture) quantity(t *testing.T, p *model.Product) int {
	t.Helper()
	got, err := f.products.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	return got.Quantity
}

func (f *fixture) transactionCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&model.Transaction{}).Count(&n).Error)
	return n
}

// refuseTransactionInserts makes every insert into transactions fail.
func (f *fixture) refuseTransactionInserts(t *testing.T) {
	t.Helper()
	err := f.db.Callback().Create().Before("gorm:create").Register("test:refuse_transactions", func(tx *gorm.DB) {
		if tx.Statement.Table == "transactions" {
			tx.AddError(errors.New("insert refused"))
		}
	})
	require.NoError(t, err)
}

func line(p *model.Product, qty int) model.LineItem {
	return model.LineItem{
		ID:                       p.ID.String(),
		Name:                     p.Name,
		Price:                    p.WholesalePriceWithProfit,
		Quantity:                 qty,
		WholeSalePrice:           p.WholesalePrice,
		WholeSalePriceWithProfit: p.WholesalePriceWithProfit,
		CostPrice:                p.WholesalePrice,
	}
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
