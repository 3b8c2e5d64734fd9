package service

import (
	"context"
	"fmt"
	"time"

	"go-retail-pos/internal/model"
	"go-retail-pos/internal/pricing"
	"go-retail-pos/internal/repository"

	"github.com/shopspring/decimal"
)

// Summary feeds the admin overview cards. TotalProfit sums unfloored per-line margins;
// TotalProfitFloored floors each line at zero as the transaction list does.
type Summary struct {
	TotalTransactions  int64                         `json:"totalTransactions"`
	TotalRevenue       decimal.Decimal               `json:"totalRevenue"`
	AverageTransaction decimal.Decimal               `json:"averageTransaction"`
	TotalProfit        decimal.Decimal               `json:"totalProfit"`
	TotalProfitFloored decimal.Decimal               `json:"totalProfitFloored"`
	TotalItemsSold     int                           `json:"totalItemsSold"`
	PaymentMethods     map[model.PaymentMethod]int64 `json:"paymentMethods"`
	TotalProducts      int64                         `json:"totalProducts"`
	LowStockCount      int64                         `json:"lowStockCount"`
	OutOfStockCount    int64                         `json:"outOfStockCount"`
}

type ReportService interface {
	GetSummary(ctx context.Context) (*Summary, error)
	GetDailySales(ctx context.Context, days int) ([]repository.DailySales, error)
}

type reportService struct {
	txRepo      repository.TransactionRepository
	productRepo repository.ProductRepository
}

func NewReportService(txRepo repository.TransactionRepository, productRepo repository.ProductRepository) ReportService {
	return &reportService{txRepo: txRepo, productRepo: productRepo}
}

func (s *reportService) GetSummary(ctx context.Context) (*Summary, error) {
	transactions, err := s.txRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}

	sum := &Summary{
		TotalRevenue:       decimal.Zero,
		TotalProfit:        decimal.Zero,
		TotalProfitFloored: decimal.Zero,
		PaymentMethods:     make(map[model.PaymentMethod]int64, len(model.PaymentMethods)),
	}
	for _, m := range model.PaymentMethods {
		sum.PaymentMethods[m] = 0
	}

	for _, tx := range transactions {
		sum.TotalTransactions++
		sum.TotalRevenue = sum.TotalRevenue.Add(tx.Total)
		sum.TotalProfit = sum.TotalProfit.Add(pricing.UnflooredProfit(tx.Items))
		sum.TotalProfitFloored = sum.TotalProfitFloored.Add(pricing.FlooredProfit(tx.Items))
		for _, it := range tx.Items {
			sum.TotalItemsSold += it.Quantity
		}
		sum.PaymentMethods[tx.PaymentMethod]++
	}

	count := sum.TotalTransactions
	if count < 1 {
		count = 1
	}
	sum.AverageTransaction = sum.TotalRevenue.Div(decimal.NewFromInt(count)).Round(2)

	if sum.TotalProducts, err = s.productRepo.CountAll(ctx); err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	if sum.LowStockCount, err = s.productRepo.CountLowStock(ctx); err != nil {
		return nil, fmt.Errorf("count low stock: %w", err)
	}
	if sum.OutOfStockCount, err = s.productRepo.CountOutOfStock(ctx); err != nil {
		return nil, fmt.Errorf("count out of stock: %w", err)
	}

	return sum, nil
}

func (s *reportService) GetDailySales(ctx context.Context, days int) ([]repository.DailySales, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)

	return s.txRepo.GetDailySales(ctx, startDate, endDate)
}
