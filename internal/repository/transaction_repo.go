package repository

import (
	"context"
	"fmt"
	"time"

	"go-retail-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionRepository interface {
	Create(ctx context.Context, tx *model.Transaction) error
	FindAll(ctx context.Context) ([]model.Transaction, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
	NextReceiptNumber(ctx context.Context) (string, error)
	GetDailySales(ctx context.Context, startDate, endDate time.Time) ([]DailySales, error)
	WithTx(tx *gorm.DB) TransactionRepository
}

// DailySales is one point of the revenue chart.
type DailySales struct {
	Date         string          `json:"date"`
	Revenue      decimal.Decimal `json:"revenue"`
	Transactions int64           `json:"transactions"`
}

const receiptNumberFormat = "RCP-%06d"

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) WithTx(tx *gorm.DB) TransactionRepository {
	return &transactionRepo{tx}
}

func (r *transactionRepo) Create(ctx context.Context, tx *model.Transaction) error {
	return translate(r.db.WithContext(ctx).Create(tx).Error)
}

func (r *transactionRepo) FindAll(ctx context.Context) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&transactions).Error
	return transactions, translate(err)
}

func (r *transactionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	var transaction model.Transaction
	if err := r.db.WithContext(ctx).First(&transaction, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &transaction, nil
}

// NextReceiptNumber inserts a sequence row and formats its auto-increment id.
// Inside a rolled-back transaction the number is simply never used.
func (r *transactionRepo) NextReceiptNumber(ctx context.Context) (string, error) {
	seq := model.ReceiptSequence{}
	if err := r.db.WithContext(ctx).Create(&seq).Error; err != nil {
		return "", translate(err)
	}
	return fmt.Sprintf(receiptNumberFormat, seq.ID), nil
}

func (r *transactionRepo) GetDailySales(ctx context.Context, startDate, endDate time.Time) ([]DailySales, error) {
	results := []DailySales{}

	rows, err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Select(`
			CAST(DATE(created_at) AS TEXT) as date,
			COALESCE(SUM(total), 0) as revenue,
			COUNT(*) as transactions
		`).
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	for rows.Next() {
		var data DailySales
		if err := rows.Scan(&data.Date, &data.Revenue, &data.Transactions); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, rows.Err()
}
