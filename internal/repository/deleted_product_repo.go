package repository

import (
	"context"

	"go-retail-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DeletedProductRepository interface {
	Create(ctx context.Context, archived *model.DeletedProduct) error
	FindAll(ctx context.Context) ([]model.DeletedProduct, error)
	FindByProductID(ctx context.Context, productID uuid.UUID) (*model.DeletedProduct, error)
	DeleteByProductID(ctx context.Context, productID uuid.UUID) error
	WithTx(tx *gorm.DB) DeletedProductRepository
}

type deletedProductRepo struct {
	db *gorm.DB
}

func NewDeletedProductRepo(db *gorm.DB) DeletedProductRepository {
	return &deletedProductRepo{db}
}

func (r *deletedProductRepo) WithTx(tx *gorm.DB) DeletedProductRepository {
	return &deletedProductRepo{tx}
}

func (r *deletedProductRepo) Create(ctx context.Context, archived *model.DeletedProduct) error {
	return translate(r.db.WithContext(ctx).Create(archived).Error)
}

func (r *deletedProductRepo) FindAll(ctx context.Context) ([]model.DeletedProduct, error) {
	var rows []model.DeletedProduct
	err := r.db.WithContext(ctx).Order("deleted_at DESC").Find(&rows).Error
	return rows, translate(err)
}

// FindByProductID returns the most recent archive entry when a product was deleted more than once.
func (r *deletedProductRepo) FindByProductID(ctx context.Context, productID uuid.UUID) (*model.DeletedProduct, error) {
	var row model.DeletedProduct
	err := r.db.WithContext(ctx).Order("deleted_at DESC").First(&row, "product_id = ?", productID).Error
	if err != nil {
		return nil, translate(err)
	}
	return &row, nil
}

func (r *deletedProductRepo) DeleteByProductID(ctx context.Context, productID uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.DeletedProduct{}, "product_id = ?", productID)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
