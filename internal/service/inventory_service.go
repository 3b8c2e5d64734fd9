package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"
	"go-retail-pos/internal/ws"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// StockAdjustment is one entry of the bulk stock update, keyed by product name.
type StockAdjustment struct {
	Name     string `json:"name" validate:"required"`
	Quantity int    `json:"quantity" validate:"gt=0"`
}

type StockUpdateResult struct {
	Updated []string `json:"updated"`
	Skipped []string `json:"skipped"`
}

type InventoryService interface {
	GetAllProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	CreateProduct(ctx context.Context, req *model.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID, deletedBy, reason string) (*model.DeletedProduct, error)
	GetDeletedProducts(ctx context.Context) ([]model.DeletedProduct, error)
	RestoreProduct(ctx context.Context, productID uuid.UUID) (*model.Product, error)
	UpdateStockByName(ctx context.Context, items []StockAdjustment) (*StockUpdateResult, error)
}

type inventoryService struct {
	productRepo repository.ProductRepository
	archiveRepo repository.DeletedProductRepository
	db          *gorm.DB
	publisher   ws.Publisher
}

func NewInventoryService(pRepo repository.ProductRepository, aRepo repository.DeletedProductRepository, db *gorm.DB, publisher ws.Publisher) InventoryService {
	if publisher == nil {
		publisher = ws.Nop{}
	}
	return &inventoryService{
		productRepo: pRepo,
		archiveRepo: aRepo,
		db:          db,
		publisher:   publisher,
	}
}

func (s *inventoryService) GetAllProducts(ctx context.Context) ([]model.Product, error) {
	return s.productRepo.FindAll(ctx)
}

func (s *inventoryService) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	p, err := s.productRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	return p, err
}

func (s *inventoryService) CreateProduct(ctx context.Context, req *model.Product) error {
	req.RoundPrices()
	if err := validate(req); err != nil {
		return err
	}

	if err := s.productRepo.Create(ctx, req); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrProductExists
		}
		return err
	}

	s.publisher.Publish("product_created", req.ID.String())
	return nil
}

// DeleteProduct removes the live row and writes its archive entry in one transaction.
// A failure is reported as a StageError naming the write that failed.
func (s *inventoryService) DeleteProduct(ctx context.Context, id uuid.UUID, deletedBy, reason string) (*model.DeletedProduct, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	name := product.Name
	if name == "" {
		name = model.UnknownProductName
	}
	if strings.TrimSpace(deletedBy) == "" {
		deletedBy = model.DefaultDeletedBy
	}
	if strings.TrimSpace(reason) == "" {
		reason = model.DefaultDeleteReason
	}

	archived := &model.DeletedProduct{
		ProductID:   product.ID,
		ProductName: name,
		ProductData: datatypes.NewJSONType(*product),
		DeletedBy:   deletedBy,
		Reason:      reason,
		DeletedAt:   time.Now(),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.productRepo.WithTx(tx).Delete(ctx, product.ID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrProductNotFound
			}
			return &StageError{Stage: StageDelete, Err: err}
		}
		if err := s.archiveRepo.WithTx(tx).Create(ctx, archived); err != nil {
			return &StageError{Stage: StageArchive, Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("product archived", "product_id", product.ID, "deleted_by", deletedBy)
	s.publisher.Publish("product_deleted", product.ID.String())
	return archived, nil
}

func (s *inventoryService) GetDeletedProducts(ctx context.Context) ([]model.DeletedProduct, error) {
	return s.archiveRepo.FindAll(ctx)
}

// RestoreProduct reinserts the archived snapshot unchanged, ID included, and drops the archive entry.
func (s *inventoryService) RestoreProduct(ctx context.Context, productID uuid.UUID) (*model.Product, error) {
	archived, err := s.archiveRepo.FindByProductID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrArchiveNotFound
		}
		return nil, err
	}

	if _, err := s.productRepo.FindByID(ctx, productID); err == nil {
		return nil, ErrProductExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	product := archived.ProductData.Data()
	product.ID = productID

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.productRepo.WithTx(tx).Create(ctx, &product); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrProductExists
			}
			return err
		}
		return s.archiveRepo.WithTx(tx).DeleteByProductID(ctx, productID)
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish("product_restored", productID.String())
	return &product, nil
}

// UpdateStockByName decrements each named product, floored at zero. Unknown names are skipped.
func (s *inventoryService) UpdateStockByName(ctx context.Context, items []StockAdjustment) (*StockUpdateResult, error) {
	if len(items) == 0 {
		return nil, &ValidationError{Field: "items", Tag: "required"}
	}
	for i := range items {
		if err := validate(&items[i]); err != nil {
			return nil, err
		}
	}

	result := &StockUpdateResult{Updated: []string{}, Skipped: []string{}}
	var touched []string
	for _, item := range items {
		p, err := s.productRepo.FindByName(ctx, item.Name)
		if errors.Is(err, repository.ErrNotFound) {
			result.Skipped = append(result.Skipped, item.Name)
			continue
		}
		if err != nil {
			return nil, err
		}
		if err := s.productRepo.DecrementStock(ctx, p.ID, item.Quantity); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				result.Skipped = append(result.Skipped, item.Name)
				continue
			}
			return nil, err
		}
		result.Updated = append(result.Updated, item.Name)
		touched = append(touched, p.ID.String())
	}

	if len(touched) > 0 {
		s.publisher.Publish("stock_updated", touched...)
	}
	return result, nil
}
