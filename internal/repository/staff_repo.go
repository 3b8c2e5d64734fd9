package repository

import (
	"context"

	"go-retail-pos/internal/model"

	"gorm.io/gorm"
)

type StaffRepository interface {
	Create(ctx context.Context, staff *model.Staff) error
	FindAll(ctx context.Context) ([]model.Staff, error)
	FindByEmail(ctx context.Context, email string) (*model.Staff, error)
}

type staffRepo struct {
	db *gorm.DB
}

func NewStaffRepo(db *gorm.DB) StaffRepository {
	return &staffRepo{db}
}

func (r *staffRepo) Create(ctx context.Context, staff *model.Staff) error {
	return translate(r.db.WithContext(ctx).Create(staff).Error)
}

func (r *staffRepo) FindAll(ctx context.Context) ([]model.Staff, error) {
	var staff []model.Staff
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&staff).Error
	return staff, translate(err)
}

func (r *staffRepo) FindByEmail(ctx context.Context, email string) (*model.Staff, error) {
	var staff model.Staff
	if err := r.db.WithContext(ctx).First(&staff, "email = ?", email).Error; err != nil {
		return nil, translate(err)
	}
	return &staff, nil
}
