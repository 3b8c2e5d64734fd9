package service

import (
	"context"
	"errors"
	"strings"

	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"
)

type StaffService interface {
	GetAllStaff(ctx context.Context) ([]model.Staff, error)
	CreateStaff(ctx context.Context, req *model.Staff) error
}

type staffService struct {
	staffRepo repository.StaffRepository
}

func NewStaffService(repo repository.StaffRepository) StaffService {
	return &staffService{staffRepo: repo}
}

func (s *staffService) GetAllStaff(ctx context.Context) ([]model.Staff, error) {
	return s.staffRepo.FindAll(ctx)
}

func (s *staffService) CreateStaff(ctx context.Context, req *model.Staff) error {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate(req); err != nil {
		return err
	}

	if err := s.staffRepo.Create(ctx, req); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrStaffExists
		}
		return err
	}
	return nil
}
