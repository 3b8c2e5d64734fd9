package service

import (
	"errors"
	"fmt"

	"go-retail-pos/internal/model"
	"go-retail-pos/pkg/validator"
)

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrArchiveNotFound     = errors.New("archived product not found")
	ErrProductExists       = errors.New("product already exists")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrStaffExists         = errors.New("staff email already registered")
	ErrEmptySale           = errors.New("sale has no items")
	ErrCommitFailed        = errors.New("failed to record transaction")
)

// ValidationError names the first field that failed struct validation.
type ValidationError struct {
	Field string
	Tag   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Validation failed: Field '%s' failed on tag '%s'", e.Field, e.Tag)
}

func validate(data interface{}) error {
	if errs := validator.ValidateStruct(data); len(errs) > 0 {
		return &ValidationError{Field: errs[0].FailedField, Tag: errs[0].Tag}
	}
	return nil
}

// ValidatePaymentMethod checks a tender against the payment_method tag.
func ValidatePaymentMethod(m model.PaymentMethod) error {
	if err := validator.ValidateVar(m, "payment_method"); err != nil {
		return &ValidationError{Field: "payment_method", Tag: "payment_method"}
	}
	return nil
}

// StageError reports which write of a multi-step operation failed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("Failed to %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

const (
	StageDelete  = "delete from products"
	StageArchive = "archive"
)
