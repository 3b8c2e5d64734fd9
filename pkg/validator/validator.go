package validator

import (
	"reflect"

	"go-retail-pos/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

var validate = validator.New()

func init() {
	validate.RegisterValidation("uuid_required", func(fl validator.FieldLevel) bool {
		if id, ok := fl.Field().Interface().(uuid.UUID); ok {
			return id != uuid.Nil
		}
		return false
	})

	// Decimals are compared as numbers, so "gte=0" works on money fields.
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	// oneof cannot express "Sales Rep" because it splits on spaces
	validate.RegisterValidation("staff_role", func(fl validator.FieldLevel) bool {
		if role, ok := fl.Field().Interface().(model.StaffRole); ok {
			return role.Valid()
		}
		return false
	})

	validate.RegisterValidation("payment_method", func(fl validator.FieldLevel) bool {
		if m, ok := fl.Field().Interface().(model.PaymentMethod); ok {
			return m.Valid()
		}
		return false
	})
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errors []*ErrorResponse
	err := validate.Struct(data)
	if err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return []*ErrorResponse{{FailedField: "", Tag: "invalid", Value: err.Error()}}
		}
		for _, err := range validationErrors {
			var element ErrorResponse
			element.FailedField = err.StructNamespace()
			element.Tag = err.Tag()
			element.Value = err.Param()
			errors = append(errors, &element)
		}
	}
	return errors
}

// ValidateVar checks a single value against a tag expression such as "payment_method".
func ValidateVar(value interface{}, tag string) error {
	return validate.Var(value, tag)
}
