package validator

import (
	"testing"

	"go-retail-pos/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStructProduct(t *testing.T) {
	p := model.Product{
		Name:                     "Baby Romper",
		Price:                    decimal.RequireFromString("15.00"),
		WholesalePrice:           decimal.RequireFromString("10.99"),
		WholesalePriceWithProfit: decimal.RequireFromString("12.99"),
		Quantity:                 4,
	}
	assert.Empty(t, ValidateStruct(&p))

	p.Name = ""
	p.WholesalePrice = decimal.NewFromInt(-1)
	errs := ValidateStruct(&p)
	require.Len(t, errs, 2)
	assert.Equal(t, "Product.Name", errs[0].FailedField)
	assert.Equal(t, "required", errs[0].Tag)
	assert.Equal(t, "Product.WholesalePrice", errs[1].FailedField)
	assert.Equal(t, "gte", errs[1].Tag)
}

func TestValidateStructStaffRole(t *testing.T) {
	s := model.Staff{Name: "Ama", Role: model.StaffSalesRep, Email: "ama@example.com"}
	assert.Empty(t, ValidateStruct(&s))

	s.Role = "Owner"
	errs := ValidateStruct(&s)
	require.Len(t, errs, 1)
	assert.Equal(t, "staff_role", errs[0].Tag)
}

func TestValidateVarPaymentMethod(t *testing.T) {
	assert.NoError(t, ValidateVar(model.PaymentMomo, "payment_method"))
	assert.Error(t, ValidateVar(model.PaymentMethod("bitcoin"), "payment_method"))
}
