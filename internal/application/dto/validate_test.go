package dto

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Estore-api/internal/domain"
)

func validProduct() ProductRequest {
	return ProductRequest{
		Name:            "Laptop",
		SellingPrice:    decimal.RequireFromString("999.99"),
		PurchasingPrice: decimal.RequireFromString("700"),
		CategoryID:      "c-1",
		MeasureUnitsID:  "mu-1",
		QuantityInStock: 3,
	}
}

func TestProductRequest_Check(t *testing.T) {
	assert.NoError(t, validProduct().Check())

	p := validProduct()
	p.Name = ""
	assert.ErrorIs(t, p.Check(), domain.ErrInvalidInput)

	p = validProduct()
	p.SellingPrice = decimal.Zero
	assert.ErrorIs(t, p.Check(), domain.ErrInvalidInput)

	p = validProduct()
	p.Depth = decimal.NewFromInt(-1)
	assert.ErrorIs(t, p.Check(), domain.ErrInvalidInput)

	p = validProduct()
	p.QuantityInStock = -2
	assert.ErrorIs(t, p.Check(), domain.ErrInvalidInput)
}

func TestValidate_Signup(t *testing.T) {
	in := SignupRequest{
		FirstName:   "Ana",
		LastName:    "Pérez",
		DateOfBirth: "1990-05-17",
		Email:       "ana@estore.dev",
		Password:    "secreto123",
		Address: AddressRequest{
			CountryID: 1, City: "Minsk", PostalCode: "220000", Street: "Nezavisimosti", House: "4",
		},
	}
	assert.NoError(t, Validate(in))

	in.DateOfBirth = "17/05/1990"
	err := Validate(in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "DateOfBirth")

	in.DateOfBirth = "1990-05-17"
	in.Address.PostalCode = "12345678901234567"
	assert.ErrorIs(t, Validate(in), domain.ErrInvalidInput, "código postal máximo 16")
}

func TestValidate_CheckoutTarjetaRequerida(t *testing.T) {
	in := CheckoutRequest{PaymentMethod: "CARD", ShippingMethod: "PICKUP"}
	assert.ErrorIs(t, Validate(in), domain.ErrInvalidInput)

	in.Card = &CardRequest{Number: "4111111111111111", HolderName: "ANA PEREZ", CVV: "123", ExpMonth: 12, ExpYear: 2030}
	assert.NoError(t, Validate(in))

	in.Card.CVV = "12a"
	assert.ErrorIs(t, Validate(in), domain.ErrInvalidInput)
}

func TestValidate_CheckoutEntregaRequiereDireccion(t *testing.T) {
	in := CheckoutRequest{PaymentMethod: "CASH", ShippingMethod: "DELIVERY"}
	assert.ErrorIs(t, Validate(in), domain.ErrInvalidInput)

	in.AddressID = "a-1"
	assert.NoError(t, Validate(in))
}
