package payment

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Estore-api/internal/application/ports"
	"github.com/jhoicas/Estore-api/internal/domain"
)

func newGateway() *CardGateway {
	g := NewCardGateway(nil)
	g.now = func() time.Time { return time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC) }
	return g
}

func validCard() ports.CardPayment {
	return ports.CardPayment{
		Number:     "4111111111111111",
		HolderName: "ANNA SMITH",
		CVV:        "123",
		ExpMonth:   6,
		ExpYear:    2026,
	}
}

func TestLuhn(t *testing.T) {
	assert.True(t, luhn("4111111111111111"))
	assert.True(t, luhn("5555555555554444"))
	assert.False(t, luhn("4111111111111112"))
}

func TestCharge_Aprobado(t *testing.T) {
	txID, err := newGateway().Charge(context.Background(), validCard(), decimal.RequireFromString("30.02"), "order-1")
	require.NoError(t, err)
	assert.Len(t, txID, 36)
}

func TestCharge_Rechazos(t *testing.T) {
	cases := map[string]func(c *ports.CardPayment){
		"luhn":          func(c *ports.CardPayment) { c.Number = "4111111111111112" },
		"longitud":      func(c *ports.CardPayment) { c.Number = "411111111111111" },
		"letras":        func(c *ports.CardPayment) { c.Number = "41111111111111a1" },
		"cvv":           func(c *ports.CardPayment) { c.CVV = "12" },
		"titular":       func(c *ports.CardPayment) { c.HolderName = "" },
		"titular_largo": func(c *ports.CardPayment) { c.HolderName = strings.Repeat("A", 71) },
		"mes_pasado":    func(c *ports.CardPayment) { c.ExpMonth = 5 },
		"año_pasado":    func(c *ports.CardPayment) { c.ExpYear = 2025; c.ExpMonth = 12 },
		"mes_13":        func(c *ports.CardPayment) { c.ExpMonth = 13; c.ExpYear = 2030 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			card := validCard()
			mutate(&card)
			_, err := newGateway().Charge(context.Background(), card, decimal.NewFromInt(10), "order-1")
			assert.ErrorIs(t, err, domain.ErrPaymentDeclined)
		})
	}
}

func TestCharge_ImporteCero(t *testing.T) {
	_, err := newGateway().Charge(context.Background(), validCard(), decimal.Zero, "order-1")
	assert.ErrorIs(t, err, domain.ErrPaymentDeclined)
}

func TestMask(t *testing.T) {
	assert.Equal(t, "************1111", mask("4111111111111111"))
	assert.Equal(t, "****", mask("12"))
}
