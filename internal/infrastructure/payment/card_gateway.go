// Package payment pasarela de cobro con tarjeta.
//
// No hay procesador externo: la pasarela valida los datos de la tarjeta y aprueba el cobro
// devolviendo un identificador de transacción.
package payment

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Estore-api/internal/application/ports"
	"github.com/jhoicas/Estore-api/internal/domain"
	"github.com/jhoicas/Estore-api/pkg/logger"
)

var _ ports.PaymentGateway = (*CardGateway)(nil)

const maxHolderName = 70

// CardGateway valida la tarjeta y aprueba el cobro.
type CardGateway struct {
	log *logger.Logger
	now func() time.Time
}

// NewCardGateway construye la pasarela.
func NewCardGateway(log *logger.Logger) *CardGateway {
	if log == nil {
		log = logger.Nop()
	}
	return &CardGateway{log: log.Named("payment"), now: time.Now}
}

// Charge cobra amount a la tarjeta. Cualquier dato inválido se reporta como ErrPaymentDeclined.
func (g *CardGateway) Charge(ctx context.Context, card ports.CardPayment, amount decimal.Decimal, reference string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := g.check(card, amount); err != nil {
		g.log.Warn().Str("reference", reference).Str("card", mask(card.Number)).Msg(err.Error())
		return "", fmt.Errorf("%w: %s", domain.ErrPaymentDeclined, err.Error())
	}
	txID := uuid.New().String()
	g.log.Info().
		Str("reference", reference).
		Str("transaction_id", txID).
		Str("card", mask(card.Number)).
		Str("amount", amount.StringFixed(2)).
		Msg("cobro aprobado")
	return txID, nil
}

func (g *CardGateway) check(card ports.CardPayment, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("importe inválido %s", amount.String())
	}
	if len(card.Number) != 16 || !digits(card.Number) || !luhn(card.Number) {
		return fmt.Errorf("número de tarjeta inválido")
	}
	if len(card.CVV) != 3 || !digits(card.CVV) {
		return fmt.Errorf("CVV inválido")
	}
	if card.HolderName == "" || utf8.RuneCountInString(card.HolderName) > maxHolderName {
		return fmt.Errorf("titular inválido")
	}
	if card.ExpMonth < 1 || card.ExpMonth > 12 {
		return fmt.Errorf("mes de vencimiento inválido")
	}
	now := g.now()
	if card.ExpYear < now.Year() || (card.ExpYear == now.Year() && card.ExpMonth < int(now.Month())) {
		return fmt.Errorf("tarjeta vencida")
	}
	return nil
}

func digits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// luhn verifica el dígito de control; s solo contiene dígitos.
func luhn(s string) bool {
	sum := 0
	double := false
	for i := len(s) - 1; i >= 0; i-- {
		d := int(s[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

func mask(number string) string {
	if len(number) < 4 {
		return "****"
	}
	return "************" + number[len(number)-4:]
}
