// Package ports puertos de salida de la capa de aplicación (adaptadores en infrastructure).
package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Estore-api/internal/domain/entity"
	"github.com/jhoicas/Estore-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad de reserva, compra y registro del pedido.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		orderRepo repository.OrderRepository,
		reservationRepo repository.ReservationRepository,
	) error) error
}

// CardPayment datos de tarjeta recibidos en el checkout. No se persisten.
type CardPayment struct {
	Number     string
	HolderName string
	CVV        string
	ExpMonth   int
	ExpYear    int
}

// PaymentGateway cobra con tarjeta. Devuelve el identificador de la transacción.
type PaymentGateway interface {
	Charge(ctx context.Context, card CardPayment, amount decimal.Decimal, reference string) (string, error)
}

// InvoicePDFGenerator genera la factura del pedido.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, order *entity.Order, buyer *entity.User, seller entity.CompanyInfo) ([]byte, error)
}

// BillboardPublisher difunde el ranking de productos más vendidos.
type BillboardPublisher interface {
	Publish(products []*entity.Product) error
}
