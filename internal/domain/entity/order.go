package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus estado logístico del pedido.
type OrderStatus string

const (
	OrderAwaitingDelivery OrderStatus = "AWAITING_DELIVERY"
	OrderDispatched       OrderStatus = "DISPATCHED"
	OrderDelivered        OrderStatus = "DELIVERED"
)

// PaymentMethod forma de pago elegida en el checkout.
type PaymentMethod string

const (
	PaymentCard PaymentMethod = "CARD"
	PaymentCash PaymentMethod = "CASH"
)

// PaymentStatus estado del cobro.
type PaymentStatus string

const (
	PaymentPaid            PaymentStatus = "PAID"
	PaymentAwaitingPayment PaymentStatus = "AWAITING_PAYMENT"
)

// ShippingMethod modo de entrega.
type ShippingMethod string

const (
	ShippingDelivery ShippingMethod = "DELIVERY"
	ShippingPickup   ShippingMethod = "PICKUP"
)

// ParseOrderStatus valida un estado recibido como texto.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case OrderAwaitingDelivery, OrderDispatched, OrderDelivered:
		return OrderStatus(s), true
	}
	return "", false
}

// OrderProduct línea del pedido con los precios congelados al momento de la compra.
type OrderProduct struct {
	ProductID       string
	ProductName     string
	Quantity        int
	SellingPrice    decimal.Decimal
	PurchasingPrice decimal.Decimal
}

// CalculateTotalSellingPrice precio de venta × cantidad, half-even a 2 decimales.
func (l OrderProduct) CalculateTotalSellingPrice() decimal.Decimal {
	return RoundMoney(l.SellingPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
}

// CalculateTotalPurchasingPrice precio de compra × cantidad, half-even a 2 decimales.
func (l OrderProduct) CalculateTotalPurchasingPrice() decimal.Decimal {
	return RoundMoney(l.PurchasingPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
}

// Order pedido confirmado.
type Order struct {
	ID                   string
	Number               int64 // correlativo legible, usado en factura
	CreatedAt            time.Time
	PaymentMethod        PaymentMethod
	PaymentStatus        PaymentStatus
	ShippingMethod       ShippingMethod
	Status               OrderStatus
	TotalSellingPrice    decimal.Decimal
	TotalPurchasingPrice decimal.Decimal
	UserID               string
	UserEmail            string
	AddressID            string
	ShippingAddress      string
	Products             []OrderProduct
}

// CalculateOrderPrice suma de los totales de línea, half-even a 2 decimales.
func (o *Order) CalculateOrderPrice() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range o.Products {
		sum = sum.Add(l.CalculateTotalSellingPrice())
	}
	return RoundMoney(sum)
}

// CalculateTotalPurchasingPrice suma del costo de las líneas, half-even a 2 decimales.
func (o *Order) CalculateTotalPurchasingPrice() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range o.Products {
		sum = sum.Add(l.CalculateTotalPurchasingPrice())
	}
	return RoundMoney(sum)
}

// TotalNumberOfProducts unidades totales del pedido.
func (o *Order) TotalNumberOfProducts() int {
	n := 0
	for _, l := range o.Products {
		n += l.Quantity
	}
	return n
}

// Profit ganancia bruta registrada en el pedido.
func (o *Order) Profit() decimal.Decimal {
	return o.TotalSellingPrice.Sub(o.TotalPurchasingPrice)
}

// Recalculate fija los totales persistidos a partir de las líneas.
func (o *Order) Recalculate() {
	o.TotalSellingPrice = o.CalculateOrderPrice()
	o.TotalPurchasingPrice = o.CalculateTotalPurchasingPrice()
}
