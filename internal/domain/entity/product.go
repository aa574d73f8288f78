package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Price entrada del historial de precios de compra.
type Price struct {
	Price     decimal.Decimal
	CreatedAt time.Time
}

// Product producto del catálogo. El stock se divide en disponible (QuantityInStock)
// y reservado por carritos en checkout (QuantityReserved).
type Product struct {
	ID               string
	Name             string
	SellingPrice     decimal.Decimal
	PurchasingPrices []Price // orden cronológico, el último es el vigente
	CategoryID       string
	MeasureUnitsID   string
	Weight           decimal.Decimal
	Height           decimal.Decimal
	Width            decimal.Decimal
	Depth            decimal.Decimal
	QuantityInStock  int
	QuantityReserved int
	ImageURL         string
	SaleCount        int
	Attributes       []ProductAttribute
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// RoundMoney redondeo monetario de la tienda: half-even a 2 decimales.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(2)
}

// RecentPurchasingPrice último precio de compra registrado (cero si no hay historial).
func (p *Product) RecentPurchasingPrice() decimal.Decimal {
	if len(p.PurchasingPrices) == 0 {
		return decimal.Zero
	}
	return p.PurchasingPrices[len(p.PurchasingPrices)-1].Price
}

// AddPurchasingPrice agrega un precio al historial solo si difiere del vigente.
// Devuelve true si se agregó.
func (p *Product) AddPurchasingPrice(price decimal.Decimal, at time.Time) bool {
	price = RoundMoney(price)
	if len(p.PurchasingPrices) > 0 && p.RecentPurchasingPrice().Equal(price) {
		return false
	}
	p.PurchasingPrices = append(p.PurchasingPrices, Price{Price: price, CreatedAt: at})
	return true
}

// Volume alto × ancho × profundidad.
func (p *Product) Volume() decimal.Decimal {
	return p.Height.Mul(p.Width).Mul(p.Depth)
}

// Reserve mueve qty del stock disponible al reservado. Devuelve false sin tocar nada si no alcanza.
func (p *Product) Reserve(qty int) bool {
	if qty <= 0 || qty > p.QuantityInStock {
		return false
	}
	p.QuantityInStock -= qty
	p.QuantityReserved += qty
	return true
}

// Unreserve devuelve qty del reservado al disponible.
func (p *Product) Unreserve(qty int) {
	if qty > p.QuantityReserved {
		qty = p.QuantityReserved
	}
	p.QuantityReserved -= qty
	p.QuantityInStock += qty
}

// Buy consume qty del reservado y cuenta una venta más.
func (p *Product) Buy(qty int) {
	if qty > p.QuantityReserved {
		qty = p.QuantityReserved
	}
	p.QuantityReserved -= qty
	p.SaleCount++
}

// AttributeValue valor del atributo con ese nombre y si el producto lo tiene.
func (p *Product) AttributeValue(name string) (string, bool) {
	for _, a := range p.Attributes {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}
