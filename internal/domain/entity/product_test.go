package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProduct_AddPurchasingPrice_SoloSiCambia(t *testing.T) {
	p := &Product{}
	now := time.Now()

	assert.True(t, p.AddPurchasingPrice(dec("10.005"), now))
	assert.Equal(t, "10.00", p.RecentPurchasingPrice().StringFixed(2))

	assert.False(t, p.AddPurchasingPrice(dec("10.00"), now), "mismo precio no se duplica")
	assert.Len(t, p.PurchasingPrices, 1)

	assert.True(t, p.AddPurchasingPrice(dec("11.50"), now.Add(time.Hour)))
	assert.Len(t, p.PurchasingPrices, 2)
	assert.Equal(t, "11.50", p.RecentPurchasingPrice().StringFixed(2))
}

func TestProduct_ReserveUnreserveBuy(t *testing.T) {
	p := &Product{QuantityInStock: 5}

	assert.False(t, p.Reserve(6))
	assert.Equal(t, 5, p.QuantityInStock)
	assert.Zero(t, p.QuantityReserved)

	assert.True(t, p.Reserve(3))
	assert.Equal(t, 2, p.QuantityInStock)
	assert.Equal(t, 3, p.QuantityReserved)

	p.Unreserve(1)
	assert.Equal(t, 3, p.QuantityInStock)
	assert.Equal(t, 2, p.QuantityReserved)

	p.Buy(2)
	assert.Equal(t, 3, p.QuantityInStock)
	assert.Zero(t, p.QuantityReserved)
	assert.Equal(t, 1, p.SaleCount)
}

func TestProduct_ReserveCantidadNoPositiva(t *testing.T) {
	p := &Product{QuantityInStock: 5}
	assert.False(t, p.Reserve(0))
	assert.False(t, p.Reserve(-1))
}

func TestProduct_Volume(t *testing.T) {
	p := &Product{Height: dec("2"), Width: dec("3"), Depth: dec("0.5")}
	assert.Equal(t, "3", p.Volume().String())
}

func TestCart_AddSetRemove(t *testing.T) {
	c := &Cart{UserID: "u"}
	c.Add("a", 1)
	c.Add("a", 2)
	c.Add("b", 1)
	assert.Equal(t, []CartLine{{ProductID: "a", Quantity: 3}, {ProductID: "b", Quantity: 1}}, c.Lines)

	c.Set("b", 0)
	assert.Equal(t, []CartLine{{ProductID: "a", Quantity: 3}}, c.Lines)

	c.Remove("a")
	assert.True(t, c.IsEmpty())
}

func TestReservation_Expiracion(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r := &Reservation{ExpiresAt: now.Add(90 * time.Second)}
	assert.False(t, r.IsExpired(now))
	assert.Equal(t, 90, r.SecondsLeft(now))
	assert.True(t, r.IsExpired(now.Add(90*time.Second)))
	assert.Zero(t, r.SecondsLeft(now.Add(2*time.Minute)))
}
