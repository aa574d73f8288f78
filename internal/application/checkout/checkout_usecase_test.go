package checkout

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Estore-api/internal/application/dto"
	"github.com/jhoicas/Estore-api/internal/application/ports"
	"github.com/jhoicas/Estore-api/internal/application/usecase"
	"github.com/jhoicas/Estore-api/internal/domain"
	"github.com/jhoicas/Estore-api/internal/domain/entity"
	"github.com/jhoicas/Estore-api/internal/domain/repository"
	"github.com/jhoicas/Estore-api/internal/infrastructure/memory"
)

// ─── Fakes ───────────────────────────────────────────────────────────────────

type fakePayment struct {
	decline  bool
	charged  []decimal.Decimal
	onCharge func()
}

func (f *fakePayment) Charge(_ context.Context, _ ports.CardPayment, amount decimal.Decimal, _ string) (string, error) {
	if f.onCharge != nil {
		f.onCharge()
	}
	if f.decline {
		return "", domain.ErrPaymentDeclined
	}
	f.charged = append(f.charged, amount)
	return "tx-1", nil
}

type fakeBillboard struct {
	mu        sync.Mutex
	published [][]*entity.Product
}

func (f *fakeBillboard) Publish(products []*entity.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, products)
	return nil
}

type fixture struct {
	store     *memory.Store
	cart      *CartUseCase
	checkout  *CheckoutUseCase
	payment   *fakePayment
	billboard *fakeBillboard
	clock     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	f := &fixture{
		store:     store,
		payment:   &fakePayment{},
		billboard: &fakeBillboard{},
		clock:     time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return f.clock }

	categories := usecase.NewCategoryUseCase(store.Categories(), store.Products())
	products := usecase.NewProductUseCase(store.Products(), categories, store.MeasureUnits(), 10)
	f.cart = NewCartUseCase(store.Carts(), store.Products(), store.Orders(), store.Reservations())
	f.cart.now = clock
	f.checkout = NewCheckoutUseCase(store.TxRunner(), store.Carts(), store.Reservations(), store.Users(),
		f.payment, f.billboard, products, Config{ReserveFor: 10 * time.Minute}, nil)
	f.checkout.now = clock

	require.NoError(t, store.Users().Create(ctx, &entity.User{
		ID:        "u-1",
		Email:     "ana@estore.dev",
		Addresses: []entity.Address{{ID: "a-1", UserID: "u-1", City: "Minsk", Street: "Lenina", House: "1", CountryName: "Belarus"}},
	}))
	for _, p := range []*entity.Product{
		{ID: "p-1", Name: "Pixel", SellingPrice: decimal.RequireFromString("10.005"), QuantityInStock: 5,
			PurchasingPrices: []entity.Price{{Price: decimal.RequireFromString("6")}}},
		{ID: "p-2", Name: "Case", SellingPrice: decimal.RequireFromString("2.50"), QuantityInStock: 1,
			PurchasingPrices: []entity.Price{{Price: decimal.RequireFromString("1")}}},
	} {
		require.NoError(t, store.Products().Create(ctx, p))
	}
	return f
}

func (f *fixture) product(t *testing.T, id string) *entity.Product {
	t.Helper()
	p, err := f.store.Products().GetByID(context.Background(), id)
	require.NoError(t, err)
	return p
}

func (f *fixture) fillCart(t *testing.T, lines map[string]int) {
	t.Helper()
	for id, qty := range lines {
		_, err := f.cart.Add(context.Background(), "u-1", dto.CartItemRequest{ProductID: id, Quantity: qty})
		require.NoError(t, err)
	}
}

func cashPickup() dto.CheckoutRequest {
	return dto.CheckoutRequest{PaymentMethod: "CASH", ShippingMethod: "PICKUP"}
}

func cardPickup() dto.CheckoutRequest {
	return dto.CheckoutRequest{
		PaymentMethod:  "CARD",
		ShippingMethod: "PICKUP",
		Card:           &dto.CardRequest{Number: "4111111111111111", HolderName: "ANA", CVV: "123", ExpMonth: 12, ExpYear: 2030},
	}
}

// ─── Carrito ────────────────────────────────────────────────────────────────

func TestCart_AddSetRemoveView(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.fillCart(t, map[string]int{"p-1": 2})
	out, err := f.cart.Add(ctx, "u-1", dto.CartItemRequest{ProductID: "p-1", Quantity: 1})
	require.NoError(t, err)
	require.Len(t, out.Lines, 1)
	assert.Equal(t, 3, out.Lines[0].Quantity)
	assert.Equal(t, "30.02", out.Lines[0].TotalPrice.StringFixed(2), "10.005 × 3 = 30.015 → 30.02")

	out, err = f.cart.SetQuantity(ctx, "u-1", "p-2", dto.CartQuantityRequest{Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, out.TotalNumberOfProducts)
	assert.Equal(t, "35.02", out.OrderPrice.StringFixed(2))

	out, err = f.cart.SetQuantity(ctx, "u-1", "p-2", dto.CartQuantityRequest{Quantity: 0})
	require.NoError(t, err)
	assert.Len(t, out.Lines, 1)

	out, err = f.cart.Remove(ctx, "u-1", "p-1")
	require.NoError(t, err)
	assert.Empty(t, out.Lines)

	_, err = f.cart.Add(ctx, "u-1", dto.CartItemRequest{ProductID: "nope", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCart_Repeat(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Orders().Create(ctx, &entity.Order{
		ID: "o-1", UserID: "u-1",
		Products: []entity.OrderProduct{{ProductID: "p-1", Quantity: 2}, {ProductID: "p-2", Quantity: 1}},
	}))
	f.fillCart(t, map[string]int{"p-2": 1})

	out, err := f.cart.Repeat(ctx, "u-1", "o-1")
	require.NoError(t, err)
	assert.Equal(t, 3, out.TotalNumberOfProducts)

	_, err = f.cart.Repeat(ctx, "u-2", "o-1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ─── Reserva ────────────────────────────────────────────────────────────────

func TestReserve_CarritoVacio(t *testing.T) {
	f := newFixture(t)
	_, err := f.checkout.Reserve(context.Background(), "u-1")
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
}

func TestReserve_MueveStockAReservado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(t, map[string]int{"p-1": 2, "p-2": 1})

	r, err := f.checkout.Reserve(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, 600, r.SecondsLeft)

	p1 := f.product(t, "p-1")
	assert.Equal(t, 3, p1.QuantityInStock)
	assert.Equal(t, 2, p1.QuantityReserved)

	f.clock = f.clock.Add(time.Minute)
	again, err := f.checkout.Reserve(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, r.ID, again.ID, "reserva vigente se devuelve tal cual")
	assert.Equal(t, 540, again.SecondsLeft)
	assert.Equal(t, 3, f.product(t, "p-1").QuantityInStock, "no reserva dos veces")

	view, err := f.cart.View(ctx, "u-1")
	require.NoError(t, err)
	require.NotNil(t, view.Reservation)
}

func TestReserve_SinStockRevierteTodo(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t, map[string]int{"p-1": 2, "p-2": 3})

	_, err := f.checkout.Reserve(context.Background(), "u-1")
	assert.ErrorIs(t, err, domain.ErrReserveFailed)

	p1 := f.product(t, "p-1")
	assert.Equal(t, 5, p1.QuantityInStock, "la línea ya reservada se revierte")
	assert.Equal(t, 0, p1.QuantityReserved)
}

func TestCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	assert.ErrorIs(t, f.checkout.Cancel(ctx, "u-1"), domain.ErrNoReservation)

	f.fillCart(t, map[string]int{"p-1": 2})
	_, err := f.checkout.Reserve(ctx, "u-1")
	require.NoError(t, err)
	require.NoError(t, f.checkout.Cancel(ctx, "u-1"))

	p1 := f.product(t, "p-1")
	assert.Equal(t, 5, p1.QuantityInStock)
	assert.Equal(t, 0, p1.QuantityReserved)
}

func TestSweepExpired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(t, map[string]int{"p-1": 4})
	_, err := f.checkout.Reserve(ctx, "u-1")
	require.NoError(t, err)

	n, err := f.checkout.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	f.clock = f.clock.Add(10 * time.Minute)
	n, err = f.checkout.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 5, f.product(t, "p-1").QuantityInStock)

	active, err := f.store.Reservations().GetActiveByUser(ctx, "u-1")
	require.NoError(t, err)
	assert.Nil(t, active)
}

// ─── Checkout ───────────────────────────────────────────────────────────────

func TestCheckout_SinReserva(t *testing.T) {
	f := newFixture(t)
	_, err := f.checkout.Checkout(context.Background(), "u-1", cashPickup())
	assert.ErrorIs(t, err, domain.ErrNoReservation)
}

func TestCheckout_EfectivoRegistraPedido(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(t, map[string]int{"p-1": 3, "p-2": 1})
	_, err := f.checkout.Reserve(ctx, "u-1")
	require.NoError(t, err)

	out, err := f.checkout.Checkout(ctx, "u-1", dto.CheckoutRequest{PaymentMethod: "CASH", ShippingMethod: "DELIVERY", AddressID: "a-1"})
	require.NoError(t, err)
	assert.Equal(t, "AWAITING_PAYMENT", out.PaymentStatus)
	assert.Equal(t, "AWAITING_DELIVERY", out.Status)
	assert.Equal(t, "32.52", out.TotalSellingPrice.StringFixed(2))
	assert.Equal(t, 4, out.TotalNumberOfProducts)
	assert.Contains(t, out.ShippingAddress, "Minsk")
	assert.Equal(t, int64(1), out.Number)

	p1 := f.product(t, "p-1")
	assert.Equal(t, 2, p1.QuantityInStock)
	assert.Equal(t, 0, p1.QuantityReserved)
	assert.Equal(t, 1, p1.SaleCount, "una venta por línea")

	stored, err := f.store.Orders().GetByID(ctx, out.ID)
	require.NoError(t, err)
	assert.Equal(t, "19", stored.TotalPurchasingPrice.String())

	cart, err := f.store.Carts().Get(ctx, "u-1")
	require.NoError(t, err)
	assert.Nil(t, cart, "el carrito se vacía")
	require.Len(t, f.billboard.published, 1)
	assert.Len(t, f.billboard.published[0], 2)

	active, err := f.store.Reservations().GetActiveByUser(ctx, "u-1")
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestCheckout_TarjetaCobraYMarcaPagado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(t, map[string]int{"p-2": 1})
	_, err := f.checkout.Reserve(ctx, "u-1")
	require.NoError(t, err)

	out, err := f.checkout.Checkout(ctx, "u-1", cardPickup())
	require.NoError(t, err)
	assert.Equal(t, "PAID", out.PaymentStatus)
	require.Len(t, f.payment.charged, 1)
	assert.Equal(t, "2.50", f.payment.charged[0].StringFixed(2))
}

func TestCheckout_PagoRechazadoConservaReserva(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.payment.decline = true
	f.fillCart(t, map[string]int{"p-1": 2})
	_, err := f.checkout.Reserve(ctx, "u-1")
	require.NoError(t, err)

	_, err = f.checkout.Checkout(ctx, "u-1", cardPickup())
	assert.ErrorIs(t, err, domain.ErrPaymentDeclined)

	p1 := f.product(t, "p-1")
	assert.Equal(t, 2, p1.QuantityReserved, "sigue reservado")
	assert.Equal(t, 0, p1.SaleCount)
	active, err := f.store.Reservations().GetActiveByUser(ctx, "u-1")
	require.NoError(t, err)
	assert.NotNil(t, active)
	orders, err := f.store.Orders().ListByUser(ctx, "u-1")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestCheckout_ReservaVencida(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(t, map[string]int{"p-1": 2})
	_, err := f.checkout.Reserve(ctx, "u-1")
	require.NoError(t, err)

	f.clock = f.clock.Add(11 * time.Minute)
	_, err = f.checkout.Checkout(ctx, "u-1", cashPickup())
	assert.ErrorIs(t, err, domain.ErrReservationExpired)
	assert.Equal(t, 5, f.product(t, "p-1").QuantityInStock, "el stock vuelve al liberar")
}

func TestCheckout_DireccionAjena(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(t, map[string]int{"p-1": 1})
	_, err := f.checkout.Reserve(ctx, "u-1")
	require.NoError(t, err)

	_, err = f.checkout.Checkout(ctx, "u-1", dto.CheckoutRequest{PaymentMethod: "CASH", ShippingMethod: "DELIVERY", AddressID: "a-9"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ─── Carreras entre barrido, cancelación y checkout ─────────────────────────

func TestCheckout_BarridoDuranteElCobroNoTocaOtrasReservas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Users().Create(ctx, &entity.User{ID: "u-2", Email: "luis@estore.dev"}))

	f.fillCart(t, map[string]int{"p-1": 2})
	r1, err := f.checkout.Reserve(ctx, "u-1")
	require.NoError(t, err)

	f.clock = f.clock.Add(5 * time.Minute)
	_, err = f.cart.Add(ctx, "u-2", dto.CartItemRequest{ProductID: "p-1", Quantity: 1})
	require.NoError(t, err)
	_, err = f.checkout.Reserve(ctx, "u-2")
	require.NoError(t, err)

	// el cron arranca mientras el pago de u-1 está en curso, con su reserva ya vencida
	swept := make(chan int, 1)
	f.payment.onCharge = func() {
		f.payment.onCharge = nil
		f.clock = f.clock.Add(5 * time.Minute)
		go func() {
			n, err := f.checkout.SweepExpired(ctx)
			assert.NoError(t, err)
			swept <- n
		}()
	}
	_, err = f.checkout.Checkout(ctx, "u-1", cardPickup())
	require.NoError(t, err)

	select {
	case n := <-swept:
		assert.Equal(t, 0, n, "la reserva de u-1 ya estaba cerrada")
	case <-time.After(5 * time.Second):
		t.Fatal("el barrido no terminó")
	}

	p1 := f.product(t, "p-1")
	assert.Equal(t, 2, p1.QuantityInStock)
	assert.Equal(t, 1, p1.QuantityReserved, "la unidad de u-2 sigue reservada")

	closed, err := f.store.Reservations().GetForUpdate(ctx, r1.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReservationCompleted, closed.Status)

	_, err = f.checkout.Checkout(ctx, "u-2", cashPickup())
	require.NoError(t, err)
	p1 = f.product(t, "p-1")
	assert.Equal(t, 2, p1.QuantityInStock)
	assert.Equal(t, 0, p1.QuantityReserved)
}

func TestRelease_ReservaYaCerradaNoDevuelveStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(t, map[string]int{"p-1": 2})
	_, err := f.checkout.Reserve(ctx, "u-1")
	require.NoError(t, err)

	// copia leída antes del checkout, como la que tiene un barrido o una cancelación en vuelo
	stale, err := f.store.Reservations().GetActiveByUser(ctx, "u-1")
	require.NoError(t, err)
	require.NotNil(t, stale)

	_, err = f.checkout.Checkout(ctx, "u-1", cashPickup())
	require.NoError(t, err)

	err = f.checkout.release(ctx, stale, entity.ReservationExpired)
	assert.ErrorIs(t, err, domain.ErrNoReservation)
	err = f.checkout.release(ctx, stale, entity.ReservationCancelled)
	assert.ErrorIs(t, err, domain.ErrNoReservation)

	p1 := f.product(t, "p-1")
	assert.Equal(t, 3, p1.QuantityInStock)
	assert.Equal(t, 0, p1.QuantityReserved)

	closed, err := f.store.Reservations().GetForUpdate(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReservationCompleted, closed.Status, "el estado completed no se pisa")

	f.clock = f.clock.Add(time.Hour)
	n, err := f.checkout.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCheckout_ReservaCanceladaEnVuelo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(t, map[string]int{"p-1": 2})
	_, err := f.checkout.Reserve(ctx, "u-1")
	require.NoError(t, err)

	stale, err := f.store.Reservations().GetActiveByUser(ctx, "u-1")
	require.NoError(t, err)
	require.NoError(t, f.checkout.Cancel(ctx, "u-1"))

	// un checkout que leyó la reserva antes de la cancelación no puede comprar con ella
	err = f.checkout.tx.Run(ctx, func(_ repository.ProductRepository, _ repository.OrderRepository, reservationRepo repository.ReservationRepository) error {
		_, err := lockActive(ctx, reservationRepo, stale.ID)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrNoReservation)

	p1 := f.product(t, "p-1")
	assert.Equal(t, 5, p1.QuantityInStock)
	assert.Equal(t, 0, p1.QuantityReserved)
}
