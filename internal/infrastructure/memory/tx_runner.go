package memory

import (
	"context"

	"github.com/jhoicas/Estore-api/internal/application/ports"
	"github.com/jhoicas/Estore-api/internal/domain/entity"
	"github.com/jhoicas/Estore-api/internal/domain/repository"
)

var _ ports.TxRunner = (*TxRunner)(nil)

// TxRunner emula una transacción: guarda una copia de productos, pedidos y reservas
// y la restaura si fn devuelve error. Las transacciones se ejecutan de a una, igual
// que dos transacciones que bloquean las mismas filas. fn no debe abrir otra.
type TxRunner struct{ s *Store }

type snapshot struct {
	products     map[string]*entity.Product
	orders       map[string]*entity.Order
	orderSeq     int64
	reservations map[string]*entity.Reservation
}

func (t *TxRunner) take() snapshot {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	snap := snapshot{
		products:     make(map[string]*entity.Product, len(t.s.products)),
		orders:       make(map[string]*entity.Order, len(t.s.orders)),
		orderSeq:     t.s.orderSeq,
		reservations: make(map[string]*entity.Reservation, len(t.s.reservations)),
	}
	for id, p := range t.s.products {
		snap.products[id] = cloneProduct(p)
	}
	for id, o := range t.s.orders {
		snap.orders[id] = cloneOrder(o)
	}
	for id, r := range t.s.reservations {
		snap.reservations[id] = cloneReservation(r)
	}
	return snap
}

func (t *TxRunner) restore(snap snapshot) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.s.products = snap.products
	t.s.orders = snap.orders
	t.s.orderSeq = snap.orderSeq
	t.s.reservations = snap.reservations
}

// Run ejecuta fn con repositorios del store y revierte sus cambios si falla.
func (t *TxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	reservationRepo repository.ReservationRepository,
) error) error {
	t.s.txMu.Lock()
	defer t.s.txMu.Unlock()
	snap := t.take()
	if err := fn(t.s.Products(), t.s.Orders(), t.s.Reservations()); err != nil {
		t.restore(snap)
		return err
	}
	return nil
}
