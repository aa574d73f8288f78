package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Estore-api/internal/domain/entity"
)

// Columnas de ordenamiento de la búsqueda de pedidos.
const (
	OrderSortID    = "ID"
	OrderSortDate  = "DATE"
	OrderSortEmail = "EMAIL"
	OrderSortPrice = "PRICE"
)

// OrderFilter criterios de búsqueda de pedidos ya normalizados por el caso de uso.
type OrderFilter struct {
	OrderNumber int64 // 0 = cualquiera
	From        time.Time
	To          time.Time // exclusivo
	UserEmail   string
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	Status      entity.OrderStatus
	SortBy      string
	Descending  bool
}

// OrderRepository define el puerto de persistencia para Order (DIP).
type OrderRepository interface {
	// Create persiste cabecera y líneas y completa ID y Number.
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Order, error)
	Search(ctx context.Context, filter OrderFilter) ([]*entity.Order, error)
	UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) error
	// ListCreatedBetween pedidos con created_at en [from, to), sin líneas.
	ListCreatedBetween(ctx context.Context, from, to time.Time) ([]*entity.Order, error)
}

// ReservationRepository reservas de stock del checkout.
type ReservationRepository interface {
	Create(ctx context.Context, r *entity.Reservation) error
	GetActiveByUser(ctx context.Context, userID string) (*entity.Reservation, error)
	// GetForUpdate lee y bloquea la reserva hasta el fin de la transacción. nil si no existe.
	GetForUpdate(ctx context.Context, id string) (*entity.Reservation, error)
	// UpdateStatus cierra una reserva activa; si ya no lo está devuelve domain.ErrNoReservation.
	UpdateStatus(ctx context.Context, id, status string) error
	// ListExpired reservas activas con expires_at <= now.
	ListExpired(ctx context.Context, now time.Time) ([]*entity.Reservation, error)
}

// CartRepository almacén de carritos por usuario.
type CartRepository interface {
	Get(ctx context.Context, userID string) (*entity.Cart, error)
	Save(ctx context.Context, cart *entity.Cart) error
	Delete(ctx context.Context, userID string) error
}
