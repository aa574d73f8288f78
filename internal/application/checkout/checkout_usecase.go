package checkout

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Estore-api/internal/application/dto"
	"github.com/jhoicas/Estore-api/internal/application/ports"
	"github.com/jhoicas/Estore-api/internal/application/usecase"
	"github.com/jhoicas/Estore-api/internal/domain"
	"github.com/jhoicas/Estore-api/internal/domain/entity"
	"github.com/jhoicas/Estore-api/internal/domain/repository"
	"github.com/jhoicas/Estore-api/pkg/logger"
)

// Config parámetros del checkout.
type Config struct {
	ReserveFor time.Duration // vigencia de la reserva de stock
}

// CheckoutUseCase reserva el stock del carrito, cobra y registra el pedido.
//
// Reserva, compra y liberación se ejecutan dentro de una transacción (TxRunner) que bloquea
// las filas de producto; cualquier error revierte todos los cambios de stock.
type CheckoutUseCase struct {
	tx              ports.TxRunner
	cartRepo        repository.CartRepository
	reservationRepo repository.ReservationRepository
	userRepo        repository.UserRepository
	payment         ports.PaymentGateway
	billboard       ports.BillboardPublisher
	products        *usecase.ProductUseCase
	cfg             Config
	log             *logger.Logger
	now             func() time.Time
}

// NewCheckoutUseCase construye el caso de uso.
func NewCheckoutUseCase(
	tx ports.TxRunner,
	cartRepo repository.CartRepository,
	reservationRepo repository.ReservationRepository,
	userRepo repository.UserRepository,
	payment ports.PaymentGateway,
	billboard ports.BillboardPublisher,
	products *usecase.ProductUseCase,
	cfg Config,
	log *logger.Logger,
) *CheckoutUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &CheckoutUseCase{
		tx:              tx,
		cartRepo:        cartRepo,
		reservationRepo: reservationRepo,
		userRepo:        userRepo,
		payment:         payment,
		billboard:       billboard,
		products:        products,
		cfg:             cfg,
		log:             log.Named("checkout"),
		now:             time.Now,
	}
}

// sortedLines copia las líneas ordenadas por producto para bloquear filas siempre en el mismo orden.
func sortedLines(lines []entity.CartLine) []entity.CartLine {
	out := append([]entity.CartLine(nil), lines...)
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

// Reserve aparta el stock del carrito. Si ya hay una reserva vigente la devuelve tal cual.
func (uc *CheckoutUseCase) Reserve(ctx context.Context, userID string) (*dto.ReservationResponse, error) {
	now := uc.now()
	active, err := uc.reservationRepo.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		if !active.IsExpired(now) {
			return toReservationResponse(active, now), nil
		}
		if err := uc.release(ctx, active, entity.ReservationExpired); err != nil && !errors.Is(err, domain.ErrNoReservation) {
			return nil, err
		}
	}

	cart, err := uc.cartRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil || cart.IsEmpty() {
		return nil, domain.ErrEmptyCart
	}

	r := &entity.Reservation{
		ID:        uuid.New().String(),
		UserID:    userID,
		Lines:     sortedLines(cart.Lines),
		Status:    entity.ReservationActive,
		CreatedAt: now,
		ExpiresAt: now.Add(uc.cfg.ReserveFor),
	}
	err = uc.tx.Run(ctx, func(productRepo repository.ProductRepository, _ repository.OrderRepository, reservationRepo repository.ReservationRepository) error {
		for _, l := range r.Lines {
			p, err := productRepo.GetForUpdate(ctx, l.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("%w: producto %s", domain.ErrNotFound, l.ProductID)
			}
			if !p.Reserve(l.Quantity) {
				return fmt.Errorf("%w: %s", domain.ErrReserveFailed, p.Name)
			}
			if err := productRepo.UpdateStock(ctx, p); err != nil {
				return err
			}
		}
		return reservationRepo.Create(ctx, r)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", userID).Str("reservation_id", r.ID).Int("lines", len(r.Lines)).Msg("stock reservado")
	return toReservationResponse(r, now), nil
}

// Cancel libera la reserva activa del usuario.
func (uc *CheckoutUseCase) Cancel(ctx context.Context, userID string) error {
	active, err := uc.reservationRepo.GetActiveByUser(ctx, userID)
	if err != nil {
		return err
	}
	if active == nil {
		return domain.ErrNoReservation
	}
	return uc.release(ctx, active, entity.ReservationCancelled)
}

// lockActive vuelve a leer la reserva dentro de la transacción y la bloquea.
// Si otra transacción ya la cerró devuelve domain.ErrNoReservation.
func lockActive(ctx context.Context, reservationRepo repository.ReservationRepository, id string) (*entity.Reservation, error) {
	r, err := reservationRepo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil || r.Status != entity.ReservationActive {
		return nil, domain.ErrNoReservation
	}
	return r, nil
}

// release devuelve el stock reservado y cierra la reserva con el estado indicado.
// Las líneas se toman de la fila bloqueada, no de r.
func (uc *CheckoutUseCase) release(ctx context.Context, r *entity.Reservation, status string) error {
	err := uc.tx.Run(ctx, func(productRepo repository.ProductRepository, _ repository.OrderRepository, reservationRepo repository.ReservationRepository) error {
		locked, err := lockActive(ctx, reservationRepo, r.ID)
		if err != nil {
			return err
		}
		for _, l := range sortedLines(locked.Lines) {
			p, err := productRepo.GetForUpdate(ctx, l.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				continue
			}
			p.Unreserve(l.Quantity)
			if err := productRepo.UpdateStock(ctx, p); err != nil {
				return err
			}
		}
		return reservationRepo.UpdateStatus(ctx, r.ID, status)
	})
	if err != nil {
		return fmt.Errorf("liberar reserva %s: %w", r.ID, err)
	}
	uc.log.Info().Str("reservation_id", r.ID).Str("status", status).Msg("reserva liberada")
	return nil
}

// Checkout confirma la reserva vigente: cobra (CARD), descuenta lo reservado, registra el pedido
// y cierra la reserva, todo en una transacción. Un pago rechazado deja la reserva intacta.
func (uc *CheckoutUseCase) Checkout(ctx context.Context, userID string, in dto.CheckoutRequest) (*dto.OrderResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	now := uc.now()
	r, err := uc.reservationRepo.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNoReservation
	}
	if r.IsExpired(now) {
		if err := uc.release(ctx, r, entity.ReservationExpired); err != nil && !errors.Is(err, domain.ErrNoReservation) {
			uc.log.Error().Err(err).Str("reservation_id", r.ID).Msg("no se pudo liberar la reserva vencida")
		}
		return nil, domain.ErrReservationExpired
	}

	order := &entity.Order{
		ID:             uuid.New().String(),
		CreatedAt:      now,
		PaymentMethod:  entity.PaymentMethod(in.PaymentMethod),
		PaymentStatus:  entity.PaymentAwaitingPayment,
		ShippingMethod: entity.ShippingMethod(in.ShippingMethod),
		Status:         entity.OrderAwaitingDelivery,
		UserID:         user.ID,
		UserEmail:      user.Email,
	}
	if in.AddressID != "" {
		addr := user.Address(in.AddressID)
		if addr == nil {
			return nil, fmt.Errorf("%w: dirección %s", domain.ErrNotFound, in.AddressID)
		}
		order.AddressID = addr.ID
		order.ShippingAddress = addr.String()
	}

	err = uc.tx.Run(ctx, func(productRepo repository.ProductRepository, orderRepo repository.OrderRepository, reservationRepo repository.ReservationRepository) error {
		locked, err := lockActive(ctx, reservationRepo, r.ID)
		if err != nil {
			return err
		}
		if locked.IsExpired(now) {
			return domain.ErrReservationExpired
		}
		order.Products = order.Products[:0]
		for _, l := range sortedLines(locked.Lines) {
			p, err := productRepo.GetForUpdate(ctx, l.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("%w: producto %s", domain.ErrNotFound, l.ProductID)
			}
			if p.QuantityReserved < l.Quantity {
				return fmt.Errorf("%w: %s", domain.ErrInsufficientStock, p.Name)
			}
			p.Buy(l.Quantity)
			if err := productRepo.UpdateStock(ctx, p); err != nil {
				return err
			}
			order.Products = append(order.Products, entity.OrderProduct{
				ProductID:       p.ID,
				ProductName:     p.Name,
				Quantity:        l.Quantity,
				SellingPrice:    p.SellingPrice,
				PurchasingPrice: p.RecentPurchasingPrice(),
			})
		}
		order.Recalculate()

		if order.PaymentMethod == entity.PaymentCard {
			card := ports.CardPayment{
				Number:     in.Card.Number,
				HolderName: in.Card.HolderName,
				CVV:        in.Card.CVV,
				ExpMonth:   in.Card.ExpMonth,
				ExpYear:    in.Card.ExpYear,
			}
			if _, err := uc.payment.Charge(ctx, card, order.TotalSellingPrice, order.ID); err != nil {
				if errors.Is(err, domain.ErrPaymentDeclined) {
					return err
				}
				return fmt.Errorf("%w: %v", domain.ErrPaymentDeclined, err)
			}
			order.PaymentStatus = entity.PaymentPaid
		}

		if err := orderRepo.Create(ctx, order); err != nil {
			return err
		}
		return reservationRepo.UpdateStatus(ctx, r.ID, entity.ReservationCompleted)
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("user_id", userID).Str("reservation_id", r.ID).Msg("checkout fallido")
		return nil, err
	}

	uc.log.Info().
		Str("order_id", order.ID).
		Int64("number", order.Number).
		Str("total", order.TotalSellingPrice.StringFixed(2)).
		Str("payment_status", string(order.PaymentStatus)).
		Msg("pedido registrado")

	if err := uc.cartRepo.Delete(ctx, userID); err != nil {
		uc.log.Warn().Err(err).Str("user_id", userID).Msg("no se pudo vaciar el carrito")
	}
	if err := uc.PublishTop(ctx); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo actualizar el billboard")
	}
	return dto.ToOrderResponse(order), nil
}

// SweepExpired libera todas las reservas activas vencidas. Devuelve cuántas liberó.
func (uc *CheckoutUseCase) SweepExpired(ctx context.Context) (int, error) {
	expired, err := uc.reservationRepo.ListExpired(ctx, uc.now())
	if err != nil {
		return 0, err
	}
	n := 0
	for _, r := range expired {
		err := uc.release(ctx, r, entity.ReservationExpired)
		if errors.Is(err, domain.ErrNoReservation) {
			// la cerró un checkout o una cancelación después del listado
			continue
		}
		if err != nil {
			uc.log.Error().Err(err).Str("reservation_id", r.ID).Msg("barrido de reservas")
			continue
		}
		n++
	}
	return n, nil
}

// PublishTop difunde el ranking actual de más vendidos.
func (uc *CheckoutUseCase) PublishTop(ctx context.Context) error {
	if uc.billboard == nil {
		return nil
	}
	top, err := uc.products.TopSelling(ctx)
	if err != nil {
		return err
	}
	return uc.billboard.Publish(top)
}
