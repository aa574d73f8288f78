// Package checkout casos de uso del carrito, la reserva de stock y la confirmación del pedido.
package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Estore-api/internal/application/dto"
	"github.com/jhoicas/Estore-api/internal/domain"
	"github.com/jhoicas/Estore-api/internal/domain/entity"
	"github.com/jhoicas/Estore-api/internal/domain/repository"
)

// CartUseCase carrito del usuario autenticado.
type CartUseCase struct {
	cartRepo        repository.CartRepository
	productRepo     repository.ProductRepository
	orderRepo       repository.OrderRepository
	reservationRepo repository.ReservationRepository
	now             func() time.Time
}

// NewCartUseCase construye el caso de uso.
func NewCartUseCase(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	reservationRepo repository.ReservationRepository,
) *CartUseCase {
	return &CartUseCase{
		cartRepo:        cartRepo,
		productRepo:     productRepo,
		orderRepo:       orderRepo,
		reservationRepo: reservationRepo,
		now:             time.Now,
	}
}

func (uc *CartUseCase) load(ctx context.Context, userID string) (*entity.Cart, error) {
	cart, err := uc.cartRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		cart = &entity.Cart{UserID: userID}
	}
	return cart, nil
}

func (uc *CartUseCase) requireProduct(ctx context.Context, productID string) error {
	p, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	return nil
}

// Add suma la cantidad a la línea del producto.
func (uc *CartUseCase) Add(ctx context.Context, userID string, in dto.CartItemRequest) (*dto.CartResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if err := uc.requireProduct(ctx, in.ProductID); err != nil {
		return nil, err
	}
	cart, err := uc.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart.Add(in.ProductID, in.Quantity)
	if err := uc.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}
	return uc.view(ctx, cart)
}

// SetQuantity fija la cantidad de un producto; 0 lo quita.
func (uc *CartUseCase) SetQuantity(ctx context.Context, userID, productID string, in dto.CartQuantityRequest) (*dto.CartResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.Quantity > 0 {
		if err := uc.requireProduct(ctx, productID); err != nil {
			return nil, err
		}
	}
	cart, err := uc.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart.Set(productID, in.Quantity)
	if err := uc.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}
	return uc.view(ctx, cart)
}

// Remove quita un producto del carrito.
func (uc *CartUseCase) Remove(ctx context.Context, userID, productID string) (*dto.CartResponse, error) {
	cart, err := uc.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart.Remove(productID)
	if err := uc.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}
	return uc.view(ctx, cart)
}

// Clear vacía el carrito.
func (uc *CartUseCase) Clear(ctx context.Context, userID string) error {
	return uc.cartRepo.Delete(ctx, userID)
}

// View carrito con datos actuales de cada producto y totales.
func (uc *CartUseCase) View(ctx context.Context, userID string) (*dto.CartResponse, error) {
	cart, err := uc.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return uc.view(ctx, cart)
}

// Repeat reemplaza el carrito con las líneas de un pedido anterior del usuario.
func (uc *CartUseCase) Repeat(ctx context.Context, userID, orderID string) (*dto.CartResponse, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.UserID != userID {
		return nil, domain.ErrForbidden
	}
	cart := &entity.Cart{UserID: userID}
	for _, l := range order.Products {
		cart.Add(l.ProductID, l.Quantity)
	}
	if err := uc.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}
	return uc.view(ctx, cart)
}

// view refresca cada línea con el producto actual. Los productos que ya no existen se omiten.
func (uc *CartUseCase) view(ctx context.Context, cart *entity.Cart) (*dto.CartResponse, error) {
	out := &dto.CartResponse{Lines: make([]dto.CartLineResponse, 0, len(cart.Lines)), OrderPrice: decimal.Zero}
	sum := decimal.Zero
	for _, l := range cart.Lines {
		p, err := uc.productRepo.GetByID(ctx, l.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			continue
		}
		total := entity.RoundMoney(p.SellingPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
		sum = sum.Add(total)
		out.TotalNumberOfProducts += l.Quantity
		out.Lines = append(out.Lines, dto.CartLineResponse{
			ProductID:       p.ID,
			Name:            p.Name,
			ImageURL:        p.ImageURL,
			SellingPrice:    p.SellingPrice,
			Quantity:        l.Quantity,
			QuantityInStock: p.QuantityInStock,
			TotalPrice:      total,
		})
	}
	out.OrderPrice = entity.RoundMoney(sum)

	r, err := uc.reservationRepo.GetActiveByUser(ctx, cart.UserID)
	if err != nil {
		return nil, err
	}
	if now := uc.now(); r != nil && !r.IsExpired(now) {
		out.Reservation = toReservationResponse(r, now)
	}
	return out, nil
}

func toReservationResponse(r *entity.Reservation, now time.Time) *dto.ReservationResponse {
	return &dto.ReservationResponse{ID: r.ID, ExpiresAt: r.ExpiresAt, SecondsLeft: r.SecondsLeft(now)}
}
