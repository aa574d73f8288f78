package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Estore-api/internal/application/dto"
	"github.com/jhoicas/Estore-api/internal/application/ports"
	"github.com/jhoicas/Estore-api/internal/domain"
	"github.com/jhoicas/Estore-api/internal/domain/entity"
	"github.com/jhoicas/Estore-api/internal/domain/repository"
	"github.com/jhoicas/Estore-api/internal/domain/sales"
)

// defaultSearchWindow rango de la búsqueda de pedidos cuando no se indican fechas.
const defaultSearchWindow = 14 * 24 * time.Hour

// Viewer identidad del solicitante (tomada del JWT).
type Viewer struct {
	UserID string
	Roles  []string
}

// IsManager indica si puede ver pedidos ajenos.
func (v Viewer) IsManager() bool {
	for _, r := range v.Roles {
		if r == entity.RoleManager || r == entity.RoleAdmin {
			return true
		}
	}
	return false
}

// OrderUseCase consulta, cambio de estado y factura de pedidos.
type OrderUseCase struct {
	repo     repository.OrderRepository
	userRepo repository.UserRepository
	pdf      ports.InvoicePDFGenerator
	company  entity.CompanyInfo
	now      func() time.Time
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(repo repository.OrderRepository, userRepo repository.UserRepository, pdf ports.InvoicePDFGenerator, company entity.CompanyInfo) *OrderUseCase {
	return &OrderUseCase{repo: repo, userRepo: userRepo, pdf: pdf, company: company, now: time.Now}
}

// BuildOrderFilter normaliza los criterios: sin fechas, últimas dos semanas; orden por defecto ID DESC.
// La fecha final es inclusiva.
func BuildOrderFilter(in dto.OrderSearchRequest, now time.Time) (repository.OrderFilter, error) {
	if err := dto.Validate(in); err != nil {
		return repository.OrderFilter{}, err
	}
	today := sales.Day(now)
	start := today.Add(-defaultSearchWindow)
	end := today
	var err error
	if in.StartDate != "" {
		if start, err = time.ParseInLocation(dto.DateLayout, in.StartDate, now.Location()); err != nil {
			return repository.OrderFilter{}, fmt.Errorf("%w: start_date", domain.ErrInvalidInput)
		}
	}
	if in.EndDate != "" {
		if end, err = time.ParseInLocation(dto.DateLayout, in.EndDate, now.Location()); err != nil {
			return repository.OrderFilter{}, fmt.Errorf("%w: end_date", domain.ErrInvalidInput)
		}
	}
	if end.Before(start) {
		return repository.OrderFilter{}, domain.ErrInvalidPeriod
	}
	f := repository.OrderFilter{
		OrderNumber: in.OrderNumber,
		From:        start,
		To:          end.AddDate(0, 0, 1),
		UserEmail:   strings.ToLower(strings.TrimSpace(in.Email)),
		Status:      entity.OrderStatus(in.Status),
		SortBy:      in.SortBy,
		Descending:  in.SortDirection != "ASC",
	}
	if f.SortBy == "" {
		f.SortBy = repository.OrderSortID
	}
	if in.MinPrice != "" {
		d, err := decimal.NewFromString(in.MinPrice)
		if err != nil {
			return repository.OrderFilter{}, fmt.Errorf("%w: min_price", domain.ErrInvalidInput)
		}
		f.MinPrice = &d
	}
	if in.MaxPrice != "" {
		d, err := decimal.NewFromString(in.MaxPrice)
		if err != nil {
			return repository.OrderFilter{}, fmt.Errorf("%w: max_price", domain.ErrInvalidInput)
		}
		f.MaxPrice = &d
	}
	return f, nil
}

// Search búsqueda de pedidos para el gerente.
func (uc *OrderUseCase) Search(ctx context.Context, in dto.OrderSearchRequest) ([]dto.OrderResponse, error) {
	f, err := BuildOrderFilter(in, uc.now())
	if err != nil {
		return nil, err
	}
	list, err := uc.repo.Search(ctx, f)
	if err != nil {
		return nil, err
	}
	return dto.ToOrderResponses(list), nil
}

func (uc *OrderUseCase) load(ctx context.Context, viewer Viewer, id string) (*entity.Order, error) {
	o, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	if o.UserID != viewer.UserID && !viewer.IsManager() {
		return nil, domain.ErrForbidden
	}
	return o, nil
}

// GetByID el dueño o un gerente pueden ver el pedido.
func (uc *OrderUseCase) GetByID(ctx context.Context, viewer Viewer, id string) (*dto.OrderResponse, error) {
	o, err := uc.load(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	return dto.ToOrderResponse(o), nil
}

// ListForUser pedidos del usuario, el más reciente primero.
func (uc *OrderUseCase) ListForUser(ctx context.Context, userID string) ([]dto.OrderResponse, error) {
	list, err := uc.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return dto.ToOrderResponses(list), nil
}

// UpdateStatus cambia el estado logístico.
func (uc *OrderUseCase) UpdateStatus(ctx context.Context, id string, in dto.UpdateOrderStatusRequest) (*dto.OrderResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	status, ok := entity.ParseOrderStatus(in.Status)
	if !ok {
		return nil, fmt.Errorf("%w: status", domain.ErrInvalidInput)
	}
	o, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	o.Status = status
	return dto.ToOrderResponse(o), nil
}

// Invoice genera el PDF de la factura del pedido. Devuelve bytes y número del pedido.
func (uc *OrderUseCase) Invoice(ctx context.Context, viewer Viewer, id string) ([]byte, int64, error) {
	o, err := uc.load(ctx, viewer, id)
	if err != nil {
		return nil, 0, err
	}
	buyer, err := uc.userRepo.GetByID(ctx, o.UserID)
	if err != nil {
		return nil, 0, err
	}
	if buyer == nil {
		buyer = &entity.User{ID: o.UserID, Email: o.UserEmail}
	}
	pdf, err := uc.pdf.GenerateInvoicePDF(ctx, o, buyer, uc.company)
	if err != nil {
		return nil, 0, fmt.Errorf("factura: %w", err)
	}
	return pdf, o.Number, nil
}
