// Package analytics contiene los casos de uso de reportes de ventas y el panel del gerente.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Estore-api/internal/application/dto"
	"github.com/jhoicas/Estore-api/internal/application/usecase"
	"github.com/jhoicas/Estore-api/internal/domain"
	"github.com/jhoicas/Estore-api/internal/domain/repository"
	"github.com/jhoicas/Estore-api/internal/domain/sales"
)

const (
	dashboardTopClients = 10 // clientes en el widget del panel
	dashboardMonths     = 6  // meses de ganancia en el panel
)

// ReportUseCase ganancias por mes y por semana, rankings de productos y clientes.
//
// Fuente de datos: OrderRepository (consultas read-only); los rankings delegan en
// los casos de uso de productos y usuarios.
type ReportUseCase struct {
	orderRepo repository.OrderRepository
	products  *usecase.ProductUseCase
	users     *usecase.UserUseCase
	now       func() time.Time
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(orderRepo repository.OrderRepository, products *usecase.ProductUseCase, users *usecase.UserUseCase) *ReportUseCase {
	return &ReportUseCase{orderRepo: orderRepo, products: products, users: users, now: time.Now}
}

func parsePeriod(in dto.PeriodRequest) (time.Time, time.Time, error) {
	if err := dto.Validate(in); err != nil {
		return time.Time{}, time.Time{}, err
	}
	start, err := time.Parse(dto.DateLayout, in.Start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start", domain.ErrInvalidInput)
	}
	end, err := time.Parse(dto.DateLayout, in.End)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end", domain.ErrInvalidInput)
	}
	if err := sales.ValidatePeriod(start, end); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func toRevenueResponse(granularity, layout string, start, end time.Time, buckets []sales.RevenueBucket) dto.RevenueResponse {
	out := dto.RevenueResponse{
		Granularity: granularity,
		Start:       start.Format(dto.DateLayout),
		End:         end.Format(dto.DateLayout),
		Total:       decimal.Zero,
		Buckets:     make([]dto.RevenueBucketResponse, 0, len(buckets)),
	}
	for _, b := range buckets {
		out.Total = out.Total.Add(b.Revenue)
		out.Buckets = append(out.Buckets, dto.RevenueBucketResponse{Period: b.Period.Format(layout), Revenue: b.Revenue})
	}
	return out
}

// MonthlyRevenue un bucket por mes, el más reciente primero.
func (uc *ReportUseCase) MonthlyRevenue(ctx context.Context, in dto.PeriodRequest) (*dto.RevenueResponse, error) {
	start, end, err := parsePeriod(in)
	if err != nil {
		return nil, err
	}
	return uc.monthly(ctx, start, end)
}

func (uc *ReportUseCase) monthly(ctx context.Context, start, end time.Time) (*dto.RevenueResponse, error) {
	from, to := sales.DayRange(start, end)
	orders, err := uc.orderRepo.ListCreatedBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("reportes: pedidos: %w", err)
	}
	buckets, err := sales.MonthlyRevenue(orders, start, end)
	if err != nil {
		return nil, err
	}
	out := toRevenueResponse("month", "2006-01", start, end, buckets)
	return &out, nil
}

// WeeklyRevenue semanas lunes-domingo identificadas por su domingo, la más reciente primero.
func (uc *ReportUseCase) WeeklyRevenue(ctx context.Context, in dto.PeriodRequest) (*dto.RevenueResponse, error) {
	start, end, err := parsePeriod(in)
	if err != nil {
		return nil, err
	}
	monday, sunday := sales.WeekRange(start, end)
	orders, err := uc.orderRepo.ListCreatedBetween(ctx, monday, sunday.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("reportes: pedidos: %w", err)
	}
	buckets, err := sales.WeeklyRevenue(orders, start, end)
	if err != nil {
		return nil, err
	}
	out := toRevenueResponse("week", dto.DateLayout, monday, sunday, buckets)
	return &out, nil
}

// TopProducts ranking de más vendidos.
func (uc *ReportUseCase) TopProducts(ctx context.Context) ([]dto.TopProductResponse, error) {
	list, err := uc.products.TopSelling(ctx)
	if err != nil {
		return nil, err
	}
	return dto.ToTopProductResponses(list), nil
}

// TopClients ranking de clientes por total comprado.
func (uc *ReportUseCase) TopClients(ctx context.Context, limit int) ([]dto.ClientTotalResponse, error) {
	if limit <= 0 {
		limit = dashboardTopClients
	}
	return uc.users.TopClients(ctx, limit)
}

// Dashboard resume ganancia de los últimos meses y ambos rankings.
//
// Tres consultas en paralelo:
//  1. ganancia mensual (mes actual y los cinco anteriores)
//  2. productos más vendidos
//  3. mejores clientes
func (uc *ReportUseCase) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	now := uc.now().UTC()
	end := sales.Day(now)
	start := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(dashboardMonths - 1), 0)

	type revenueResult struct {
		rev *dto.RevenueResponse
		err error
	}
	type productsResult struct {
		top []dto.TopProductResponse
		err error
	}
	type clientsResult struct {
		top []dto.ClientTotalResponse
		err error
	}

	revCh := make(chan revenueResult, 1)
	prodCh := make(chan productsResult, 1)
	cliCh := make(chan clientsResult, 1)

	go func() {
		rev, err := uc.monthly(ctx, start, end)
		revCh <- revenueResult{rev, err}
	}()
	go func() {
		top, err := uc.TopProducts(ctx)
		prodCh <- productsResult{top, err}
	}()
	go func() {
		top, err := uc.TopClients(ctx, dashboardTopClients)
		cliCh <- clientsResult{top, err}
	}()

	rev := <-revCh
	prod := <-prodCh
	cli := <-cliCh

	if rev.err != nil {
		return nil, fmt.Errorf("dashboard: ganancia: %w", rev.err)
	}
	if prod.err != nil {
		return nil, fmt.Errorf("dashboard: productos: %w", prod.err)
	}
	if cli.err != nil {
		return nil, fmt.Errorf("dashboard: clientes: %w", cli.err)
	}
	return &dto.DashboardResponse{
		Monthly:     *rev.rev,
		TopProducts: prod.top,
		TopClients:  cli.top,
	}, nil
}
