package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Estore-api/internal/application/dto"
	"github.com/jhoicas/Estore-api/internal/application/usecase"
	"github.com/jhoicas/Estore-api/internal/domain"
	"github.com/jhoicas/Estore-api/internal/domain/entity"
	"github.com/jhoicas/Estore-api/internal/infrastructure/memory"
)

func newReports(t *testing.T) (*ReportUseCase, *memory.Store) {
	t.Helper()
	store := memory.New()
	ctx := context.Background()
	categories := usecase.NewCategoryUseCase(store.Categories(), store.Products())
	products := usecase.NewProductUseCase(store.Products(), categories, store.MeasureUnits(), 5)
	users := usecase.NewUserUseCase(store.Users(), store.Roles(), store.Countries())
	uc := NewReportUseCase(store.Orders(), products, users)
	uc.now = func() time.Time { return time.Date(2026, 3, 18, 12, 0, 0, 0, time.UTC) }

	require.NoError(t, store.Users().Create(ctx, &entity.User{ID: "u-1", Email: "ana@estore.dev"}))
	orders := []struct {
		at             time.Time
		sell, purchase string
	}{
		{time.Date(2026, 1, 20, 10, 0, 0, 0, time.UTC), "100", "60"},
		{time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC), "50", "20"}, // lunes
		{time.Date(2026, 3, 8, 23, 0, 0, 0, time.UTC), "40", "30"}, // domingo
		{time.Date(2026, 3, 9, 0, 30, 0, 0, time.UTC), "10", "5"},  // lunes siguiente
	}
	for i, o := range orders {
		require.NoError(t, store.Orders().Create(ctx, &entity.Order{
			ID:                   string(rune('a' + i)),
			CreatedAt:            o.at,
			UserID:               "u-1",
			TotalSellingPrice:    decimal.RequireFromString(o.sell),
			TotalPurchasingPrice: decimal.RequireFromString(o.purchase),
		}))
	}
	return uc, store
}

func TestMonthlyRevenue(t *testing.T) {
	uc, _ := newReports(t)
	out, err := uc.MonthlyRevenue(context.Background(), dto.PeriodRequest{Start: "2026-01-15", End: "2026-03-10"})
	require.NoError(t, err)
	require.Len(t, out.Buckets, 3)
	assert.Equal(t, "2026-03", out.Buckets[0].Period)
	assert.Equal(t, "45", out.Buckets[0].Revenue.String())
	assert.Equal(t, "0", out.Buckets[1].Revenue.String())
	assert.Equal(t, "40", out.Buckets[2].Revenue.String())
	assert.Equal(t, "85", out.Total.String())
}

func TestMonthlyRevenue_SoloDentroDelPeriodo(t *testing.T) {
	uc, _ := newReports(t)
	// 03-02 y 03-08 quedan antes del inicio; 03-09 entra
	out, err := uc.MonthlyRevenue(context.Background(), dto.PeriodRequest{Start: "2026-03-09", End: "2026-04-10"})
	require.NoError(t, err)
	require.Len(t, out.Buckets, 2)
	assert.Equal(t, "2026-04", out.Buckets[0].Period)
	assert.Equal(t, "0", out.Buckets[0].Revenue.String())
	assert.Equal(t, "2026-03", out.Buckets[1].Period)
	assert.Equal(t, "5", out.Buckets[1].Revenue.String())

	// el 20 de enero queda después del fin
	out, err = uc.MonthlyRevenue(context.Background(), dto.PeriodRequest{Start: "2025-12-01", End: "2026-01-19"})
	require.NoError(t, err)
	assert.Equal(t, "0", out.Total.String())
}

func TestWeeklyRevenue(t *testing.T) {
	uc, _ := newReports(t)
	out, err := uc.WeeklyRevenue(context.Background(), dto.PeriodRequest{Start: "2026-03-04", End: "2026-03-10"})
	require.NoError(t, err)
	assert.Equal(t, "2026-03-02", out.Start)
	assert.Equal(t, "2026-03-15", out.End)
	require.Len(t, out.Buckets, 2)
	assert.Equal(t, "2026-03-15", out.Buckets[0].Period)
	assert.Equal(t, "5", out.Buckets[0].Revenue.String())
	assert.Equal(t, "2026-03-08", out.Buckets[1].Period)
	assert.Equal(t, "40", out.Buckets[1].Revenue.String())
}

func TestRevenue_PeriodoInvalido(t *testing.T) {
	uc, _ := newReports(t)
	_, err := uc.MonthlyRevenue(context.Background(), dto.PeriodRequest{Start: "2026-03-10", End: "2026-03-10"})
	assert.ErrorIs(t, err, domain.ErrInvalidPeriod)
	_, err = uc.WeeklyRevenue(context.Background(), dto.PeriodRequest{Start: "10/03/2026", End: "2026-03-11"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDashboard(t *testing.T) {
	uc, _ := newReports(t)
	out, err := uc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Len(t, out.Monthly.Buckets, 6)
	assert.Equal(t, "2026-03", out.Monthly.Buckets[0].Period)
	assert.Equal(t, "2025-10", out.Monthly.Buckets[5].Period)
	assert.Empty(t, out.TopProducts)
	require.Len(t, out.TopClients, 1)
	assert.Equal(t, "200", out.TopClients[0].Total.String())
}
