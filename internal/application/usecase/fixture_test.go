package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Estore-api/internal/application/dto"
	"github.com/jhoicas/Estore-api/internal/domain/entity"
	"github.com/jhoicas/Estore-api/internal/infrastructure/memory"
)

// catalogFixture árbol:
//
//	electronics/
//	  phones (category)
//	  computers/
//	    laptops (category)
//	books (category)
type catalogFixture struct {
	store      *memory.Store
	categories *CategoryUseCase
	products   *ProductUseCase
	attributes *AttributeUseCase
	units      *MeasureUnitsUseCase
	clock      time.Time
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	f := &catalogFixture{store: store, clock: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}
	f.categories = NewCategoryUseCase(store.Categories(), store.Products())
	f.products = NewProductUseCase(store.Products(), f.categories, store.MeasureUnits(), 3).WithTx(store.TxRunner())
	f.products.now = func() time.Time { return f.clock }
	f.attributes = NewAttributeUseCase(store.Attributes(), store.Products(), f.categories)
	f.units = NewMeasureUnitsUseCase(store.MeasureUnits(), store.Products())

	for _, c := range []*entity.Category{
		{ID: "electronics", Name: "electronics", Type: entity.CategoryTypeFolder},
		{ID: "phones", Name: "phones", Type: entity.CategoryTypeCategory, ParentID: "electronics"},
		{ID: "computers", Name: "computers", Type: entity.CategoryTypeFolder, ParentID: "electronics"},
		{ID: "laptops", Name: "laptops", Type: entity.CategoryTypeCategory, ParentID: "computers"},
		{ID: "books", Name: "books", Type: entity.CategoryTypeCategory},
	} {
		require.NoError(t, store.Categories().Create(ctx, c))
	}
	require.NoError(t, store.MeasureUnits().Create(ctx, &entity.MeasureUnits{ID: "pcs", Name: "pcs"}))
	return f
}

func productRequest(name, category, selling, purchasing string, stock int) dto.ProductRequest {
	return dto.ProductRequest{
		Name:            name,
		SellingPrice:    decimal.RequireFromString(selling),
		PurchasingPrice: decimal.RequireFromString(purchasing),
		CategoryID:      category,
		MeasureUnitsID:  "pcs",
		Height:          decimal.NewFromInt(2),
		Width:           decimal.NewFromInt(3),
		Depth:           decimal.NewFromInt(4),
		QuantityInStock: stock,
	}
}

func (f *catalogFixture) mustCreate(t *testing.T, in dto.ProductRequest) *dto.ProductResponse {
	t.Helper()
	out, err := f.products.Create(context.Background(), in)
	require.NoError(t, err)
	return out
}
