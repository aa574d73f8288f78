package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Estore-api/internal/domain"
)

const priceListHeaderLine = "ID,Name,Purchasing price,Selling price,Weight,Height,Width,Depth,Quantity in stock,Image url,Measure units id,Category id\n"

func TestPriceList_ExportOrdenadoPorID(t *testing.T) {
	f := newCatalogFixture(t)
	f.mustCreate(t, productRequest("ThinkPad", "laptops", "1000", "800.5", 2))
	f.mustCreate(t, productRequest("Go book", "books", "30", "20", 1))
	uc := NewPriceListUseCase(f.products, f.store.TxRunner(), nil)

	var buf bytes.Buffer
	require.NoError(t, uc.Export(context.Background(), &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, PriceListHeader, records[0])
	assert.Less(t, records[1][0], records[2][0])
	for _, rec := range records[1:] {
		if rec[1] == "ThinkPad" {
			assert.Equal(t, "800.50", rec[2])
			assert.Equal(t, "1000.00", rec[3])
		}
	}
}

func TestPriceList_ImportCreaYActualiza(t *testing.T) {
	f := newCatalogFixture(t)
	existing := f.mustCreate(t, productRequest("ThinkPad", "laptops", "1000", "800", 2))
	uc := NewPriceListUseCase(f.products, f.store.TxRunner(), nil)

	body := priceListHeaderLine +
		existing.ID + ",ThinkPad X1,850,1100,1.2,2,30,20,5,,pcs,laptops\n" +
		",Go book,20,30,0.5,,,,10,https://img/go.png,pcs,books\n"
	out, err := uc.Import(context.Background(), strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, 1, out.Created)
	assert.Equal(t, 1, out.Updated)

	updated, err := f.products.GetByID(context.Background(), existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "ThinkPad X1", updated.Name)
	assert.Len(t, updated.PriceHistory, 2)
	assert.Equal(t, 5, updated.QuantityInStock)

	all, err := f.products.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestPriceList_FilaInvalidaRevierteTodo(t *testing.T) {
	f := newCatalogFixture(t)
	existing := f.mustCreate(t, productRequest("ThinkPad", "laptops", "1000", "800", 2))
	uc := NewPriceListUseCase(f.products, f.store.TxRunner(), nil)

	body := priceListHeaderLine +
		existing.ID + ",ThinkPad X1,850,1100,1,1,1,1,5,,pcs,laptops\n" +
		",Broken,abc,30,1,1,1,1,10,,pcs,books\n"
	_, err := uc.Import(context.Background(), strings.NewReader(body))
	require.Error(t, err)
	var rowErr *domain.RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 2, rowErr.Row)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	p, err := f.products.GetByID(context.Background(), existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "ThinkPad", p.Name, "la primera fila no se confirma")
}

func TestPriceList_CategoriaNoHojaEsErrorDeFila(t *testing.T) {
	f := newCatalogFixture(t)
	uc := NewPriceListUseCase(f.products, f.store.TxRunner(), nil)
	body := priceListHeaderLine + ",Phone,100,200,1,1,1,1,3,,pcs,electronics\n"
	_, err := uc.Import(context.Background(), strings.NewReader(body))
	var rowErr *domain.RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 1, rowErr.Row)
	assert.ErrorIs(t, err, domain.ErrCategoryNotLeaf)
}

func TestPriceList_Vacia(t *testing.T) {
	f := newCatalogFixture(t)
	uc := NewPriceListUseCase(f.products, f.store.TxRunner(), nil)
	_, err := uc.Import(context.Background(), strings.NewReader(""))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
