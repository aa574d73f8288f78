package usecase

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Estore-api/internal/application/dto"
	"github.com/jhoicas/Estore-api/internal/application/ports"
	"github.com/jhoicas/Estore-api/internal/domain"
	"github.com/jhoicas/Estore-api/internal/domain/repository"
	"github.com/jhoicas/Estore-api/pkg/logger"
)

// PriceListHeader columnas de la lista de precios, en orden.
var PriceListHeader = []string{
	"ID", "Name", "Purchasing price", "Selling price",
	"Weight", "Height", "Width", "Depth",
	"Quantity in stock", "Image url", "Measure units id", "Category id",
}

// PriceListUseCase exportación e importación masiva de productos en CSV.
type PriceListUseCase struct {
	products *ProductUseCase
	tx       ports.TxRunner
	log      *logger.Logger
}

// NewPriceListUseCase construye el caso de uso.
func NewPriceListUseCase(products *ProductUseCase, tx ports.TxRunner, log *logger.Logger) *PriceListUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &PriceListUseCase{products: products, tx: tx, log: log.Named("pricelist")}
}

// Export escribe todos los productos ordenados por ID.
func (uc *PriceListUseCase) Export(ctx context.Context, w io.Writer) error {
	list, err := uc.products.repo.ListAll(ctx)
	if err != nil {
		return err
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })

	cw := csv.NewWriter(w)
	if err := cw.Write(PriceListHeader); err != nil {
		return err
	}
	for _, p := range list {
		rec := []string{
			p.ID,
			p.Name,
			p.RecentPurchasingPrice().StringFixed(2),
			p.SellingPrice.StringFixed(2),
			p.Weight.String(),
			p.Height.String(),
			p.Width.String(),
			p.Depth.String(),
			strconv.Itoa(p.QuantityInStock),
			p.ImageURL,
			p.MeasureUnitsID,
			p.CategoryID,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Import crea (ID vacío) o actualiza cada fila dentro de una única transacción.
// La primera fila inválida aborta la importación con *domain.RowError.
func (uc *PriceListUseCase) Import(ctx context.Context, r io.Reader) (*dto.PriceListImportResponse, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(PriceListHeader)
	cr.TrimLeadingSpace = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: lista de precios vacía", domain.ErrInvalidInput)
		}
		return nil, fmt.Errorf("%w: cabecera: %v", domain.ErrInvalidInput, err)
	}

	result := &dto.PriceListImportResponse{}
	err := uc.tx.Run(ctx, func(productRepo repository.ProductRepository, _ repository.OrderRepository, _ repository.ReservationRepository) error {
		for row := 1; ; row++ {
			rec, err := cr.Read()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return &domain.RowError{Row: row, Err: fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)}
			}
			id, in, err := parsePriceListRecord(rec)
			if err != nil {
				return &domain.RowError{Row: row, Err: err}
			}
			if id == "" {
				_, err = uc.products.create(ctx, productRepo, in)
				result.Created++
			} else {
				_, err = uc.products.update(ctx, productRepo, id, in)
				result.Updated++
			}
			if err != nil {
				return &domain.RowError{Row: row, Err: err}
			}
		}
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int("created", result.Created).Int("updated", result.Updated).Msg("lista de precios importada")
	return result, nil
}

func parsePriceListRecord(rec []string) (string, dto.ProductRequest, error) {
	for i := range rec {
		rec[i] = strings.TrimSpace(rec[i])
	}
	var in dto.ProductRequest
	decimals := []struct {
		name string
		dst  *decimal.Decimal
		raw  string
	}{
		{"purchasing price", &in.PurchasingPrice, rec[2]},
		{"selling price", &in.SellingPrice, rec[3]},
		{"weight", &in.Weight, rec[4]},
		{"height", &in.Height, rec[5]},
		{"width", &in.Width, rec[6]},
		{"depth", &in.Depth, rec[7]},
	}
	for _, d := range decimals {
		if d.raw == "" {
			continue
		}
		v, err := decimal.NewFromString(d.raw)
		if err != nil {
			return "", in, fmt.Errorf("%w: %s", domain.ErrInvalidInput, d.name)
		}
		*d.dst = v
	}
	qty, err := strconv.Atoi(rec[8])
	if err != nil {
		return "", in, fmt.Errorf("%w: quantity in stock", domain.ErrInvalidInput)
	}
	in.Name = rec[1]
	in.QuantityInStock = qty
	in.ImageURL = rec[9]
	in.MeasureUnitsID = rec[10]
	in.CategoryID = rec[11]
	return rec[0], in, nil
}
