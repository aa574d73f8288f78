package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Estore-api/internal/domain"
)

// ProductRequest entrada para crear o actualizar un producto (también una fila de la lista de precios).
type ProductRequest struct {
	Name            string          `json:"name" validate:"required,min=1,max=100"`
	SellingPrice    decimal.Decimal `json:"selling_price"`
	PurchasingPrice decimal.Decimal `json:"purchasing_price"`
	CategoryID      string          `json:"category_id" validate:"required"`
	MeasureUnitsID  string          `json:"measure_units_id" validate:"required"`
	Weight          decimal.Decimal `json:"weight"`
	Height          decimal.Decimal `json:"height"`
	Width           decimal.Decimal `json:"width"`
	Depth           decimal.Decimal `json:"depth"`
	QuantityInStock int             `json:"quantity_in_stock" validate:"min=0"`
	ImageURL        string          `json:"image_url" validate:"omitempty,max=255"`
}

// Check valida etiquetas y las reglas numéricas que el validador no cubre sobre decimales.
func (r ProductRequest) Check() error {
	if err := Validate(r); err != nil {
		return err
	}
	if !r.SellingPrice.IsPositive() {
		return fmt.Errorf("%w: selling_price debe ser positivo", domain.ErrInvalidInput)
	}
	if !r.PurchasingPrice.IsPositive() {
		return fmt.Errorf("%w: purchasing_price debe ser positivo", domain.ErrInvalidInput)
	}
	for name, d := range map[string]decimal.Decimal{"weight": r.Weight, "height": r.Height, "width": r.Width, "depth": r.Depth} {
		if d.IsNegative() {
			return fmt.Errorf("%w: %s no puede ser negativo", domain.ErrInvalidInput, name)
		}
	}
	return nil
}

// PriceResponse entrada del historial de precios de compra.
type PriceResponse struct {
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
}

// ProductAttributeResponse valor de un atributo en un producto.
type ProductAttributeResponse struct {
	AttributeID string `json:"attribute_id"`
	Name        string `json:"name"`
	Value       string `json:"value"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID               string                     `json:"id"`
	Name             string                     `json:"name"`
	SellingPrice     decimal.Decimal            `json:"selling_price"`
	PurchasingPrice  decimal.Decimal            `json:"purchasing_price"`
	PriceHistory     []PriceResponse            `json:"price_history,omitempty"`
	CategoryID       string                     `json:"category_id"`
	MeasureUnitsID   string                     `json:"measure_units_id"`
	Weight           decimal.Decimal            `json:"weight"`
	Height           decimal.Decimal            `json:"height"`
	Width            decimal.Decimal            `json:"width"`
	Depth            decimal.Decimal            `json:"depth"`
	Volume           decimal.Decimal            `json:"volume"`
	QuantityInStock  int                        `json:"quantity_in_stock"`
	QuantityReserved int                        `json:"quantity_reserved"`
	ImageURL         string                     `json:"image_url"`
	SaleCount        int                        `json:"sale_count"`
	Attributes       []ProductAttributeResponse `json:"attributes"`
}

// ProductSearchRequest búsqueda por nombre parcial, categoría (una carpeta expande a sus hojas)
// y filtros de atributos nombre→valor ("All" no filtra).
type ProductSearchRequest struct {
	Name       string            `query:"name" validate:"max=100"`
	CategoryID string            `query:"category_id"`
	Attributes map[string]string `query:"-"`
}

// TopProductResponse elemento del ranking publicado en el billboard.
type TopProductResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	ImageURL     string          `json:"image_url"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	SaleCount    int             `json:"sale_count"`
}

// AddAttributeRequest agrega un atributo (por nombre) a un producto.
type AddAttributeRequest struct {
	Name string `json:"name" validate:"required,min=1,max=35"`
}

// UpdateAttributeValuesRequest valores nombre→valor de los atributos de un producto.
type UpdateAttributeValuesRequest struct {
	Values map[string]string `json:"values" validate:"required,dive,max=35"`
}

// AttributeValuesResponse atributo con los valores presentes en una categoría.
type AttributeValuesResponse struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// CategoryRequest entrada para crear una categoría. ParentID vacío = raíz.
type CategoryRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=35"`
	Type     string `json:"type" validate:"required,oneof=folder category"`
	ParentID string `json:"parent_id"`
}

// RenameRequest entrada para renombrar categorías o unidades de medida.
type RenameRequest struct {
	Name string `json:"name" validate:"required,min=1,max=35"`
}

// CategoryResponse nodo del árbol con sus hijos.
type CategoryResponse struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Type     string             `json:"type"`
	ParentID string             `json:"parent_id,omitempty"`
	Children []CategoryResponse `json:"children,omitempty"`
}

// MeasureUnitsResponse unidad de medida.
type MeasureUnitsResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
