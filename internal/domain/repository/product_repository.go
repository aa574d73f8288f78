package repository

import (
	"context"

	"github.com/jhoicas/Estore-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID y las listas devuelven el historial de precios y los atributos cargados.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// Update guarda los datos del producto y el último precio de compra si es nuevo.
	Update(ctx context.Context, product *entity.Product) error
	// ListAll ordenados por stock disponible descendente.
	ListAll(ctx context.Context) ([]*entity.Product, error)
	ListByCategories(ctx context.Context, categoryIDs []string) ([]*entity.Product, error)
	// SearchByName coincidencia parcial sin distinguir mayúsculas; categoryIDs vacío = todas.
	SearchByName(ctx context.Context, name string, categoryIDs []string) ([]*entity.Product, error)
	// TopSelling productos con al menos una venta, por sale_count descendente.
	TopSelling(ctx context.Context, limit int) ([]*entity.Product, error)
	CountByCategories(ctx context.Context, categoryIDs []string) (int, error)
	CountByMeasureUnits(ctx context.Context, measureUnitsID string) (int, error)

	// GetForUpdate obtiene el producto bloqueando la fila (SELECT FOR UPDATE). Solo dentro de una tx.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	// UpdateStock persiste stock disponible, reservado y contador de ventas.
	UpdateStock(ctx context.Context, product *entity.Product) error
}

// AttributeRepository atributos y sus valores por producto.
type AttributeRepository interface {
	GetByName(ctx context.Context, name string) (*entity.Attribute, error)
	Create(ctx context.Context, attribute *entity.Attribute) error
	ListForProduct(ctx context.Context, productID string) ([]entity.ProductAttribute, error)
	Link(ctx context.Context, productID, attributeID string) error
	SetValue(ctx context.Context, productID, attributeID, value string) error
	Unlink(ctx context.Context, productID, attributeID string) error
	// ValuesForCategories atributos de los productos de esas categorías con sus valores no vacíos distintos.
	ValuesForCategories(ctx context.Context, categoryIDs []string) ([]entity.AttributeValues, error)
}
