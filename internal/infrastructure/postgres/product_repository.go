package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Estore-api/internal/domain"
	"github.com/jhoicas/Estore-api/internal/domain/entity"
	"github.com/jhoicas/Estore-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `p.id, p.name, p.selling_price, p.category_id, p.measure_units_id,
	p.weight, p.height, p.width, p.depth, p.quantity_in_stock, p.quantity_reserved,
	p.image_url, p.sale_count, p.created_at, p.updated_at`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.SellingPrice, &p.CategoryID, &p.MeasureUnitsID,
		&p.Weight, &p.Height, &p.Width, &p.Depth, &p.QuantityInStock, &p.QuantityReserved,
		&p.ImageURL, &p.SaleCount, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste el producto y su historial de precios de compra.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (id, name, selling_price, category_id, measure_units_id, weight, height, width, depth,
		                      quantity_in_stock, quantity_reserved, image_url, sale_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.Name, product.SellingPrice, product.CategoryID, product.MeasureUnitsID,
		product.Weight, product.Height, product.Width, product.Depth,
		product.QuantityInStock, product.QuantityReserved, product.ImageURL, product.SaleCount,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert product: %w", err)
	}
	for _, price := range product.PurchasingPrices {
		if _, err := r.q.Exec(ctx,
			`INSERT INTO purchasing_prices (product_id, price, created_at) VALUES ($1, $2, $3)`,
			product.ID, price.Price, price.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert purchasing price: %w", err)
		}
	}
	return nil
}

// GetByID obtiene un producto con historial de precios y atributos.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products p WHERE p.id = $1`, id)
}

// GetForUpdate igual que GetByID pero bloquea la fila hasta el fin de la transacción.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products p WHERE p.id = $1 FOR UPDATE`, id)
}

func (r *ProductRepo) getOne(ctx context.Context, query, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	if err := r.hydrate(ctx, []*entity.Product{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// Update guarda los datos editables y agrega el precio de compra vigente si difiere del último guardado.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE products SET name = $2, selling_price = $3, category_id = $4, measure_units_id = $5,
		       weight = $6, height = $7, width = $8, depth = $9, quantity_in_stock = $10, image_url = $11, updated_at = $12
		WHERE id = $1`,
		product.ID, product.Name, product.SellingPrice, product.CategoryID, product.MeasureUnitsID,
		product.Weight, product.Height, product.Width, product.Depth, product.QuantityInStock,
		product.ImageURL, product.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if len(product.PurchasingPrices) == 0 {
		return nil
	}
	last := product.PurchasingPrices[len(product.PurchasingPrices)-1]
	_, err = r.q.Exec(ctx, `
		INSERT INTO purchasing_prices (product_id, price, created_at)
		SELECT $1, $2, $3
		WHERE NOT EXISTS (
			SELECT 1 FROM (
				SELECT price FROM purchasing_prices WHERE product_id = $1 ORDER BY created_at DESC, id DESC LIMIT 1
			) cur WHERE cur.price = $2
		)`, product.ID, last.Price, last.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert purchasing price: %w", err)
	}
	return nil
}

// UpdateStock persiste stock disponible, reservado y contador de ventas.
func (r *ProductRepo) UpdateStock(ctx context.Context, product *entity.Product) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE products SET quantity_in_stock = $2, quantity_reserved = $3, sale_count = $4, updated_at = now()
		WHERE id = $1`,
		product.ID, product.QuantityInStock, product.QuantityReserved, product.SaleCount,
	)
	if err != nil {
		return fmt.Errorf("update product stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepo) ListAll(ctx context.Context) ([]*entity.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products p ORDER BY p.quantity_in_stock DESC, p.name`)
}

func (r *ProductRepo) ListByCategories(ctx context.Context, categoryIDs []string) ([]*entity.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products p WHERE p.category_id = ANY($1) ORDER BY p.name`, categoryIDs)
}

// SearchByName búsqueda parcial sin distinguir mayúsculas. categoryIDs vacío busca en todo el catálogo.
func (r *ProductRepo) SearchByName(ctx context.Context, name string, categoryIDs []string) ([]*entity.Product, error) {
	if len(categoryIDs) == 0 {
		return r.list(ctx, `SELECT `+productColumns+` FROM products p
			WHERE p.name ILIKE '%' || $1 || '%' ORDER BY p.name`, name)
	}
	return r.list(ctx, `SELECT `+productColumns+` FROM products p
		WHERE p.name ILIKE '%' || $1 || '%' AND p.category_id = ANY($2) ORDER BY p.name`, name, categoryIDs)
}

func (r *ProductRepo) TopSelling(ctx context.Context, limit int) ([]*entity.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products p
		WHERE p.sale_count >= 1 ORDER BY p.sale_count DESC, p.name LIMIT $1`, limit)
}

func (r *ProductRepo) CountByCategories(ctx context.Context, categoryIDs []string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE category_id = ANY($1)`, categoryIDs).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products by category: %w", err)
	}
	return n, nil
}

func (r *ProductRepo) CountByMeasureUnits(ctx context.Context, measureUnitsID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE measure_units_id = $1`, measureUnitsID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products by measure units: %w", err)
	}
	return n, nil
}

func (r *ProductRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.hydrate(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// hydrate carga historial de precios y atributos de todos los productos con una consulta por tabla.
func (r *ProductRepo) hydrate(ctx context.Context, products []*entity.Product) error {
	if len(products) == 0 {
		return nil
	}
	byID := make(map[string]*entity.Product, len(products))
	ids := make([]string, 0, len(products))
	for _, p := range products {
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}

	rows, err := r.q.Query(ctx, `
		SELECT product_id, price, created_at FROM purchasing_prices
		WHERE product_id = ANY($1) ORDER BY created_at, id`, ids)
	if err != nil {
		return fmt.Errorf("list purchasing prices: %w", err)
	}
	for rows.Next() {
		var productID string
		var price entity.Price
		if err := rows.Scan(&productID, &price.Price, &price.CreatedAt); err != nil {
			rows.Close()
			return fmt.Errorf("scan purchasing price: %w", err)
		}
		p := byID[productID]
		p.PurchasingPrices = append(p.PurchasingPrices, price)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = r.q.Query(ctx, `
		SELECT pa.product_id, a.id, a.name, pa.value
		FROM product_attributes pa JOIN attributes a ON a.id = pa.attribute_id
		WHERE pa.product_id = ANY($1) ORDER BY a.name`, ids)
	if err != nil {
		return fmt.Errorf("list product attributes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var pa entity.ProductAttribute
		if err := rows.Scan(&pa.ProductID, &pa.AttributeID, &pa.Name, &pa.Value); err != nil {
			return fmt.Errorf("scan product attribute: %w", err)
		}
		p := byID[pa.ProductID]
		p.Attributes = append(p.Attributes, pa)
	}
	return rows.Err()
}
