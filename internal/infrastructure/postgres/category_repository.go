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

var (
	_ repository.CategoryRepository     = (*CategoryRepo)(nil)
	_ repository.MeasureUnitsRepository = (*MeasureUnitsRepo)(nil)
	_ repository.AttributeRepository    = (*AttributeRepo)(nil)
)

// CategoryRepo árbol de categorías (lista de adyacencia parent_id).
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO categories (id, name, type, parent_id, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.Name, c.Type, nullIfEmpty(c.ParentID), c.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	var c entity.Category
	var parentID *string
	err := r.q.QueryRow(ctx, `SELECT id, name, type, parent_id, created_at FROM categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Type, &parentID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	c.ParentID = stringOrEmpty(parentID)
	return &c, nil
}

// ListAll devuelve todos los nodos planos; el árbol se arma en la capa de aplicación.
func (r *CategoryRepo) ListAll(ctx context.Context) ([]*entity.Category, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, type, parent_id, created_at FROM categories ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	var list []*entity.Category
	for rows.Next() {
		var c entity.Category
		var parentID *string
		if err := rows.Scan(&c.ID, &c.Name, &c.Type, &parentID, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.ParentID = stringOrEmpty(parentID)
		list = append(list, &c)
	}
	return list, rows.Err()
}

func (r *CategoryRepo) Rename(ctx context.Context, id, name string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE categories SET name = $2 WHERE id = $1`, id, name)
	if err != nil {
		return fmt.Errorf("rename category: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CategoryRepo) DeleteMany(ctx context.Context, ids []string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM categories WHERE id = ANY($1)`, ids); err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrCategoryHasProducts
		}
		return fmt.Errorf("delete categories: %w", err)
	}
	return nil
}

// MeasureUnitsRepo unidades de medida.
type MeasureUnitsRepo struct {
	q Querier
}

// NewMeasureUnitsRepository construye el adaptador.
func NewMeasureUnitsRepository(q Querier) *MeasureUnitsRepo {
	return &MeasureUnitsRepo{q: q}
}

func (r *MeasureUnitsRepo) Create(ctx context.Context, mu *entity.MeasureUnits) error {
	if _, err := r.q.Exec(ctx, `INSERT INTO measure_units (id, name) VALUES ($1, $2)`, mu.ID, mu.Name); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert measure units: %w", err)
	}
	return nil
}

func (r *MeasureUnitsRepo) GetByID(ctx context.Context, id string) (*entity.MeasureUnits, error) {
	var mu entity.MeasureUnits
	if err := r.q.QueryRow(ctx, `SELECT id, name FROM measure_units WHERE id = $1`, id).Scan(&mu.ID, &mu.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get measure units: %w", err)
	}
	return &mu, nil
}

func (r *MeasureUnitsRepo) List(ctx context.Context) ([]*entity.MeasureUnits, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name FROM measure_units ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list measure units: %w", err)
	}
	defer rows.Close()
	var list []*entity.MeasureUnits
	for rows.Next() {
		var mu entity.MeasureUnits
		if err := rows.Scan(&mu.ID, &mu.Name); err != nil {
			return nil, fmt.Errorf("scan measure units: %w", err)
		}
		list = append(list, &mu)
	}
	return list, rows.Err()
}

func (r *MeasureUnitsRepo) Update(ctx context.Context, mu *entity.MeasureUnits) error {
	cmd, err := r.q.Exec(ctx, `UPDATE measure_units SET name = $2 WHERE id = $1`, mu.ID, mu.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update measure units: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MeasureUnitsRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM measure_units WHERE id = $1`, id); err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrMeasureUnitsInUse
		}
		return fmt.Errorf("delete measure units: %w", err)
	}
	return nil
}

// AttributeRepo atributos y la tabla puente product_attributes.
type AttributeRepo struct {
	q Querier
}

// NewAttributeRepository construye el adaptador.
func NewAttributeRepository(q Querier) *AttributeRepo {
	return &AttributeRepo{q: q}
}

func (r *AttributeRepo) GetByName(ctx context.Context, name string) (*entity.Attribute, error) {
	var a entity.Attribute
	if err := r.q.QueryRow(ctx, `SELECT id, name FROM attributes WHERE lower(name) = lower($1)`, name).Scan(&a.ID, &a.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get attribute: %w", err)
	}
	return &a, nil
}

func (r *AttributeRepo) Create(ctx context.Context, a *entity.Attribute) error {
	if _, err := r.q.Exec(ctx, `INSERT INTO attributes (id, name) VALUES ($1, $2)`, a.ID, a.Name); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert attribute: %w", err)
	}
	return nil
}

func (r *AttributeRepo) ListForProduct(ctx context.Context, productID string) ([]entity.ProductAttribute, error) {
	rows, err := r.q.Query(ctx, `
		SELECT pa.product_id, a.id, a.name, pa.value
		FROM product_attributes pa JOIN attributes a ON a.id = pa.attribute_id
		WHERE pa.product_id = $1
		ORDER BY a.name`, productID)
	if err != nil {
		return nil, fmt.Errorf("list product attributes: %w", err)
	}
	defer rows.Close()
	var list []entity.ProductAttribute
	for rows.Next() {
		var pa entity.ProductAttribute
		if err := rows.Scan(&pa.ProductID, &pa.AttributeID, &pa.Name, &pa.Value); err != nil {
			return nil, fmt.Errorf("scan product attribute: %w", err)
		}
		list = append(list, pa)
	}
	return list, rows.Err()
}

// Link asocia el atributo al producto con valor vacío; si ya existe no hace nada.
func (r *AttributeRepo) Link(ctx context.Context, productID, attributeID string) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO product_attributes (product_id, attribute_id, value) VALUES ($1, $2, '')
		ON CONFLICT DO NOTHING`, productID, attributeID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("link attribute: %w", err)
	}
	return nil
}

func (r *AttributeRepo) SetValue(ctx context.Context, productID, attributeID, value string) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE product_attributes SET value = $3 WHERE product_id = $1 AND attribute_id = $2`,
		productID, attributeID, value)
	if err != nil {
		return fmt.Errorf("set attribute value: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AttributeRepo) Unlink(ctx context.Context, productID, attributeID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM product_attributes WHERE product_id = $1 AND attribute_id = $2`, productID, attributeID); err != nil {
		return fmt.Errorf("unlink attribute: %w", err)
	}
	return nil
}

func (r *AttributeRepo) ValuesForCategories(ctx context.Context, categoryIDs []string) ([]entity.AttributeValues, error) {
	rows, err := r.q.Query(ctx, `
		SELECT a.id, a.name,
		       COALESCE(array_agg(DISTINCT pa.value ORDER BY pa.value) FILTER (WHERE pa.value <> ''), '{}')
		FROM product_attributes pa
		JOIN attributes a ON a.id = pa.attribute_id
		JOIN products p   ON p.id = pa.product_id
		WHERE p.category_id = ANY($1)
		GROUP BY a.id, a.name
		ORDER BY a.name`, categoryIDs)
	if err != nil {
		return nil, fmt.Errorf("attribute values: %w", err)
	}
	defer rows.Close()
	var list []entity.AttributeValues
	for rows.Next() {
		var av entity.AttributeValues
		if err := rows.Scan(&av.Attribute.ID, &av.Attribute.Name, &av.Values); err != nil {
			return nil, fmt.Errorf("scan attribute values: %w", err)
		}
		list = append(list, av)
	}
	return list, rows.Err()
}
