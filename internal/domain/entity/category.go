package entity

import "time"

// Tipos de nodo del árbol de categorías.
const (
	CategoryTypeFolder   = "folder"   // contiene otras categorías
	CategoryTypeCategory = "category" // hoja: contiene productos
)

// Category nodo del árbol de categorías. ParentID vacío si es raíz.
type Category struct {
	ID        string
	Name      string
	Type      string
	ParentID  string
	Children  []*Category
	CreatedAt time.Time
}

// IsLeaf indica si el nodo puede contener productos.
func (c *Category) IsLeaf() bool {
	return c.Type == CategoryTypeCategory
}

// IsFolder indica si el nodo puede contener otras categorías.
func (c *Category) IsFolder() bool {
	return c.Type == CategoryTypeFolder
}

// ValidCategoryType valida el tipo recibido del cliente.
func ValidCategoryType(t string) bool {
	return t == CategoryTypeFolder || t == CategoryTypeCategory
}
