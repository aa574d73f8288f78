// Package catalog reglas puras del catálogo: árbol de categorías y filtros de atributos.
package catalog

import (
	"sort"

	"github.com/jhoicas/Estore-api/internal/domain/entity"
)

// BuildTree arma el árbol a partir de la lista plana y devuelve las raíces ordenadas por nombre.
// Los nodos cuyo padre no está en la lista se tratan como raíces.
func BuildTree(flat []*entity.Category) []*entity.Category {
	byID := make(map[string]*entity.Category, len(flat))
	for _, c := range flat {
		c.Children = nil
		byID[c.ID] = c
	}
	var roots []*entity.Category
	for _, c := range flat {
		parent, ok := byID[c.ParentID]
		if c.ParentID == "" || !ok {
			roots = append(roots, c)
			continue
		}
		parent.Children = append(parent.Children, c)
	}
	sortTree(roots)
	return roots
}

func sortTree(nodes []*entity.Category) {
	sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].Name < nodes[j].Name })
	for _, n := range nodes {
		sortTree(n.Children)
	}
}

// Find busca un nodo por ID en el bosque.
func Find(roots []*entity.Category, id string) *entity.Category {
	for _, r := range roots {
		if r.ID == id {
			return r
		}
		if found := Find(r.Children, id); found != nil {
			return found
		}
	}
	return nil
}

// LeafIDs IDs de las categorías hoja del subárbol (incluido el propio nodo si es hoja).
func LeafIDs(node *entity.Category) []string {
	if node == nil {
		return nil
	}
	if node.IsLeaf() {
		return []string{node.ID}
	}
	var ids []string
	for _, child := range node.Children {
		ids = append(ids, LeafIDs(child)...)
	}
	return ids
}

// SubtreeIDs IDs de todos los nodos del subárbol, padres antes que hijos.
func SubtreeIDs(node *entity.Category) []string {
	if node == nil {
		return nil
	}
	ids := []string{node.ID}
	for _, child := range node.Children {
		ids = append(ids, SubtreeIDs(child)...)
	}
	return ids
}

// Leaves todas las hojas del bosque en recorrido en profundidad.
func Leaves(roots []*entity.Category) []*entity.Category {
	var out []*entity.Category
	for _, r := range roots {
		if r.IsLeaf() {
			out = append(out, r)
			continue
		}
		out = append(out, Leaves(r.Children)...)
	}
	return out
}
