package catalog

import (
	"sort"
	"strings"

	"github.com/jhoicas/Estore-api/internal/domain/entity"
)

// AnyValue valor de filtro que desactiva el filtro de ese atributo.
const AnyValue = "All"

// MatchAttributes aplica los filtros nombre→valor a un producto.
// Sin filtros todo coincide. Con filtros, un producto sin atributos se descarta;
// para cada atributo del producto, un filtro ausente o "All" no restringe y cualquier
// otro valor debe coincidir exactamente.
func MatchAttributes(p *entity.Product, filters map[string]string) bool {
	if len(filters) == 0 {
		return true
	}
	if len(p.Attributes) == 0 {
		return false
	}
	for _, a := range p.Attributes {
		want, ok := filters[a.Name]
		if !ok || want == AnyValue {
			continue
		}
		if a.Value != want {
			return false
		}
	}
	return true
}

// FilterByAttributes devuelve los productos que cumplen MatchAttributes conservando el orden.
func FilterByAttributes(products []*entity.Product, filters map[string]string) []*entity.Product {
	if len(filters) == 0 {
		return products
	}
	out := make([]*entity.Product, 0, len(products))
	for _, p := range products {
		if MatchAttributes(p, filters) {
			out = append(out, p)
		}
	}
	return out
}

// TopSelling ordena por ventas descendente, toma n y descarta los que nunca se vendieron.
func TopSelling(products []*entity.Product, n int) []*entity.Product {
	sorted := make([]*entity.Product, len(products))
	copy(sorted, products)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].SaleCount > sorted[j].SaleCount })
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	out := sorted[:0]
	for _, p := range sorted {
		if p.SaleCount >= 1 {
			out = append(out, p)
		}
	}
	return out
}

// ContainsFold coincidencia parcial sin distinguir mayúsculas.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
