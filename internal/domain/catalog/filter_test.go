package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Estore-api/internal/domain/entity"
)

func productWith(id string, attrs map[string]string) *entity.Product {
	p := &entity.Product{ID: id}
	for k, v := range attrs {
		p.Attributes = append(p.Attributes, entity.ProductAttribute{ProductID: id, Name: k, Value: v})
	}
	return p
}

func TestMatchAttributes(t *testing.T) {
	red := productWith("1", map[string]string{"color": "red", "size": "M"})
	bare := productWith("2", nil)

	assert.True(t, MatchAttributes(bare, nil), "sin filtros todo coincide")
	assert.False(t, MatchAttributes(bare, map[string]string{"color": "All"}), "sin atributos se descarta si hay filtros")

	assert.True(t, MatchAttributes(red, map[string]string{"color": "red"}))
	assert.True(t, MatchAttributes(red, map[string]string{"color": "All", "size": "M"}))
	assert.True(t, MatchAttributes(red, map[string]string{"weight": "heavy"}), "filtro de un atributo que el producto no tiene no restringe")
	assert.False(t, MatchAttributes(red, map[string]string{"color": "blue"}))
	assert.False(t, MatchAttributes(red, map[string]string{"color": "red", "size": "L"}))
}

func TestFilterByAttributes_ConservaOrden(t *testing.T) {
	list := []*entity.Product{
		productWith("1", map[string]string{"color": "red"}),
		productWith("2", map[string]string{"color": "blue"}),
		productWith("3", map[string]string{"color": "red"}),
	}
	out := FilterByAttributes(list, map[string]string{"color": "red"})
	assert.Len(t, out, 2)
	assert.Equal(t, "1", out[0].ID)
	assert.Equal(t, "3", out[1].ID)
}

func TestTopSelling(t *testing.T) {
	list := []*entity.Product{
		{ID: "a", SaleCount: 3},
		{ID: "b", SaleCount: 0},
		{ID: "c", SaleCount: 10},
		{ID: "d", SaleCount: 1},
	}
	top := TopSelling(list, 3)
	var ids []string
	for _, p := range top {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"c", "a", "d"}, ids)

	top = TopSelling(list, 10)
	assert.Len(t, top, 3, "los productos sin ventas se descartan")
	assert.Equal(t, "a", list[0].ID, "no altera el slice de entrada")
}

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("Samsung Galaxy", "galax"))
	assert.False(t, ContainsFold("Samsung Galaxy", "iphone"))
}
