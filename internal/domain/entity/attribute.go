package entity

// MeasureUnits unidad en que se vende un producto (pieza, kg, litro...).
type MeasureUnits struct {
	ID   string
	Name string
}

// Attribute característica filtrable (color, talla...).
type Attribute struct {
	ID   string
	Name string
}

// ProductAttribute valor de un atributo para un producto concreto.
type ProductAttribute struct {
	ProductID   string
	AttributeID string
	Name        string
	Value       string
}

// AttributeValues atributo con los valores distintos presentes en un conjunto de productos.
type AttributeValues struct {
	Attribute Attribute
	Values    []string
}
