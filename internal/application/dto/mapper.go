package dto

import (
	"github.com/jhoicas/Estore-api/internal/domain/entity"
)

// ToProductResponse convierte la entidad en DTO de salida.
func ToProductResponse(p *entity.Product) *ProductResponse {
	if p == nil {
		return nil
	}
	history := make([]PriceResponse, 0, len(p.PurchasingPrices))
	for _, pr := range p.PurchasingPrices {
		history = append(history, PriceResponse{Price: pr.Price, CreatedAt: pr.CreatedAt})
	}
	attrs := make([]ProductAttributeResponse, 0, len(p.Attributes))
	for _, a := range p.Attributes {
		attrs = append(attrs, ProductAttributeResponse{AttributeID: a.AttributeID, Name: a.Name, Value: a.Value})
	}
	return &ProductResponse{
		ID:               p.ID,
		Name:             p.Name,
		SellingPrice:     p.SellingPrice,
		PurchasingPrice:  p.RecentPurchasingPrice(),
		PriceHistory:     history,
		CategoryID:       p.CategoryID,
		MeasureUnitsID:   p.MeasureUnitsID,
		Weight:           p.Weight,
		Height:           p.Height,
		Width:            p.Width,
		Depth:            p.Depth,
		Volume:           p.Volume(),
		QuantityInStock:  p.QuantityInStock,
		QuantityReserved: p.QuantityReserved,
		ImageURL:         p.ImageURL,
		SaleCount:        p.SaleCount,
		Attributes:       attrs,
	}
}

// ToProductResponses convierte una lista.
func ToProductResponses(list []*entity.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *ToProductResponse(p))
	}
	return out
}

// ToTopProductResponses convierte el ranking de más vendidos.
func ToTopProductResponses(list []*entity.Product) []TopProductResponse {
	out := make([]TopProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, TopProductResponse{
			ID:           p.ID,
			Name:         p.Name,
			ImageURL:     p.ImageURL,
			SellingPrice: p.SellingPrice,
			SaleCount:    p.SaleCount,
		})
	}
	return out
}

// ToCategoryResponse convierte un nodo con su subárbol.
func ToCategoryResponse(c *entity.Category) CategoryResponse {
	out := CategoryResponse{ID: c.ID, Name: c.Name, Type: c.Type, ParentID: c.ParentID}
	for _, child := range c.Children {
		out.Children = append(out.Children, ToCategoryResponse(child))
	}
	return out
}

// ToUserResponse convierte un usuario (sin password).
func ToUserResponse(u *entity.User) *UserResponse {
	if u == nil {
		return nil
	}
	addresses := make([]AddressResponse, 0, len(u.Addresses))
	for _, a := range u.Addresses {
		addresses = append(addresses, ToAddressResponse(a))
	}
	dob := ""
	if !u.DateOfBirth.IsZero() {
		dob = u.DateOfBirth.Format(DateLayout)
	}
	return &UserResponse{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		DateOfBirth: dob,
		Email:       u.Email,
		Roles:       u.RoleNames(),
		Addresses:   addresses,
		CreatedAt:   u.CreatedAt,
	}
}

// ToAddressResponse convierte una dirección.
func ToAddressResponse(a entity.Address) AddressResponse {
	return AddressResponse{
		ID:          a.ID,
		CountryID:   a.CountryID,
		CountryName: a.CountryName,
		City:        a.City,
		PostalCode:  a.PostalCode,
		Street:      a.Street,
		House:       a.House,
		Apartment:   a.Apartment,
	}
}

// ToOrderResponse convierte un pedido con sus líneas.
func ToOrderResponse(o *entity.Order) *OrderResponse {
	if o == nil {
		return nil
	}
	lines := make([]OrderProductResponse, 0, len(o.Products))
	for _, l := range o.Products {
		lines = append(lines, OrderProductResponse{
			ProductID:    l.ProductID,
			ProductName:  l.ProductName,
			Quantity:     l.Quantity,
			SellingPrice: l.SellingPrice,
			TotalPrice:   l.CalculateTotalSellingPrice(),
		})
	}
	return &OrderResponse{
		ID:                    o.ID,
		Number:                o.Number,
		CreatedAt:             o.CreatedAt,
		PaymentMethod:         string(o.PaymentMethod),
		PaymentStatus:         string(o.PaymentStatus),
		ShippingMethod:        string(o.ShippingMethod),
		Status:                string(o.Status),
		TotalSellingPrice:     o.TotalSellingPrice,
		TotalNumberOfProducts: o.TotalNumberOfProducts(),
		UserID:                o.UserID,
		UserEmail:             o.UserEmail,
		AddressID:             o.AddressID,
		ShippingAddress:       o.ShippingAddress,
		Products:              lines,
	}
}

// ToOrderResponses convierte una lista de pedidos.
func ToOrderResponses(list []*entity.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, *ToOrderResponse(o))
	}
	return out
}
