package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderSearchRequest criterios de búsqueda de pedidos (query params).
// Fechas vacías: últimas dos semanas. Orden por defecto: ID DESC.
type OrderSearchRequest struct {
	OrderNumber   int64  `query:"order_number" validate:"min=0"`
	StartDate     string `query:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate       string `query:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Email         string `query:"email" validate:"omitempty,max=100"`
	MinPrice      string `query:"min_price" validate:"omitempty,numeric"`
	MaxPrice      string `query:"max_price" validate:"omitempty,numeric"`
	Status        string `query:"status" validate:"omitempty,oneof=AWAITING_DELIVERY DISPATCHED DELIVERED"`
	SortBy        string `query:"sort_by" validate:"omitempty,oneof=ID DATE EMAIL PRICE"`
	SortDirection string `query:"sort_direction" validate:"omitempty,oneof=ASC DESC"`
}

// UpdateOrderStatusRequest cambio de estado logístico.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=AWAITING_DELIVERY DISPATCHED DELIVERED"`
}

// OrderProductResponse línea del pedido.
type OrderProductResponse struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	Quantity     int             `json:"quantity"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	TotalPrice   decimal.Decimal `json:"total_price"`
}

// OrderResponse salida de un pedido.
type OrderResponse struct {
	ID                    string                 `json:"id"`
	Number                int64                  `json:"number"`
	CreatedAt             time.Time              `json:"created_at"`
	PaymentMethod         string                 `json:"payment_method"`
	PaymentStatus         string                 `json:"payment_status"`
	ShippingMethod        string                 `json:"shipping_method"`
	Status                string                 `json:"status"`
	TotalSellingPrice     decimal.Decimal        `json:"total_selling_price"`
	TotalNumberOfProducts int                    `json:"total_number_of_products"`
	UserID                string                 `json:"user_id"`
	UserEmail             string                 `json:"user_email"`
	AddressID             string                 `json:"address_id,omitempty"`
	ShippingAddress       string                 `json:"shipping_address,omitempty"`
	Products              []OrderProductResponse `json:"products"`
}

// CartItemRequest agrega un producto al carrito.
type CartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1,max=1000"`
}

// CartQuantityRequest fija la cantidad de una línea; 0 la elimina.
type CartQuantityRequest struct {
	Quantity int `json:"quantity" validate:"min=0,max=1000"`
}

// CartLineResponse línea del carrito con datos actuales del producto.
type CartLineResponse struct {
	ProductID       string          `json:"product_id"`
	Name            string          `json:"name"`
	ImageURL        string          `json:"image_url"`
	SellingPrice    decimal.Decimal `json:"selling_price"`
	Quantity        int             `json:"quantity"`
	QuantityInStock int             `json:"quantity_in_stock"`
	TotalPrice      decimal.Decimal `json:"total_price"`
}

// ReservationResponse reserva de stock activa.
type ReservationResponse struct {
	ID          string    `json:"id"`
	ExpiresAt   time.Time `json:"expires_at"`
	SecondsLeft int       `json:"seconds_left"`
}

// CartResponse carrito con totales.
type CartResponse struct {
	Lines                 []CartLineResponse   `json:"lines"`
	TotalNumberOfProducts int                  `json:"total_number_of_products"`
	OrderPrice            decimal.Decimal      `json:"order_price"`
	Reservation           *ReservationResponse `json:"reservation,omitempty"`
}

// CardRequest datos de tarjeta para pago CARD.
type CardRequest struct {
	Number     string `json:"number" validate:"required,numeric,len=16"`
	HolderName string `json:"holder_name" validate:"required,max=70"`
	CVV        string `json:"cvv" validate:"required,numeric,len=3"`
	ExpMonth   int    `json:"exp_month" validate:"required,min=1,max=12"`
	ExpYear    int    `json:"exp_year" validate:"required,min=2000,max=2100"`
}

// CheckoutRequest confirma el carrito reservado.
type CheckoutRequest struct {
	PaymentMethod  string       `json:"payment_method" validate:"required,oneof=CARD CASH"`
	ShippingMethod string       `json:"shipping_method" validate:"required,oneof=DELIVERY PICKUP"`
	AddressID      string       `json:"address_id" validate:"required_if=ShippingMethod DELIVERY"`
	Card           *CardRequest `json:"card" validate:"required_if=PaymentMethod CARD"`
}

// PeriodRequest período de un reporte (fechas de calendario).
type PeriodRequest struct {
	Start string `query:"start" validate:"required,datetime=2006-01-02"`
	End   string `query:"end" validate:"required,datetime=2006-01-02"`
}

// RevenueBucketResponse ganancia de un mes o semana.
type RevenueBucketResponse struct {
	Period  string          `json:"period"`
	Revenue decimal.Decimal `json:"revenue"`
}

// RevenueResponse reporte de ganancia, el período más reciente primero.
type RevenueResponse struct {
	Granularity string                  `json:"granularity"` // month | week
	Start       string                  `json:"start"`
	End         string                  `json:"end"`
	Total       decimal.Decimal         `json:"total"`
	Buckets     []RevenueBucketResponse `json:"buckets"`
}

// DashboardResponse resumen para el panel del gerente.
type DashboardResponse struct {
	Monthly     RevenueResponse       `json:"monthly"`
	TopProducts []TopProductResponse  `json:"top_products"`
	TopClients  []ClientTotalResponse `json:"top_clients"`
}

// PriceListImportResponse resultado de la importación de la lista de precios.
type PriceListImportResponse struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}
