package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Estore-api/internal/application/dto"
	"github.com/jhoicas/Estore-api/internal/application/usecase"
)

// OrderHandler consulta y estado de pedidos.
type OrderHandler struct {
	uc *usecase.OrderUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *usecase.OrderUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// MyOrders godoc
// @Summary      Pedidos del usuario autenticado
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.OrderResponse
// @Router       /api/my-orders [get]
func (h *OrderHandler) MyOrders(c *fiber.Ctx) error {
	out, err := h.uc.ListForUser(c.UserContext(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener pedido
// @Description  Solo el dueño o un gerente.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), viewer(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Search godoc
// @Summary      Buscar pedidos
// @Description  Sin fechas: últimas dos semanas. Orden por defecto: ID DESC.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        order_number    query  int     false  "Número de pedido"
// @Param        start_date      query  string  false  "Desde (YYYY-MM-DD)"
// @Param        end_date        query  string  false  "Hasta, inclusive (YYYY-MM-DD)"
// @Param        email           query  string  false  "Email del cliente"
// @Param        min_price       query  string  false  "Total mínimo"
// @Param        max_price       query  string  false  "Total máximo"
// @Param        status          query  string  false  "AWAITING_DELIVERY | DISPATCHED | DELIVERED"
// @Param        sort_by         query  string  false  "ID | DATE | EMAIL | PRICE"
// @Param        sort_direction  query  string  false  "ASC | DESC"
// @Success      200             {array}   dto.OrderResponse
// @Failure      400             {object}  dto.ErrorResponse
// @Router       /api/orders [get]
func (h *OrderHandler) Search(c *fiber.Ctx) error {
	var in dto.OrderSearchRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros de búsqueda inválidos"})
	}
	out, err := h.uc.Search(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Cambiar estado logístico del pedido
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID del pedido"
// @Param        body  body  dto.UpdateOrderStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.OrderResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateOrderStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateStatus(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	requestLog(c).Info().Str("order_id", out.ID).Str("status", out.Status).Msg("estado del pedido actualizado")
	return c.JSON(out)
}
