package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Estore-api/internal/application/checkout"
	"github.com/jhoicas/Estore-api/internal/application/dto"
)

// OrderRecorder registra pedidos confirmados (métricas).
type OrderRecorder interface {
	OrderPlaced(paymentMethod string)
}

// CartHandler carrito del usuario autenticado, reserva de stock y checkout.
type CartHandler struct {
	cart     *checkout.CartUseCase
	checkout *checkout.CheckoutUseCase
	recorder OrderRecorder
}

// NewCartHandler construye el handler. recorder puede ser nil.
func NewCartHandler(cart *checkout.CartUseCase, co *checkout.CheckoutUseCase, recorder OrderRecorder) *CartHandler {
	return &CartHandler{cart: cart, checkout: co, recorder: recorder}
}

// View godoc
// @Summary      Ver carrito
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CartResponse
// @Router       /api/cart [get]
func (h *CartHandler) View(c *fiber.Ctx) error {
	out, err := h.cart.View(c.UserContext(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// AddItem godoc
// @Summary      Agregar producto al carrito
// @Description  Si el producto ya está en el carrito se suma la cantidad.
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CartItemRequest  true  "Producto y cantidad"
// @Success      200   {object}  dto.CartResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/cart/items [post]
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	var in dto.CartItemRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.cart.Add(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SetQuantity godoc
// @Summary      Fijar cantidad de una línea
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productId  path  string                   true  "ID del producto"
// @Param        body       body  dto.CartQuantityRequest  true  "Cantidad (0 elimina la línea)"
// @Success      200        {object}  dto.CartResponse
// @Router       /api/cart/items/{productId} [put]
func (h *CartHandler) SetQuantity(c *fiber.Ctx) error {
	var in dto.CartQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.cart.SetQuantity(c.UserContext(), GetUserID(c), c.Params("productId"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RemoveItem godoc
// @Summary      Quitar producto del carrito
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200        {object}  dto.CartResponse
// @Router       /api/cart/items/{productId} [delete]
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	out, err := h.cart.Remove(c.UserContext(), GetUserID(c), c.Params("productId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Clear godoc
// @Summary      Vaciar carrito
// @Tags         cart
// @Security     Bearer
// @Success      204
// @Router       /api/cart [delete]
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	if err := h.cart.Clear(c.UserContext(), GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Repeat godoc
// @Summary      Repetir pedido
// @Description  Reemplaza el carrito con las líneas de un pedido anterior del usuario.
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Param        orderId  path  string  true  "ID del pedido"
// @Success      200      {object}  dto.CartResponse
// @Failure      404      {object}  dto.ErrorResponse
// @Router       /api/cart/repeat/{orderId} [post]
func (h *CartHandler) Repeat(c *fiber.Ctx) error {
	out, err := h.cart.Repeat(c.UserContext(), GetUserID(c), c.Params("orderId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Reserve godoc
// @Summary      Reservar el stock del carrito
// @Description  Si ya existe una reserva vigente se devuelve con los segundos restantes.
// @Tags         checkout
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ReservationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/checkout/reserve [post]
func (h *CartHandler) Reserve(c *fiber.Ctx) error {
	out, err := h.checkout.Reserve(c.UserContext(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CancelReservation godoc
// @Summary      Cancelar la reserva
// @Tags         checkout
// @Security     Bearer
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/checkout/reserve [delete]
func (h *CartHandler) CancelReservation(c *fiber.Ctx) error {
	if err := h.checkout.Cancel(c.UserContext(), GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Checkout godoc
// @Summary      Confirmar compra
// @Description  Cobra (CARD) o deja pendiente de pago (CASH) y registra el pedido con la reserva vigente.
// @Tags         checkout
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CheckoutRequest  true  "Pago, envío y dirección"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      402   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      410   {object}  dto.ErrorResponse
// @Router       /api/checkout [post]
func (h *CartHandler) Checkout(c *fiber.Ctx) error {
	var in dto.CheckoutRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.checkout.Checkout(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	if h.recorder != nil {
		h.recorder.OrderPlaced(out.PaymentMethod)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
