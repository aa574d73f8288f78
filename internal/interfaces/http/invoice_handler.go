package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Estore-api/internal/application/usecase"
)

// InvoiceHandler descarga la factura PDF de un pedido.
type InvoiceHandler struct {
	uc *usecase.OrderUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *usecase.OrderUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc}
}

// Download godoc
// @Summary      Factura PDF del pedido
// @Description  Solo el dueño o un gerente. Incluye la marca PAID cuando el pedido está pagado.
// @Tags         orders
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {file}    binary
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/invoice [get]
func (h *InvoiceHandler) Download(c *fiber.Ctx) error {
	pdf, number, err := h.uc.Invoice(c.UserContext(), viewer(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="invoice-%d.pdf"`, number))
	return c.Send(pdf)
}
