package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Estore-api/internal/application/usecase"
)

// CompanyHandler datos públicos de la tienda.
type CompanyHandler struct {
	uc *usecase.CompanyUseCase
}

// NewCompanyHandler construye el handler.
func NewCompanyHandler(uc *usecase.CompanyUseCase) *CompanyHandler {
	return &CompanyHandler{uc: uc}
}

// Info godoc
// @Summary      Datos de la empresa vendedora
// @Tags         company
// @Produce      json
// @Success      200  {object}  dto.CompanyResponse
// @Router       /api/company [get]
func (h *CompanyHandler) Info(c *fiber.Ctx) error {
	return c.JSON(h.uc.Info())
}
