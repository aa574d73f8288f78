package http

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Estore-api/internal/application/usecase"
)

// PriceListHandler exportación e importación CSV del catálogo.
type PriceListHandler struct {
	uc *usecase.PriceListUseCase
}

// NewPriceListHandler construye el handler.
func NewPriceListHandler(uc *usecase.PriceListUseCase) *PriceListHandler {
	return &PriceListHandler{uc: uc}
}

// Export godoc
// @Summary      Exportar lista de precios
// @Tags         pricelist
// @Security     Bearer
// @Produce      text/csv
// @Success      200  {file}  binary
// @Router       /api/pricelist [get]
func (h *PriceListHandler) Export(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.uc.Export(c.UserContext(), &buf); err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="pricelist-%s.csv"`, time.Now().Format("20060102")))
	return c.Send(buf.Bytes())
}

// Import godoc
// @Summary      Importar lista de precios
// @Description  Filas con ID vacío se crean, el resto se actualiza. La primera fila inválida cancela toda la importación.
// @Tags         pricelist
// @Security     Bearer
// @Accept       text/csv
// @Produce      json
// @Success      200  {object}  dto.PriceListImportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/pricelist [post]
func (h *PriceListHandler) Import(c *fiber.Ctx) error {
	out, err := h.uc.Import(c.UserContext(), bytes.NewReader(c.Body()))
	if err != nil {
		return respondError(c, err)
	}
	requestLog(c).Info().Int("created", out.Created).Int("updated", out.Updated).Msg("lista de precios importada")
	return c.JSON(out)
}
