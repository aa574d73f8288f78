package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Estore-api/internal/application/analytics"
	"github.com/jhoicas/Estore-api/internal/application/dto"
)

// ReportHandler reportes del gerente: ganancia por período y rankings.
type ReportHandler struct {
	uc *appanalytics.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *appanalytics.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Dashboard devuelve la ganancia de los últimos seis meses y ambos rankings.
// GET /api/reports/dashboard
//
// No requiere parámetros; las fechas se calculan en el servidor.
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.uc.Dashboard(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Monthly godoc
// @Summary      Ganancia mensual
// @Description  Un bucket por mes desde end hacia start; start debe ser anterior a end.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        start  query  string  true  "Desde (YYYY-MM-DD)"
// @Param        end    query  string  true  "Hasta (YYYY-MM-DD)"
// @Success      200    {object}  dto.RevenueResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/reports/revenue/monthly [get]
func (h *ReportHandler) Monthly(c *fiber.Ctx) error {
	out, err := h.uc.MonthlyRevenue(c.UserContext(), period(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Weekly godoc
// @Summary      Ganancia semanal
// @Description  Semanas de lunes a domingo, identificadas por su domingo, la más reciente primero.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        start  query  string  true  "Desde (YYYY-MM-DD)"
// @Param        end    query  string  true  "Hasta (YYYY-MM-DD)"
// @Success      200    {object}  dto.RevenueResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/reports/revenue/weekly [get]
func (h *ReportHandler) Weekly(c *fiber.Ctx) error {
	out, err := h.uc.WeeklyRevenue(c.UserContext(), period(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// TopProducts godoc
// @Summary      Ranking de productos más vendidos
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.TopProductResponse
// @Router       /api/reports/top-products [get]
func (h *ReportHandler) TopProducts(c *fiber.Ctx) error {
	out, err := h.uc.TopProducts(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// TopClients godoc
// @Summary      Ranking de clientes por total comprado
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Tamaño del ranking"  default(10)
// @Success      200    {array}  dto.ClientTotalResponse
// @Router       /api/reports/top-clients [get]
func (h *ReportHandler) TopClients(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	if limit > 100 {
		limit = 100
	}
	out, err := h.uc.TopClients(c.UserContext(), limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func period(c *fiber.Ctx) dto.PeriodRequest {
	return dto.PeriodRequest{Start: c.Query("start"), End: c.Query("end")}
}
