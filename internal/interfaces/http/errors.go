package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Estore-api/internal/application/dto"
	"github.com/jhoicas/Estore-api/internal/domain"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// errorTable traducción de errores de dominio a HTTP. El primer match gana.
var errorTable = []errorMapping{
	{domain.ErrUserNotFound, fiber.StatusNotFound, "USER_NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrWrongPassword, fiber.StatusBadRequest, "WRONG_PASSWORD"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrCategoryHasProducts, fiber.StatusConflict, "CATEGORY_HAS_PRODUCTS"},
	{domain.ErrCategoryNotLeaf, fiber.StatusBadRequest, "CATEGORY_NOT_LEAF"},
	{domain.ErrParentNotFolder, fiber.StatusBadRequest, "PARENT_NOT_FOLDER"},
	{domain.ErrMeasureUnitsInUse, fiber.StatusConflict, "MEASURE_UNITS_IN_USE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrReserveFailed, fiber.StatusConflict, "RESERVE_FAILED"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrReservationExpired, fiber.StatusGone, "RESERVATION_EXPIRED"},
	{domain.ErrNoReservation, fiber.StatusConflict, "NO_RESERVATION"},
	{domain.ErrEmptyCart, fiber.StatusBadRequest, "EMPTY_CART"},
	{domain.ErrPaymentDeclined, fiber.StatusPaymentRequired, "PAYMENT_DECLINED"},
	{domain.ErrInvalidPeriod, fiber.StatusBadRequest, "INVALID_PERIOD"},
}

// respondError escribe el error con su status y código. Los no reconocidos son 500 INTERNAL.
func respondError(c *fiber.Ctx, err error) error {
	var rowErr *domain.RowError
	if errors.As(err, &rowErr) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "PRICE_LIST_ROW", Message: rowErr.Error()})
	}
	for _, m := range errorTable {
		if errors.Is(err, m.target) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	requestLog(c).Error().Err(err).Str("path", c.Path()).Msg("error no controlado")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

// invalidBody respuesta para un cuerpo que no se pudo decodificar.
func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
