package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")

	ErrCategoryHasProducts = errors.New("la categoría no puede eliminarse mientras tenga productos")
	ErrCategoryNotLeaf     = errors.New("los productos solo pueden asignarse a categorías hoja")
	ErrParentNotFolder     = errors.New("la categoría padre debe ser una carpeta")
	ErrMeasureUnitsInUse   = errors.New("la unidad de medida está asignada a productos")
	ErrReserveFailed       = errors.New("no hay stock suficiente para reservar el carrito")
	ErrReservationExpired  = errors.New("la reserva del carrito ha expirado")
	ErrNoReservation       = errors.New("no existe una reserva activa")
	ErrEmptyCart           = errors.New("el carrito está vacío")
	ErrPaymentDeclined     = errors.New("pago rechazado")
	ErrInvalidPeriod       = errors.New("la fecha inicial debe ser anterior a la final")
	ErrWrongPassword       = errors.New("la contraseña actual no coincide")
)

// RowError error de validación de una fila de la lista de precios (1-based, sin contar cabecera).
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("datos inválidos en la fila %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }
