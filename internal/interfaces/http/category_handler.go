package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Estore-api/internal/application/dto"
	"github.com/jhoicas/Estore-api/internal/application/usecase"
)

// CategoryHandler árbol de categorías y atributos por categoría.
type CategoryHandler struct {
	uc         *usecase.CategoryUseCase
	attributes *usecase.AttributeUseCase
}

// NewCategoryHandler construye el handler.
func NewCategoryHandler(uc *usecase.CategoryUseCase, attributes *usecase.AttributeUseCase) *CategoryHandler {
	return &CategoryHandler{uc: uc, attributes: attributes}
}

// List godoc
// @Summary      Listar categorías
// @Description  Sin parámetros devuelve las raíces con su subárbol; leaves=true devuelve solo las hojas.
// @Tags         categories
// @Produce      json
// @Param        leaves  query  bool  false  "Solo categorías hoja"
// @Success      200     {array}  dto.CategoryResponse
// @Router       /api/categories [get]
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	var (
		out []dto.CategoryResponse
		err error
	)
	if c.QueryBool("leaves", false) {
		out, err = h.uc.ListLeaves(c.UserContext())
	} else {
		out, err = h.uc.ListTopLevel(c.UserContext())
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener categoría con su subárbol
// @Tags         categories
// @Produce      json
// @Param        id   path  string  true  "ID de la categoría"
// @Success      200  {object}  dto.CategoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [get]
func (h *CategoryHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Attributes godoc
// @Summary      Atributos de la categoría con sus valores
// @Tags         categories
// @Produce      json
// @Param        id   path  string  true  "ID de la categoría"
// @Success      200  {array}   dto.AttributeValuesResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categories/{id}/attributes [get]
func (h *CategoryHandler) Attributes(c *fiber.Ctx) error {
	out, err := h.attributes.WithValues(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear categoría o carpeta
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CategoryRequest  true  "Nombre, tipo y padre"
// @Success      201   {object}  dto.CategoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/categories [post]
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Rename godoc
// @Summary      Renombrar categoría
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID de la categoría"
// @Param        body  body  dto.RenameRequest   true  "Nuevo nombre"
// @Success      200   {object}  dto.CategoryResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [put]
func (h *CategoryHandler) Rename(c *fiber.Ctx) error {
	var in dto.RenameRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Rename(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar categoría y su subárbol
// @Tags         categories
// @Security     Bearer
// @Param        id   path  string  true  "ID de la categoría"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MeasureUnitsHandler unidades de medida.
type MeasureUnitsHandler struct {
	uc *usecase.MeasureUnitsUseCase
}

// NewMeasureUnitsHandler construye el handler.
func NewMeasureUnitsHandler(uc *usecase.MeasureUnitsUseCase) *MeasureUnitsHandler {
	return &MeasureUnitsHandler{uc: uc}
}

// List godoc
// @Summary      Listar unidades de medida
// @Tags         measure-units
// @Produce      json
// @Success      200  {array}  dto.MeasureUnitsResponse
// @Router       /api/measure-units [get]
func (h *MeasureUnitsHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear unidad de medida
// @Tags         measure-units
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RenameRequest  true  "Nombre"
// @Success      201   {object}  dto.MeasureUnitsResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/measure-units [post]
func (h *MeasureUnitsHandler) Create(c *fiber.Ctx) error {
	var in dto.RenameRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Rename godoc
// @Summary      Renombrar unidad de medida
// @Tags         measure-units
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID"
// @Param        body  body  dto.RenameRequest  true  "Nombre"
// @Success      200   {object}  dto.MeasureUnitsResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/measure-units/{id} [put]
func (h *MeasureUnitsHandler) Rename(c *fiber.Ctx) error {
	var in dto.RenameRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Rename(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar unidad de medida sin productos
// @Tags         measure-units
// @Security     Bearer
// @Param        id   path  string  true  "ID"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/measure-units/{id} [delete]
func (h *MeasureUnitsHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
