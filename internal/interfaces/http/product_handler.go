package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Estore-api/internal/application/dto"
	"github.com/jhoicas/Estore-api/internal/application/usecase"
)

// attrQueryPrefix prefijo de los filtros de atributo en la búsqueda: ?attr.Color=Negro
const attrQueryPrefix = "attr."

// ProductHandler catálogo de productos y sus atributos.
type ProductHandler struct {
	uc         *usecase.ProductUseCase
	attributes *usecase.AttributeUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase, attributes *usecase.AttributeUseCase) *ProductHandler {
	return &ProductHandler{uc: uc, attributes: attributes}
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.ProductRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	requestLog(c).Info().Str("product_id", out.ID).Msg("producto creado")
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar productos
// @Description  Sin category_id lista todo el catálogo (mayor stock primero); una carpeta incluye sus hojas.
// @Tags         products
// @Produce      json
// @Param        category_id  query  string  false  "ID de categoría"
// @Success      200          {array}  dto.ProductResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var (
		out []dto.ProductResponse
		err error
	)
	if categoryID := c.Query("category_id"); categoryID != "" {
		out, err = h.uc.ListByCategory(c.UserContext(), categoryID)
	} else {
		out, err = h.uc.ListAll(c.UserContext())
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Search godoc
// @Summary      Buscar productos
// @Description  Nombre parcial, categoría opcional y filtros attr.<nombre>=<valor> ("All" no filtra).
// @Tags         products
// @Produce      json
// @Param        name         query  string  false  "Nombre parcial"
// @Param        category_id  query  string  false  "ID de categoría"
// @Success      200          {array}  dto.ProductResponse
// @Failure      400          {object}  dto.ErrorResponse
// @Router       /api/products/search [get]
func (h *ProductHandler) Search(c *fiber.Ctx) error {
	in := dto.ProductSearchRequest{
		Name:       c.Query("name"),
		CategoryID: c.Query("category_id"),
		Attributes: map[string]string{},
	}
	for k, v := range c.Queries() {
		if name := strings.TrimPrefix(k, attrQueryPrefix); name != k && name != "" {
			in.Attributes[name] = v
		}
	}
	out, err := h.uc.Search(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Top godoc
// @Summary      Productos más vendidos
// @Tags         products
// @Produce      json
// @Success      200  {array}  dto.TopProductResponse
// @Router       /api/products/top [get]
func (h *ProductHandler) Top(c *fiber.Ctx) error {
	list, err := h.uc.TopSelling(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToTopProductResponses(list))
}

// Update godoc
// @Summary      Actualizar producto
// @Description  Un precio de compra distinto del vigente se agrega al historial.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID del producto"
// @Param        body  body  dto.ProductRequest  true  "Datos del producto"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.ProductRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListAttributes godoc
// @Summary      Atributos del producto
// @Tags         products
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {array}  dto.ProductAttributeResponse
// @Router       /api/products/{id}/attributes [get]
func (h *ProductHandler) ListAttributes(c *fiber.Ctx) error {
	out, err := h.attributes.ListForProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// AddAttribute godoc
// @Summary      Agregar atributo al producto
// @Description  Crea el atributo si no existe (nombre sin distinguir mayúsculas) y lo vincula con valor vacío.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del producto"
// @Param        body  body  dto.AddAttributeRequest  true  "Nombre del atributo"
// @Success      201   {array}   dto.ProductAttributeResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/attributes [post]
func (h *ProductHandler) AddAttribute(c *fiber.Ctx) error {
	var in dto.AddAttributeRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.attributes.AddToProduct(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateAttributes godoc
// @Summary      Asignar valores de atributos
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                            true  "ID del producto"
// @Param        body  body  dto.UpdateAttributeValuesRequest  true  "nombre→valor"
// @Success      200   {array}   dto.ProductAttributeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/attributes [put]
func (h *ProductHandler) UpdateAttributes(c *fiber.Ctx) error {
	var in dto.UpdateAttributeValuesRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.attributes.UpdateValues(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RemoveAttribute godoc
// @Summary      Quitar atributo del producto
// @Tags         products
// @Security     Bearer
// @Param        id           path  string  true  "ID del producto"
// @Param        attributeId  path  string  true  "ID del atributo"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/attributes/{attributeId} [delete]
func (h *ProductHandler) RemoveAttribute(c *fiber.Ctx) error {
	if err := h.attributes.RemoveFromProduct(c.UserContext(), c.Params("id"), c.Params("attributeId")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
