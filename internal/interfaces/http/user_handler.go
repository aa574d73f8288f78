package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Estore-api/internal/application/dto"
	"github.com/jhoicas/Estore-api/internal/application/usecase"
)

// UserHandler perfil del usuario autenticado, países y administración de usuarios.
type UserHandler struct {
	uc *usecase.UserUseCase
}

// NewUserHandler construye el handler.
func NewUserHandler(uc *usecase.UserUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// Me godoc
// @Summary      Perfil del usuario autenticado
// @Tags         me
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UserResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/me [get]
func (h *UserHandler) Me(c *fiber.Ctx) error {
	out, err := h.uc.Me(c.UserContext(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateDetails godoc
// @Summary      Actualizar datos personales
// @Tags         me
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateDetailsRequest  true  "Nombre, apellido y fecha de nacimiento"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/me [put]
func (h *UserHandler) UpdateDetails(c *fiber.Ctx) error {
	var in dto.UpdateDetailsRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateDetails(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ChangePassword godoc
// @Summary      Cambiar contraseña
// @Tags         me
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ChangePasswordRequest  true  "Contraseña actual y nueva"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/me/password [put]
func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	var in dto.ChangePasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.uc.ChangePassword(c.UserContext(), GetUserID(c), in); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "contraseña actualizada"})
}

// AddAddress godoc
// @Summary      Agregar dirección
// @Tags         me
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddressRequest  true  "Dirección"
// @Success      201   {object}  dto.AddressResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/me/addresses [post]
func (h *UserHandler) AddAddress(c *fiber.Ctx) error {
	var in dto.AddressRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.AddAddress(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateAddress godoc
// @Summary      Actualizar dirección propia
// @Tags         me
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID de la dirección"
// @Param        body  body  dto.AddressRequest  true  "Dirección"
// @Success      200   {object}  dto.AddressResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/me/addresses/{id} [put]
func (h *UserHandler) UpdateAddress(c *fiber.Ctx) error {
	var in dto.AddressRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateAddress(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RemoveAddress godoc
// @Summary      Eliminar dirección propia
// @Tags         me
// @Security     Bearer
// @Param        id   path  string  true  "ID de la dirección"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/me/addresses/{id} [delete]
func (h *UserHandler) RemoveAddress(c *fiber.Ctx) error {
	if err := h.uc.RemoveAddress(c.UserContext(), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Countries godoc
// @Summary      Listar países
// @Tags         countries
// @Produce      json
// @Success      200  {array}  dto.CountryResponse
// @Router       /api/countries [get]
func (h *UserHandler) Countries(c *fiber.Ctx) error {
	out, err := h.uc.ListCountries(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Search godoc
// @Summary      Buscar usuarios
// @Description  Coincidencia exacta en los campos informados; role_id 0 = cualquier rol.
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        first_name  query  string  false  "Nombre"
// @Param        last_name   query  string  false  "Apellido"
// @Param        email       query  string  false  "Email"
// @Param        role_id     query  int     false  "Rol"
// @Success      200         {array}  dto.UserResponse
// @Router       /api/users [get]
func (h *UserHandler) Search(c *fiber.Ctx) error {
	var in dto.UserSearchRequest
	if err := c.QueryParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Search(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GrantRole godoc
// @Summary      Asignar rol a un usuario
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        id      path  string  true  "ID del usuario"
// @Param        roleId  path  int     true  "ID del rol"
// @Success      200     {object}  dto.UserResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/users/{id}/roles/{roleId} [put]
func (h *UserHandler) GrantRole(c *fiber.Ctx) error {
	return h.updateRole(c, true)
}

// RevokeRole godoc
// @Summary      Quitar rol a un usuario
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        id      path  string  true  "ID del usuario"
// @Param        roleId  path  int     true  "ID del rol"
// @Success      200     {object}  dto.UserResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/users/{id}/roles/{roleId} [delete]
func (h *UserHandler) RevokeRole(c *fiber.Ctx) error {
	return h.updateRole(c, false)
}

func (h *UserHandler) updateRole(c *fiber.Ctx, grant bool) error {
	roleID, err := c.ParamsInt("roleId")
	if err != nil || roleID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "roleId inválido"})
	}
	out, err := h.uc.UpdateRole(c.UserContext(), c.Params("id"), roleID, grant)
	if err != nil {
		return respondError(c, err)
	}
	requestLog(c).Info().Str("user_id", out.ID).Int("role_id", roleID).Bool("grant", grant).Msg("roles actualizados")
	return c.JSON(out)
}

// Roles godoc
// @Summary      Listar roles
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.RoleResponse
// @Router       /api/roles [get]
func (h *UserHandler) Roles(c *fiber.Ctx) error {
	out, err := h.uc.ListRoles(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
