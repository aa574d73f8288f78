package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Estore-api/internal/application/dto"
)

// RequireRole devuelve un middleware Fiber que exige al menos uno de los roles indicados.
// Debe usarse DESPUÉS de AuthMiddleware (necesita LocalRoles).
//
// Comportamiento:
//   - 401 Unauthorized → el token no trae roles.
//   - 403 Forbidden    → ninguno de los roles del token está permitido.
func RequireRole(allowed ...string) fiber.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, r := range allowed {
		set[r] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		roles := GetRoles(c)
		if len(roles) == 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "MISSING_ROLE",
				Message: "el token no incluye roles",
			})
		}
		for _, r := range roles {
			if _, ok := set[r]; ok {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Code:    "FORBIDDEN",
			Message: "el rol del usuario no tiene acceso a este recurso",
		})
	}
}
