package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/alnatural-api/internal/application/dto"
)

// adminChecker contrato mínimo para verificar el rol de administrador.
// Lo implementa *auth.AuthUseCase.
type adminChecker interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

// RequireAdmin verifica en cada petición que la cuenta tenga el rol de
// administrador en user_roles. Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - 401 Unauthorized → sin sesión de usuario (p.ej. token de código de acceso).
//   - 403 Forbidden → la cuenta no tiene el rol.
//   - 503 Service Unavailable → fallo de infraestructura al consultar el rol.
func RequireAdmin(checker adminChecker, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "Unauthorized",
			})
		}

		ok, err := checker.IsAdmin(c.UserContext(), userID)
		if err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("no se pudo verificar el rol de administrador")
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "ROLE_CHECK_FAILED",
				Message: "no se pudo verificar el rol, intente más tarde",
			})
		}
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: "Forbidden - Admin access required",
			})
		}
		return c.Next()
	}
}
