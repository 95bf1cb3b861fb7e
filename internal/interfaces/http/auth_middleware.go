package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/alnatural-api/internal/application/auth"
	"github.com/jhoicas/alnatural-api/internal/application/dto"
	"github.com/jhoicas/alnatural-api/pkg/jwt"
)

// Locals key para la identidad autenticada en Fiber.
const LocalPrincipal = "principal"

// AuthMiddleware valida el Bearer Token JWT y guarda el Principal en c.Locals.
// Acepta sesiones de usuario y de código de acceso.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := bearerToken(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "No authorization header"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "Unauthorized"})
		}
		c.Locals(LocalPrincipal, auth.PrincipalFromClaims(claims))
		return c.Next()
	}
}

// OptionalAuth carga el Principal si el token es válido; si falta o es inválido
// la petición sigue como anónima.
func OptionalAuth(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tokenString, ok := bearerToken(c); ok {
			if claims, err := jwt.Parse(jwtSecret, tokenString); err == nil {
				c.Locals(LocalPrincipal, auth.PrincipalFromClaims(claims))
			}
		}
		return c.Next()
	}
}

// RequireUser exige una sesión de cuenta de usuario (no de código de acceso).
// Debe usarse DESPUÉS de AuthMiddleware.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !GetPrincipal(c).IsUser() {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "USER_SESSION_REQUIRED", Message: "Unauthorized"})
		}
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	tok := strings.TrimSpace(parts[1])
	return tok, tok != ""
}

// GetPrincipal devuelve la identidad de la petición; vacía si es anónima.
func GetPrincipal(c *fiber.Ctx) auth.Principal {
	p, _ := c.Locals(LocalPrincipal).(auth.Principal)
	return p
}

// GetUserID devuelve el UserID de una sesión de usuario; "" en otro caso.
func GetUserID(c *fiber.Ctx) string {
	return GetPrincipal(c).UserID
}
