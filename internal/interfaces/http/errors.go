package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/alnatural-api/internal/application/dto"
	"github.com/jhoicas/alnatural-api/internal/domain"
)

// writeError traduce errores de dominio a respuestas HTTP. Los errores no
// reconocidos se registran y se devuelven como 500 sin detalles internos.
func writeError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	status, body := mapError(err)
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Int("status", status).Msg("error atendiendo petición")
	}
	return c.Status(status).JSON(body)
}

func mapError(err error) (int, dto.ErrorResponse) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: MsgInvalidData}
	case errors.Is(err, domain.ErrNoValidItems):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "NO_VALID_ITEMS", Message: "Se requiere al menos un producto válido"}
	case errors.Is(err, domain.ErrPriceOutOfRange):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "PRICE_OUT_OF_RANGE", Message: "El precio debe estar entre $0 y $1,000,000"}
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return fiber.StatusBadRequest, dto.ErrorResponse{
			Code:    "EMAIL_EXISTS",
			Message: "El email ya está registrado",
			Details: "Ya existe un cliente con este email. Por favor usa otro email.",
		}
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "DUPLICATE", Message: "El recurso ya existe"}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "Unauthorized"}
	case errors.Is(err, domain.ErrNoLinkedClient):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "NO_LINKED_CLIENT", Message: "Usuario no tiene un cliente asociado"}
	case errors.Is(err, domain.ErrClientInactive):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "CLIENT_INACTIVE", Message: "Cliente inactivo"}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Message: "Acceso denegado"}
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: "Recurso no encontrado"}
	case errors.Is(err, domain.ErrDependency):
		return fiber.StatusBadGateway, dto.ErrorResponse{Code: "DEPENDENCY_FAILED", Message: "No se pudo registrar el pedido. Por favor intenta nuevamente."}
	default:
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "Error interno del servidor"}
	}
}
