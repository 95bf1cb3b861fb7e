package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/alnatural-api/internal/application/access"
	"github.com/jhoicas/alnatural-api/internal/application/dto"
	"github.com/jhoicas/alnatural-api/internal/domain"
)

// AccessHandler validación de códigos de acceso y vínculos de cuentas.
type AccessHandler struct {
	uc      *access.AccessUseCase
	metrics Observer
	log     zerolog.Logger
}

// NewAccessHandler construye el handler. metrics puede ser nil.
func NewAccessHandler(uc *access.AccessUseCase, metrics Observer, log zerolog.Logger) *AccessHandler {
	return &AccessHandler{uc: uc, metrics: orNop(metrics), log: log}
}

// Validate godoc
// @Summary      Validar código de acceso
// @Description  Un código rechazado responde 200 con valid=false y el motivo.
// @Tags         access
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ValidateAccessCodeRequest  true  "código"
// @Success      200   {object}  dto.ValidateAccessCodeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      429   {object}  dto.ErrorResponse
// @Router       /api/access-codes/validate [post]
func (h *AccessHandler) Validate(c *fiber.Ctx) error {
	var in dto.ValidateAccessCodeRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Validate(c.UserContext(), in.Code)
	if err != nil {
		return writeError(c, h.log, err)
	}
	h.metrics.ObserveValidation(out.Valid)
	return c.JSON(out)
}

// LinkClient godoc
// @Summary      Vincular cuenta a un cliente por código
// @Tags         access
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LinkClientRequest  true  "accessCode"
// @Success      200   {object}  dto.LinkClientResponse
// @Failure      400   {object}  dto.LinkClientResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/clients/link [post]
func (h *AccessHandler) LinkClient(c *fiber.Ctx) error {
	var in dto.LinkClientRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	if ok, err := validateBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.LinkClient(c.UserContext(), GetUserID(c), in.AccessCode)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAccessCode) && out != nil {
			return c.Status(fiber.StatusBadRequest).JSON(out)
		}
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// LinkUserClient godoc
// @Summary      Vincular cuenta a un cliente por id
// @Tags         access
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LinkUserClientRequest  true  "client_id"
// @Success      200   {object}  dto.LinkUserClientResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/clients/link-user [post]
func (h *AccessHandler) LinkUserClient(c *fiber.Ctx) error {
	var in dto.LinkUserClientRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	if ok, err := validateBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.LinkUserClient(c.UserContext(), GetUserID(c), in.ClientID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "CLIENT_NOT_FOUND", Message: "Cliente no encontrado"})
		case errors.Is(err, access.ErrEmailMismatch):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "EMAIL_MISMATCH",
				Message: "Tu cuenta no corresponde a este cliente. Usa su código de acceso",
			})
		}
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
