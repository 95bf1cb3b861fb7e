package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/alnatural-api/internal/application/dto"
)

// MsgInvalidData mensaje de error de validación de cuerpos.
const MsgInvalidData = "Datos inválidos"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Reportar violaciones con el nombre JSON del campo.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// parseBody decodifica el JSON en dst. Si falla responde 400 y devuelve false.
func parseBody(c *fiber.Ctx, dst any) (bool, error) {
	if err := c.BodyParser(dst); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: MsgInvalidData})
	}
	return true, nil
}

// validateBody valida dst con las etiquetas validate. Si falla responde 400
// con la lista de violaciones y devuelve false.
func validateBody(c *fiber.Ctx, dst any) (bool, error) {
	err := validate.Struct(dst)
	if err == nil {
		return true, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: MsgInvalidData})
	}
	details := make([]dto.FieldViolation, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, dto.FieldViolation{Field: fe.Field(), Rule: fe.Tag(), Param: fe.Param()})
	}
	return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: MsgInvalidData, Details: details})
}
