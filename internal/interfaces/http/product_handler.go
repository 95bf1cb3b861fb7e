package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/alnatural-api/internal/application/catalog"
	"github.com/jhoicas/alnatural-api/internal/application/dto"
	"github.com/jhoicas/alnatural-api/internal/domain"
)

// ProductHandler catálogo público y edición de precios.
type ProductHandler struct {
	uc  *catalog.CatalogUseCase
	log zerolog.Logger
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *catalog.CatalogUseCase, log zerolog.Logger) *ProductHandler {
	return &ProductHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Catálogo de productos
// @Description  Los precios solo se incluyen con un token válido (cuenta o código de acceso).
// @Tags         products
// @Produce      json
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	p := GetPrincipal(c)
	out, err := h.uc.List(c.UserContext(), p.IsUser() || p.IsAccess())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// UpdatePrice godoc
// @Summary      Actualizar precio de un producto
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateProductPriceRequest  true  "productId, newPrice"
// @Success      200   {object}  dto.UpdateProductPriceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/admin/products/price [put]
func (h *ProductHandler) UpdatePrice(c *fiber.Ctx) error {
	var in dto.UpdateProductPriceRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	if ok, err := validateBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.UpdatePrice(c.UserContext(), in)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "PRODUCT_NOT_FOUND", Message: "Producto no encontrado"})
		}
		if !errors.Is(err, domain.ErrInvalidInput) && !errors.Is(err, domain.ErrPriceOutOfRange) {
			h.log.Error().Err(err).Str("product_id", in.ProductID).Msg("no se pudo actualizar el precio")
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "Error al actualizar el precio"})
		}
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
