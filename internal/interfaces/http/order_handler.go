package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/alnatural-api/internal/application/dto"
	"github.com/jhoicas/alnatural-api/internal/application/orders"
	"github.com/jhoicas/alnatural-api/internal/domain"
)

// OrderHandler registro de pedidos y comprobantes.
type OrderHandler struct {
	uc      *orders.OrdersUseCase
	metrics Observer
	log     zerolog.Logger
}

// NewOrderHandler construye el handler. metrics puede ser nil.
func NewOrderHandler(uc *orders.OrdersUseCase, metrics Observer, log zerolog.Logger) *OrderHandler {
	return &OrderHandler{uc: uc, metrics: orNop(metrics), log: log}
}

// Place godoc
// @Summary      Registrar pedido
// @Description  Ítems mal formados se descartan; si no queda ninguno responde 400.
// @Description  Fallos de WhatsApp o correo no invalidan el pedido y se devuelven en warnings.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PlaceOrderPayload  true  "items, notes"
// @Success      200   {object}  dto.PlaceOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	var in dto.PlaceOrderRequest
	if ok, err := parseBody(c, &in); !ok {
		h.metrics.ObserveOrder("invalid_body")
		return err
	}
	out, err := h.uc.PlaceOrder(c.UserContext(), GetPrincipal(c), in)
	if err != nil {
		h.metrics.ObserveOrder(orderFailure(err))
		return writeError(c, h.log, err)
	}
	h.metrics.ObserveOrder("created")
	return c.JSON(out)
}

// ReceiptPDF godoc
// @Summary      Comprobante PDF de un pedido
// @Tags         orders
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {file}    binary
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/pdf [get]
func (h *OrderHandler) ReceiptPDF(c *fiber.Ctx) error {
	pdf, filename, err := h.uc.ReceiptPDF(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrDependency) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "PDF_DISABLED", Message: "comprobantes no disponibles"})
		}
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(pdf)
}

func orderFailure(err error) string {
	switch {
	case errors.Is(err, domain.ErrNoValidItems), errors.Is(err, domain.ErrInvalidInput):
		return "invalid_items"
	case errors.Is(err, domain.ErrNoLinkedClient), errors.Is(err, domain.ErrClientInactive):
		return "no_client"
	case errors.Is(err, domain.ErrDependency):
		return "dependency"
	default:
		return "error"
	}
}
