package orders

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/alnatural-api/internal/application/auth"
	"github.com/jhoicas/alnatural-api/internal/application/dto"
	"github.com/jhoicas/alnatural-api/internal/application/ports"
	"github.com/jhoicas/alnatural-api/internal/domain"
	"github.com/jhoicas/alnatural-api/internal/domain/entity"
	"github.com/jhoicas/alnatural-api/internal/domain/repository"
)

// MsgOrderCreated mensaje de respuesta de un pedido registrado.
const MsgOrderCreated = "Pedido creado exitosamente"

// Canales de notificación.
const (
	ChannelWhatsApp = "whatsapp"
	ChannelEmail    = "email"
)

// OrderTxRunner ejecuta fn dentro de una transacción con el repo de pedidos.
type OrderTxRunner interface {
	RunOrder(ctx context.Context, fn func(orders repository.OrderRepository) error) error
}

// ClientResolver resuelve el cliente por el que actúa una sesión.
type ClientResolver interface {
	ClientForPrincipal(ctx context.Context, p auth.Principal) (*entity.Client, error)
}

// Warning fallo de un efecto secundario que no invalida el pedido.
type Warning struct {
	Channel string
	Err     error
}

func (w Warning) String() string {
	return w.Channel + ": no se pudo enviar la notificación"
}

// NotificationObserver recibe el resultado de cada notificación (métricas).
type NotificationObserver func(channel string, err error)

// Deps dependencias del caso de uso. Forwarder, Messenger, Mailer y Receipts son opcionales.
type Deps struct {
	Tx        OrderTxRunner
	Orders    repository.OrderRepository
	Resolver  ClientResolver
	Forwarder ports.OrderForwarder
	Messenger ports.Messenger
	Mailer    ports.Mailer
	Receipts  ports.ReceiptRenderer
	Observer  NotificationObserver
	Log       zerolog.Logger
}

// OrdersUseCase registro de pedidos y comprobantes.
type OrdersUseCase struct {
	deps  Deps
	now   func() time.Time
	newID func() string
}

// NewOrdersUseCase construye el caso de uso.
func NewOrdersUseCase(deps Deps) *OrdersUseCase {
	return &OrdersUseCase{
		deps:  deps,
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
}

// PlaceOrder registra un pedido del cliente de la sesión.
//
// Orden de efectos:
//  1. validación de ítems y notas (sin efectos);
//  2. resolución del cliente vinculado;
//  3. cálculo del total;
//  4. efectos duros en una transacción: inserción en base de datos y, si está
//     configurado, reenvío al dashboard; cualquier fallo revierte todo;
//  5. efectos blandos: WhatsApp y correo al cliente; sus fallos se devuelven como Warnings.
func (uc *OrdersUseCase) PlaceOrder(ctx context.Context, p auth.Principal, in dto.PlaceOrderRequest) (*dto.PlaceOrderResponse, error) {
	if in.Items == nil {
		return nil, fmt.Errorf("%w: se requiere el arreglo items", domain.ErrInvalidInput)
	}
	items := FilterItems(in.Items)
	if len(items) == 0 {
		return nil, domain.ErrNoValidItems
	}
	notes := NormalizeNotes(in.Notes)

	client, err := uc.deps.Resolver.ClientForPrincipal(ctx, p)
	if err != nil {
		return nil, err
	}

	order := &entity.Order{
		ID:        uc.newID(),
		ClientID:  client.ID,
		Status:    entity.OrderStatusPending,
		Notes:     notes,
		CreatedAt: uc.now(),
	}
	if p.IsUser() {
		order.UserID = p.UserID
	}
	for _, it := range items {
		it.ID = uc.newID()
		it.OrderID = order.ID
		order.Items = append(order.Items, it)
	}
	order.TotalAmount = order.ComputeTotal()

	err = uc.deps.Tx.RunOrder(ctx, func(orders repository.OrderRepository) error {
		if err := orders.Create(ctx, order); err != nil {
			return fmt.Errorf("guardar pedido: %w", err)
		}
		if uc.deps.Forwarder != nil {
			if err := uc.deps.Forwarder.ForwardOrder(ctx, dashboardPayload(order, client)); err != nil {
				return fmt.Errorf("%w: dashboard: %w", domain.ErrDependency, err)
			}
		}
		return nil
	})
	if err != nil {
		uc.deps.Log.Error().Err(err).Str("client_id", client.ID).Msg("pedido no registrado")
		return nil, err
	}
	uc.deps.Log.Info().
		Str("order_id", order.ID).
		Str("client_id", client.ID).
		Str("total", order.TotalAmount.StringFixed(2)).
		Int("items", len(order.Items)).
		Msg("pedido registrado")

	warnings := uc.notify(ctx, order, client)

	out := &dto.PlaceOrderResponse{
		Success: true,
		OrderID: order.ID,
		Message: MsgOrderCreated,
		Order:   toOrderSummary(order),
	}
	for _, w := range warnings {
		out.Warnings = append(out.Warnings, w.String())
	}
	return out, nil
}

// notify ejecuta los efectos blandos; nunca devuelve error.
func (uc *OrdersUseCase) notify(ctx context.Context, o *entity.Order, c *entity.Client) []Warning {
	var warnings []Warning
	record := func(channel string, err error) {
		if uc.deps.Observer != nil {
			uc.deps.Observer(channel, err)
		}
		if err != nil {
			uc.deps.Log.Warn().Err(err).Str("order_id", o.ID).Str("channel", channel).Msg("notificación no enviada")
			warnings = append(warnings, Warning{Channel: channel, Err: err})
		}
	}

	if uc.deps.Messenger != nil && c.Phone != "" {
		record(ChannelWhatsApp, uc.deps.Messenger.SendText(ctx, c.Phone, BuildOrderNotification(o, c)))
	}
	if uc.deps.Mailer != nil && c.Email != "" {
		record(ChannelEmail, uc.sendConfirmation(ctx, o, c))
	}
	return warnings
}

func (uc *OrdersUseCase) sendConfirmation(ctx context.Context, o *entity.Order, c *entity.Client) error {
	msg := ports.MailMessage{
		To:       c.Email,
		ToName:   c.Name,
		Subject:  "Pedido #" + ShortID(o.ID) + " recibido - Al Natural",
		TextBody: confirmationText(o, c),
		HTMLBody: "<pre>" + html.EscapeString(confirmationText(o, c)) + "</pre>",
	}
	if uc.deps.Receipts != nil {
		pdf, err := uc.deps.Receipts.RenderOrderReceipt(o, c)
		if err != nil {
			return fmt.Errorf("generar comprobante: %w", err)
		}
		msg.Attachments = append(msg.Attachments, ports.Attachment{
			Filename:    ReceiptFilename(o),
			ContentType: "application/pdf",
			Data:        pdf,
		})
	}
	return uc.deps.Mailer.Send(ctx, msg)
}

// ReceiptPDF genera el comprobante de un pedido del cliente de la sesión.
func (uc *OrdersUseCase) ReceiptPDF(ctx context.Context, p auth.Principal, orderID string) ([]byte, string, error) {
	if uc.deps.Receipts == nil {
		return nil, "", fmt.Errorf("%w: comprobantes PDF deshabilitados", domain.ErrDependency)
	}
	client, err := uc.deps.Resolver.ClientForPrincipal(ctx, p)
	if err != nil {
		return nil, "", err
	}
	order, err := uc.deps.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, "", fmt.Errorf("obtener pedido: %w", err)
	}
	if order == nil {
		return nil, "", domain.ErrNotFound
	}
	if order.ClientID != client.ID {
		return nil, "", domain.ErrForbidden
	}
	pdf, err := uc.deps.Receipts.RenderOrderReceipt(order, client)
	if err != nil {
		return nil, "", fmt.Errorf("generar comprobante: %w", err)
	}
	return pdf, ReceiptFilename(order), nil
}

// ReceiptFilename nombre de archivo del comprobante.
func ReceiptFilename(o *entity.Order) string {
	return "pedido-" + ShortID(o.ID) + ".pdf"
}

func dashboardPayload(o *entity.Order, c *entity.Client) ports.DashboardOrder {
	payload := ports.DashboardOrder{
		OrderID:            o.ID,
		ClientName:         c.Name,
		ClientEmail:        c.Email,
		ClientCompany:      c.Company,
		ClientPhone:        c.Phone,
		TotalAmount:        o.TotalAmount,
		Items:              make([]ports.DashboardOrderItem, 0, len(o.Items)),
		Notes:              o.Notes,
		CreatedAt:          o.CreatedAt,
		SkipInventoryCheck: true,
	}
	for _, it := range o.Items {
		payload.Items = append(payload.Items, ports.DashboardOrderItem{
			ProductID:   it.ProductID,
			ProductName: it.DisplayName(),
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TotalPrice:  it.TotalPrice,
		})
	}
	return payload
}

func toOrderSummary(o *entity.Order) dto.OrderSummary {
	out := dto.OrderSummary{
		ID:     o.ID,
		Total:  o.TotalAmount,
		Status: o.Status,
		Items:  len(o.Items),
		Lines:  make([]dto.OrderItemResponse, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		out.Lines = append(out.Lines, dto.OrderItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Variant:     it.Variant,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TotalPrice:  it.TotalPrice,
		})
	}
	return out
}
