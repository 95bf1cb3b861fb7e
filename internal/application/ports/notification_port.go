package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/alnatural-api/internal/domain/entity"
)

// DashboardOrder carga que recibe el webhook del dashboard de gestión.
type DashboardOrder struct {
	OrderID            string               `json:"order_id"`
	ClientName         string               `json:"client_name"`
	ClientEmail        string               `json:"client_email"`
	ClientCompany      string               `json:"client_company"`
	ClientPhone        string               `json:"client_phone"`
	TotalAmount        decimal.Decimal      `json:"total_amount"`
	Items              []DashboardOrderItem `json:"items"`
	Notes              string               `json:"notes"`
	CreatedAt          time.Time            `json:"created_at"`
	SkipInventoryCheck bool                 `json:"skip_inventory_check"`
}

// DashboardOrderItem línea de DashboardOrder.
type DashboardOrderItem struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// OrderForwarder puerto de salida hacia el dashboard de gestión. Un error aquí
// impide registrar el pedido.
type OrderForwarder interface {
	ForwardOrder(ctx context.Context, order DashboardOrder) error
}

// Messenger envía mensajes de texto por WhatsApp. to es un número en cualquier formato.
type Messenger interface {
	SendText(ctx context.Context, to, body string) error
}

// Attachment adjunto de un correo.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// MailMessage correo transaccional.
type MailMessage struct {
	To          string
	ToName      string
	Subject     string
	HTMLBody    string
	TextBody    string
	Attachments []Attachment
}

// Mailer envía correos.
type Mailer interface {
	Send(ctx context.Context, msg MailMessage) error
}

// ReceiptRenderer genera el comprobante PDF de un pedido.
type ReceiptRenderer interface {
	RenderOrderReceipt(order *entity.Order, client *entity.Client) ([]byte, error)
}
