package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de pedido.
const (
	OrderStatusPending = "pending"
)

// MaxNotesLength longitud máxima (en caracteres) de las notas de un pedido.
const MaxNotesLength = 500

// Order pedido registrado de un cliente.
type Order struct {
	ID          string
	ClientID    string
	UserID      string // vacío si el pedido se hizo con sesión de código de acceso
	TotalAmount decimal.Decimal
	Status      string
	Notes       string
	Items       []OrderItem
	CreatedAt   time.Time
}

// OrderItem línea de pedido; TotalPrice = Quantity × UnitPrice.
type OrderItem struct {
	ID          string
	OrderID     string
	ProductID   string
	ProductName string
	Variant     string
	Quantity    int
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
}

// LineTotal calcula cantidad × precio unitario.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// DisplayName nombre a mostrar: el nombre del producto o, si falta, su id.
func (i OrderItem) DisplayName() string {
	if i.ProductName != "" {
		return i.ProductName
	}
	return i.ProductID
}

// ComputeTotal suma los subtotales del pedido redondeando a 2 decimales.
func (o *Order) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.TotalPrice)
	}
	return total.Round(2)
}
