package dto

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// PlaceOrderRequest cuerpo de POST /api/orders. Cada ítem se decodifica por separado
// y los que no cumplen el formato se descartan.
type PlaceOrderRequest struct {
	Items []json.RawMessage `json:"items"`
	Notes string            `json:"notes"`
}

// OrderItemInput ítem tal como lo envía la tienda.
type OrderItemInput struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Variant     string          `json:"variant,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// PlaceOrderPayload forma tipada del cuerpo (lado cliente).
type PlaceOrderPayload struct {
	Items []OrderItemInput `json:"items"`
	Notes string           `json:"notes"`
}

// OrderItemResponse línea de un pedido registrado.
type OrderItemResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Variant     string          `json:"variant,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// OrderSummary pedido registrado. Items es la cantidad de líneas aceptadas;
// el detalle va en Lines.
type OrderSummary struct {
	ID     string              `json:"id"`
	Total  decimal.Decimal     `json:"total"`
	Status string              `json:"status"`
	Items  int                 `json:"items"`
	Lines  []OrderItemResponse `json:"lines"`
}

// PlaceOrderResponse resultado de un pedido registrado. Warnings lista las
// notificaciones que no se pudieron enviar; no afectan el éxito del pedido.
type PlaceOrderResponse struct {
	Success  bool         `json:"success"`
	OrderID  string       `json:"orderId"`
	Message  string       `json:"message"`
	Order    OrderSummary `json:"order"`
	Warnings []string     `json:"warnings,omitempty"`
}
