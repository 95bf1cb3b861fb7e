package orders

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/alnatural-api/internal/domain/entity"
)

// Límites de cantidad por línea.
const (
	MinQuantity = 1
	MaxQuantity = 100
)

// itemCandidate forma laxa de un ítem recibido. Un tipo incorrecto en cualquier
// campo hace fallar el Unmarshal y el ítem se descarta.
type itemCandidate struct {
	ProductID   *string          `json:"product_id"`
	ProductName *string          `json:"product_name"`
	Variant     *string          `json:"variant"`
	Quantity    *float64         `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
}

// FilterItems decodifica cada ítem por separado y conserva solo los bien formados:
// product_id no vacío, cantidad entera en [1, 100] y precio unitario > 0.
func FilterItems(raw []json.RawMessage) []entity.OrderItem {
	out := make([]entity.OrderItem, 0, len(raw))
	for _, r := range raw {
		var c itemCandidate
		if err := json.Unmarshal(r, &c); err != nil {
			continue
		}
		item, ok := c.toItem()
		if !ok {
			continue
		}
		out = append(out, item)
	}
	return out
}

func (c itemCandidate) toItem() (entity.OrderItem, bool) {
	if c.ProductID == nil || strings.TrimSpace(*c.ProductID) == "" {
		return entity.OrderItem{}, false
	}
	if c.Quantity == nil {
		return entity.OrderItem{}, false
	}
	q := *c.Quantity
	if q != math.Trunc(q) || q < MinQuantity || q > MaxQuantity {
		return entity.OrderItem{}, false
	}
	if c.UnitPrice == nil || !c.UnitPrice.IsPositive() {
		return entity.OrderItem{}, false
	}
	item := entity.OrderItem{
		ProductID: strings.TrimSpace(*c.ProductID),
		Quantity:  int(q),
		UnitPrice: *c.UnitPrice,
	}
	if c.ProductName != nil {
		item.ProductName = strings.TrimSpace(*c.ProductName)
	}
	if c.Variant != nil {
		item.Variant = strings.TrimSpace(*c.Variant)
	}
	item.TotalPrice = item.LineTotal()
	return item, true
}

// NormalizeNotes recorta espacios y trunca a entity.MaxNotesLength caracteres.
func NormalizeNotes(notes string) string {
	notes = strings.TrimSpace(notes)
	runes := []rune(notes)
	if len(runes) > entity.MaxNotesLength {
		return string(runes[:entity.MaxNotesLength])
	}
	return notes
}
