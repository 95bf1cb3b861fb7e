package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Límites del precio de catálogo.
var (
	MinProductPrice = decimal.Zero
	MaxProductPrice = decimal.NewFromInt(1_000_000)
)

// Product producto del catálogo. ID es un slug estable ("arepa-yuca");
// DashboardID es el identificador del mismo producto en el dashboard de gestión.
type Product struct {
	ID          string
	DashboardID string
	Name        string
	Category    string
	Description string
	Benefits    []string
	Variants    []string
	Price       decimal.Decimal
	ImageURL    string
	IsActive    bool
	SortOrder   int
	UpdatedAt   time.Time
}

// PriceInRange valida 0 ≤ price ≤ 1.000.000.
func PriceInRange(price decimal.Decimal) bool {
	return !price.LessThan(MinProductPrice) && !price.GreaterThan(MaxProductPrice)
}
