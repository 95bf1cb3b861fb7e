package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/alnatural-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para el catálogo.
type ProductRepository interface {
	ListActive(ctx context.Context) ([]*entity.Product, error)
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// UpdatePrice devuelve false si el producto no existe.
	UpdatePrice(ctx context.Context, id string, price decimal.Decimal) (bool, error)
}
