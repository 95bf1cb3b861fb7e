package repository

import (
	"context"

	"github.com/jhoicas/alnatural-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para pedidos.
type OrderRepository interface {
	// Create inserta el pedido y sus líneas.
	Create(ctx context.Context, order *entity.Order) error
	// GetByID devuelve el pedido con sus líneas; nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Order, error)
}
