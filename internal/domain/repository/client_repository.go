package repository

import (
	"context"

	"github.com/jhoicas/alnatural-api/internal/domain/entity"
)

// ClientRepository define el puerto de persistencia para Client (DIP).
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	// ListWithCodes devuelve todos los clientes (más recientes primero) con sus códigos.
	ListWithCodes(ctx context.Context) ([]*entity.ClientWithCodes, error)
	// Update aplica el patch y devuelve el cliente resultante; nil si no existe.
	Update(ctx context.Context, id string, patch entity.ClientPatch) (*entity.Client, error)
	// SetActive cambia el estado y devuelve el cliente resultante; nil si no existe.
	SetActive(ctx context.Context, id string, active bool) (*entity.Client, error)
}
