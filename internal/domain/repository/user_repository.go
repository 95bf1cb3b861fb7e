package repository

import (
	"context"

	"github.com/jhoicas/alnatural-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	// HasRole consulta user_roles; sin fila devuelve false sin error.
	HasRole(ctx context.Context, userID, role string) (bool, error)
}

// UserClientRepository vínculos usuario ↔ cliente.
type UserClientRepository interface {
	Find(ctx context.Context, userID, clientID string) (*entity.UserClient, error)
	Create(ctx context.Context, link *entity.UserClient) error
	// FirstByUser devuelve el vínculo más antiguo del usuario; nil si no tiene.
	FirstByUser(ctx context.Context, userID string) (*entity.UserClient, error)
}
