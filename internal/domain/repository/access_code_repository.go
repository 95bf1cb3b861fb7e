package repository

import (
	"context"
	"time"

	"github.com/jhoicas/alnatural-api/internal/domain/entity"
)

// AccessCodeRepository define el puerto de persistencia para AccessCode.
type AccessCodeRepository interface {
	// GenerateCode pide a la base de datos un código único nuevo.
	GenerateCode(ctx context.Context) (string, error)
	Create(ctx context.Context, code *entity.AccessCode) error
	// FindByCode busca por código ya normalizado; nil si no existe.
	FindByCode(ctx context.Context, code string) (*entity.AccessCode, error)
	// DeactivateExpired desactiva los códigos con expires_at anterior a now.
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}
