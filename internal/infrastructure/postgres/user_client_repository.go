package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/alnatural-api/internal/domain"
	"github.com/jhoicas/alnatural-api/internal/domain/entity"
	"github.com/jhoicas/alnatural-api/internal/domain/repository"
)

var _ repository.UserClientRepository = (*UserClientRepo)(nil)

// UserClientRepo vínculos usuario ↔ cliente.
type UserClientRepo struct {
	q Querier
}

// NewUserClientRepository construye el adaptador.
func NewUserClientRepository(q Querier) *UserClientRepo {
	return &UserClientRepo{q: q}
}

// Find devuelve el vínculo exacto; nil si no existe.
func (r *UserClientRepo) Find(ctx context.Context, userID, clientID string) (*entity.UserClient, error) {
	return r.one(ctx, `
		SELECT id, user_id, client_id, created_at FROM user_clients
		WHERE user_id = $1 AND client_id = $2`, userID, clientID)
}

// Create persiste un vínculo. Un duplicado devuelve domain.ErrDuplicate.
func (r *UserClientRepo) Create(ctx context.Context, l *entity.UserClient) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO user_clients (id, user_id, client_id, created_at)
		VALUES ($1, $2, $3, $4)`, l.ID, l.UserID, l.ClientID, l.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert user client: %w", err)
	}
	return nil
}

// FirstByUser primer vínculo (más antiguo) de la cuenta.
func (r *UserClientRepo) FirstByUser(ctx context.Context, userID string) (*entity.UserClient, error) {
	return r.one(ctx, `
		SELECT id, user_id, client_id, created_at FROM user_clients
		WHERE user_id = $1 ORDER BY created_at ASC LIMIT 1`, userID)
}

func (r *UserClientRepo) one(ctx context.Context, query string, args ...any) (*entity.UserClient, error) {
	var l entity.UserClient
	err := r.q.QueryRow(ctx, query, args...).Scan(&l.ID, &l.UserID, &l.ClientID, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user client: %w", err)
	}
	return &l, nil
}
