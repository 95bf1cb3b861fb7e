package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/alnatural-api/internal/domain"
	"github.com/jhoicas/alnatural-api/internal/domain/entity"
	"github.com/jhoicas/alnatural-api/internal/domain/repository"
)

var _ repository.AccessCodeRepository = (*AccessCodeRepo)(nil)

// AccessCodeRepo implementación de AccessCodeRepository (usable con pool o tx).
type AccessCodeRepo struct {
	q Querier
}

// NewAccessCodeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAccessCodeRepository(q Querier) *AccessCodeRepo {
	return &AccessCodeRepo{q: q}
}

// GenerateCode delega en la función SQL generate_access_code().
func (r *AccessCodeRepo) GenerateCode(ctx context.Context) (string, error) {
	var code string
	if err := r.q.QueryRow(ctx, `SELECT generate_access_code()`).Scan(&code); err != nil {
		return "", fmt.Errorf("generate access code: %w", err)
	}
	return code, nil
}

// Create persiste un código de acceso.
func (r *AccessCodeRepo) Create(ctx context.Context, a *entity.AccessCode) error {
	query := `
		INSERT INTO access_codes (id, code, client_id, is_active, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, a.ID, a.Code, a.ClientID, a.IsActive, a.ExpiresAt, a.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert access code: %w", err)
	}
	return nil
}

// FindByCode busca un código exacto; nil si no existe.
func (r *AccessCodeRepo) FindByCode(ctx context.Context, code string) (*entity.AccessCode, error) {
	row := r.q.QueryRow(ctx, `
		SELECT id, code, client_id, is_active, expires_at, created_at
		FROM access_codes WHERE code = $1`, code)
	a, err := scanAccessCode(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find access code: %w", err)
	}
	return a, nil
}

// DeactivateExpired marca inactivos los códigos vencidos y devuelve cuántos cambió.
func (r *AccessCodeRepo) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE access_codes SET is_active = false
		WHERE is_active AND expires_at IS NOT NULL AND expires_at < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("deactivate expired codes: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanAccessCode(row pgx.Row) (*entity.AccessCode, error) {
	var a entity.AccessCode
	if err := row.Scan(&a.ID, &a.Code, &a.ClientID, &a.IsActive, &a.ExpiresAt, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}
