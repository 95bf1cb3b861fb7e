package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/alnatural-api/internal/domain"
	"github.com/jhoicas/alnatural-api/internal/domain/entity"
	"github.com/jhoicas/alnatural-api/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

const clientColumns = `id, name, email, phone, company, city, is_active, created_at, updated_at`

// ClientRepo implementación de ClientRepository (usable con pool o tx).
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

// Create persiste un nuevo cliente.
func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	query := `
		INSERT INTO clients (` + clientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Name, nullIfEmpty(c.Email), nullIfEmpty(c.Phone), nullIfEmpty(c.Company), nullIfEmpty(c.City),
		c.IsActive, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return mapClientWriteError("insert client", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID; nil si no existe.
func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	row := r.q.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id)
	c, err := scanClient(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

// ListWithCodes lista todos los clientes (más recientes primero) con sus códigos.
func (r *ClientRepo) ListWithCodes(ctx context.Context) ([]*entity.ClientWithCodes, error) {
	rows, err := r.q.Query(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	var list []*entity.ClientWithCodes
	index := map[string]*entity.ClientWithCodes{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan client: %w", err)
		}
		item := &entity.ClientWithCodes{Client: *c}
		list = append(list, item)
		index[c.ID] = item
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	if len(list) == 0 {
		return list, nil
	}

	codeRows, err := r.q.Query(ctx, `
		SELECT id, code, client_id, is_active, expires_at, created_at
		FROM access_codes ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list access codes: %w", err)
	}
	defer codeRows.Close()
	for codeRows.Next() {
		a, err := scanAccessCode(codeRows)
		if err != nil {
			return nil, fmt.Errorf("scan access code: %w", err)
		}
		if item, ok := index[a.ClientID]; ok {
			item.AccessCodes = append(item.AccessCodes, *a)
		}
	}
	return list, codeRows.Err()
}

// Update aplica solo los campos presentes en el patch.
func (r *ClientRepo) Update(ctx context.Context, id string, p entity.ClientPatch) (*entity.Client, error) {
	sets := []string{}
	args := []any{id}
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if p.Name != nil {
		add("name", *p.Name)
	}
	if p.ClearEmail {
		add("email", nil)
	} else if p.Email != nil {
		add("email", nullIfEmpty(*p.Email))
	}
	if p.Phone != nil {
		add("phone", nullIfEmpty(*p.Phone))
	}
	if p.Company != nil {
		add("company", nullIfEmpty(*p.Company))
	}
	if p.City != nil {
		add("city", nullIfEmpty(*p.City))
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}
	sets = append(sets, "updated_at = now()")

	query := `UPDATE clients SET ` + strings.Join(sets, ", ") + ` WHERE id = $1 RETURNING ` + clientColumns
	c, err := scanClient(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapClientWriteError("update client", err)
	}
	return c, nil
}

// SetActive cambia is_active y devuelve el cliente resultante.
func (r *ClientRepo) SetActive(ctx context.Context, id string, active bool) (*entity.Client, error) {
	query := `UPDATE clients SET is_active = $2, updated_at = now() WHERE id = $1 RETURNING ` + clientColumns
	c, err := scanClient(r.q.QueryRow(ctx, query, id, active))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update client status: %w", err)
	}
	return c, nil
}

func scanClient(row pgx.Row) (*entity.Client, error) {
	var (
		c                           entity.Client
		email, phone, company, city *string
	)
	if err := row.Scan(&c.ID, &c.Name, &email, &phone, &company, &city, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Email, c.Phone, c.Company, c.City = deref(email), deref(phone), deref(company), deref(city)
	return &c, nil
}

// mapClientWriteError traduce el unique de email a un error de dominio.
func mapClientWriteError(op string, err error) error {
	if isUniqueViolation(err) {
		if strings.Contains(violatedConstraint(err), "email") {
			return domain.ErrEmailAlreadyExists
		}
		return domain.ErrDuplicate
	}
	return fmt.Errorf("%s: %w", op, err)
}
