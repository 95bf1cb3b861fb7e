package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/alnatural-api/internal/domain/entity"
	"github.com/jhoicas/alnatural-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, COALESCE(dashboard_id::text, ''), name, category, COALESCE(description, ''),
	COALESCE(benefits, '{}'), COALESCE(variants, '{}'), price, COALESCE(image_url, ''), is_active, sort_order, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// ListActive productos activos por sort_order.
func (r *ProductRepo) ListActive(ctx context.Context) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, `SELECT `+productColumns+` FROM products WHERE is_active ORDER BY sort_order, id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// GetByID obtiene un producto por slug.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// UpdatePrice fija el precio; false si el producto no existe.
func (r *ProductRepo) UpdatePrice(ctx context.Context, id string, price decimal.Decimal) (bool, error) {
	tag, err := r.q.Exec(ctx, `UPDATE products SET price = $2, updated_at = now() WHERE id = $1`, id, price)
	if err != nil {
		return false, fmt.Errorf("update product price: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.DashboardID, &p.Name, &p.Category, &p.Description,
		&p.Benefits, &p.Variants, &p.Price, &p.ImageURL, &p.IsActive, &p.SortOrder, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
