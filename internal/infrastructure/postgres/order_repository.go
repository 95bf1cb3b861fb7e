package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/alnatural-api/internal/domain/entity"
	"github.com/jhoicas/alnatural-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo pedidos y sus líneas (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create inserta la cabecera y las líneas. Debe ejecutarse en una tx para que
// un fallo parcial no deje líneas huérfanas.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	var userID *string
	if o.UserID != "" {
		userID = &o.UserID
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO orders (id, client_id, user_id, total_amount, status, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		o.ID, o.ClientID, userID, o.TotalAmount, o.Status, nullIfEmpty(o.Notes), o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	if len(o.Items) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for i, it := range o.Items {
		batch.Queue(`
			INSERT INTO order_items (id, order_id, line_no, product_id, product_name, variant, quantity, unit_price, total_price)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			it.ID, o.ID, i+1, it.ProductID, it.ProductName, nullIfEmpty(it.Variant), it.Quantity, it.UnitPrice, it.TotalPrice,
		)
	}
	if err := r.q.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert order items: %w", err)
	}
	return nil
}

// GetByID obtiene un pedido con sus líneas; nil si no existe.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	var (
		o             entity.Order
		userID, notes *string
	)
	err := r.q.QueryRow(ctx, `
		SELECT id, client_id, user_id::text, total_amount, status, notes, created_at
		FROM orders WHERE id = $1`, id,
	).Scan(&o.ID, &o.ClientID, &userID, &o.TotalAmount, &o.Status, &notes, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	o.UserID, o.Notes = deref(userID), deref(notes)

	rows, err := r.q.Query(ctx, `
		SELECT id, product_id, product_name, COALESCE(variant, ''), quantity, unit_price, total_price
		FROM order_items WHERE order_id = $1 ORDER BY line_no`, id)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		it := entity.OrderItem{OrderID: o.ID}
		if err := rows.Scan(&it.ID, &it.ProductID, &it.ProductName, &it.Variant, &it.Quantity, &it.UnitPrice, &it.TotalPrice); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		o.Items = append(o.Items, it)
	}
	return &o, rows.Err()
}
