package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	"github.com/jhoicas/marketplace-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo persistencia de pedidos y sus líneas sobre PostgreSQL.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `id, store_id, user_id, order_number, status, comment, delivery_address, total_price, created_at, updated_at`

// Create inserta cabecera y líneas con un batch. Debe ejecutarse dentro de una tx.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query, o.ID, o.StoreID, o.UserID, o.OrderNumber, o.Status, o.Comment,
		o.DeliveryAddress, o.TotalPrice, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return classify("insert order", err)
	}
	if len(o.Lines) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for i := range o.Lines {
		l := &o.Lines[i]
		l.OrderID = o.ID
		batch.Queue(`
			INSERT INTO order_lines (id, order_id, item_id, storage_id, amount, price_per_item, total_price)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			l.ID, l.OrderID, l.ItemID, nullable(l.StorageID), l.Amount, l.PricePerItem, l.TotalPrice)
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for range o.Lines {
		if _, err := br.Exec(); err != nil {
			return classify("insert order line", err)
		}
	}
	return nil
}

// GetByID carga el pedido con sus líneas.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

// GetForUpdate bloquea la cabecera del pedido hasta el fin de la tx.
func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, o *entity.Order) error {
	if _, err := r.q.Exec(ctx, `UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1`, o.ID, o.Status, o.UpdatedAt); err != nil {
		return classify("update order status", err)
	}
	return nil
}

// SetLineStorages fija el almacén de cada línea del pedido. Debe ejecutarse dentro de una tx.
func (r *OrderRepo) SetLineStorages(ctx context.Context, o *entity.Order) error {
	if len(o.Lines) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, l := range o.Lines {
		batch.Queue(`UPDATE order_lines SET storage_id = $3 WHERE id = $1 AND order_id = $2`,
			l.ID, o.ID, nullable(l.StorageID))
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for range o.Lines {
		if _, err := br.Exec(); err != nil {
			return classify("update order line storage", err)
		}
	}
	return nil
}

// ListByStore lista pedidos recibidos por la tienda, sin líneas. status vacío = todos.
func (r *OrderRepo) ListByStore(ctx context.Context, storeID, status string, limit, offset int) ([]*entity.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE store_id = $1 AND ($2::text = '' OR status = $2::text)
		ORDER BY created_at DESC, id LIMIT NULLIF($3::bigint, 0) OFFSET $4`
	return r.list(ctx, query, storeID, status, limit, offset)
}

// ListByUser lista pedidos hechos por el comprador, sin líneas.
func (r *OrderRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders WHERE user_id = $1
		ORDER BY created_at DESC, id LIMIT NULLIF($2::bigint, 0) OFFSET $3`
	return r.list(ctx, query, userID, limit, offset)
}

func (r *OrderRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Order, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, classify("list orders", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, classify("scan order", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

func (r *OrderRepo) get(ctx context.Context, query, id string) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("get order", err)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, item_id, storage_id, amount, price_per_item, total_price
		FROM order_lines WHERE order_id = $1 ORDER BY id`, o.ID)
	if err != nil {
		return nil, classify("list order lines", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.OrderLine
		var storageID *string
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ItemID, &storageID, &l.Amount, &l.PricePerItem, &l.TotalPrice); err != nil {
			return nil, classify("scan order line", err)
		}
		l.StorageID = deref(storageID)
		o.Lines = append(o.Lines, l)
	}
	return o, rows.Err()
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	err := row.Scan(&o.ID, &o.StoreID, &o.UserID, &o.OrderNumber, &o.Status, &o.Comment,
		&o.DeliveryAddress, &o.TotalPrice, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
