package postgres

import (
	"context"

	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	"github.com/jhoicas/marketplace-api/internal/domain/repository"
)

var _ repository.CartRepository = (*CartRepo)(nil)

// CartRepo carrito de compras sobre PostgreSQL.
type CartRepo struct {
	q Querier
}

func NewCartRepository(q Querier) *CartRepo {
	return &CartRepo{q: q}
}

// ListByUser devuelve las líneas del carrito en orden de inserción.
func (r *CartRepo) ListByUser(ctx context.Context, userID string) ([]*entity.CartItem, error) {
	query := `
		SELECT user_id, item_id, store_id, amount, created_at, updated_at
		FROM cart_items WHERE user_id = $1 ORDER BY created_at, item_id`
	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, classify("list cart", err)
	}
	defer rows.Close()
	var list []*entity.CartItem
	for rows.Next() {
		var c entity.CartItem
		if err := rows.Scan(&c.UserID, &c.ItemID, &c.StoreID, &c.Amount, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, classify("scan cart item", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// Upsert fija la cantidad de la línea (item, usuario).
func (r *CartRepo) Upsert(ctx context.Context, c *entity.CartItem) error {
	query := `
		INSERT INTO cart_items (user_id, item_id, store_id, amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, item_id) DO UPDATE SET amount = EXCLUDED.amount, updated_at = EXCLUDED.updated_at`
	if _, err := r.q.Exec(ctx, query, c.UserID, c.ItemID, c.StoreID, c.Amount, c.CreatedAt, c.UpdatedAt); err != nil {
		return classify("upsert cart item", err)
	}
	return nil
}

func (r *CartRepo) Delete(ctx context.Context, userID, itemID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1 AND item_id = $2`, userID, itemID); err != nil {
		return classify("delete cart item", err)
	}
	return nil
}

// Clear vacía el carrito; con storeID solo las líneas de esa tienda.
func (r *CartRepo) Clear(ctx context.Context, userID, storeID string) error {
	query := `DELETE FROM cart_items WHERE user_id = $1 AND ($2::text = '' OR store_id::text = $2::text)`
	if _, err := r.q.Exec(ctx, query, userID, storeID); err != nil {
		return classify("clear cart", err)
	}
	return nil
}
