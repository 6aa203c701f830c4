package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	"github.com/jhoicas/marketplace-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de persistencia para items. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `id, store_id, name, description, uom, default_price, default_storage_id, status, created_at, updated_at`

// Create persiste un nuevo item.
func (r *ItemRepo) Create(ctx context.Context, it *entity.Item) error {
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.StoreID, it.Name, it.Description, it.UnitMeasure, it.DefaultPrice,
		it.DefaultStorageID, it.Active, it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		return classify("insert item", err)
	}
	return nil
}

// GetByID obtiene un item por ID.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	it, err := scanItem(r.q.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("get item", err)
	}
	return it, nil
}

// Update actualiza los datos de catálogo del item.
func (r *ItemRepo) Update(ctx context.Context, it *entity.Item) error {
	query := `
		UPDATE items SET name = $2, description = $3, uom = $4, default_price = $5,
			default_storage_id = $6, status = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.Name, it.Description, it.UnitMeasure, it.DefaultPrice,
		it.DefaultStorageID, it.Active, it.UpdatedAt,
	)
	if err != nil {
		return classify("update item", err)
	}
	return nil
}

// ListByStore lista items de la tienda por nombre; search filtra con ILIKE (limit 0 = todos).
func (r *ItemRepo) ListByStore(ctx context.Context, storeID, search string, limit, offset int) ([]*entity.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items
		WHERE store_id = $1 AND ($2::text = '' OR name ILIKE '%' || $2::text || '%')
		ORDER BY name, id
		LIMIT NULLIF($3::bigint, 0) OFFSET $4`
	rows, err := r.q.Query(ctx, query, storeID, search, limit, offset)
	if err != nil {
		return nil, classify("list items", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, classify("scan item", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

func scanItem(row pgx.Row) (*entity.Item, error) {
	var it entity.Item
	err := row.Scan(
		&it.ID, &it.StoreID, &it.Name, &it.Description, &it.UnitMeasure, &it.DefaultPrice,
		&it.DefaultStorageID, &it.Active, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}
