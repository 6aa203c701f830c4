package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	"github.com/jhoicas/marketplace-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = `store_id, item_id, storage_id, quantity, updated_at`

// Get obtiene la cantidad actual de un item en un almacén, sin bloquear. Sin fila = cantidad 0.
func (r *StockRepo) Get(ctx context.Context, itemID, storageID string) (*entity.StockLine, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_lines WHERE item_id = $1 AND storage_id = $2`
	line, err := scanStockLine(r.q.QueryRow(ctx, query, itemID, storageID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockLine{ItemID: itemID, StorageID: storageID}, nil
		}
		return nil, classify("get stock", err)
	}
	return line, nil
}

// GetForUpdate crea la línea en 0 si no existe y la bloquea (SELECT FOR UPDATE) hasta el fin de la tx.
func (r *StockRepo) GetForUpdate(ctx context.Context, storeID, itemID, storageID string) (*entity.StockLine, error) {
	insert := `
		INSERT INTO stock_lines (store_id, item_id, storage_id, quantity, updated_at)
		VALUES ($1, $2, $3, 0, now())
		ON CONFLICT (item_id, storage_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, storeID, itemID, storageID); err != nil {
		return nil, classify("create stock line", err)
	}
	query := `
		SELECT ` + stockColumns + `
		FROM stock_lines WHERE item_id = $1 AND storage_id = $2
		FOR UPDATE`
	line, err := scanStockLine(r.q.QueryRow(ctx, query, itemID, storageID))
	if err != nil {
		return nil, classify("get stock for update", err)
	}
	return line, nil
}

// SetQuantity escribe la cantidad de una línea ya bloqueada. El CHECK (quantity >= 0) de la tabla
// rechaza cualquier valor negativo que se escape de la validación del libro.
func (r *StockRepo) SetQuantity(ctx context.Context, line *entity.StockLine) error {
	query := `
		UPDATE stock_lines SET quantity = $3, updated_at = now()
		WHERE item_id = $1 AND storage_id = $2
		RETURNING updated_at`
	if err := r.q.QueryRow(ctx, query, line.ItemID, line.StorageID, line.Quantity).Scan(&line.UpdatedAt); err != nil {
		return classify("update stock", err)
	}
	return nil
}

// ListByStorage lista las líneas de un almacén ordenadas por item.
func (r *StockRepo) ListByStorage(ctx context.Context, storageID string) ([]*entity.StockLine, error) {
	return r.list(ctx, `SELECT `+stockColumns+` FROM stock_lines WHERE storage_id = $1 ORDER BY item_id`, storageID)
}

// ListByStore lista todas las líneas de la tienda.
func (r *StockRepo) ListByStore(ctx context.Context, storeID string) ([]*entity.StockLine, error) {
	return r.list(ctx, `SELECT `+stockColumns+` FROM stock_lines WHERE store_id = $1 ORDER BY item_id, storage_id`, storeID)
}

// HasStock indica si el almacén tiene alguna línea con cantidad distinta de 0.
func (r *StockRepo) HasStock(ctx context.Context, storageID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM stock_lines WHERE storage_id = $1 AND quantity <> 0)`, storageID).Scan(&exists)
	if err != nil {
		return false, classify("check storage stock", err)
	}
	return exists, nil
}

func (r *StockRepo) list(ctx context.Context, query string, arg any) ([]*entity.StockLine, error) {
	rows, err := r.q.Query(ctx, query, arg)
	if err != nil {
		return nil, classify("list stock", err)
	}
	defer rows.Close()
	var list []*entity.StockLine
	for rows.Next() {
		line, err := scanStockLine(rows)
		if err != nil {
			return nil, classify("scan stock", err)
		}
		list = append(list, line)
	}
	return list, rows.Err()
}

func scanStockLine(row pgx.Row) (*entity.StockLine, error) {
	var s entity.StockLine
	if err := row.Scan(&s.StoreID, &s.ItemID, &s.StorageID, &s.Quantity, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
