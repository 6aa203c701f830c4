package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/marketplace-api/internal/domain"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	"github.com/jhoicas/marketplace-api/internal/domain/repository"
)

var _ repository.StockDocumentRepository = (*StockDocumentRepo)(nil)

// StockDocumentRepo registro append-only de documentos sobre PostgreSQL.
// Un trigger en la tabla rechaza UPDATE y DELETE.
type StockDocumentRepo struct {
	q Querier
}

// NewStockDocumentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockDocumentRepository(q Querier) *StockDocumentRepo {
	return &StockDocumentRepo{q: q}
}

const documentColumns = `id, store_id, item_id, storage_id, kind, amount, document_number, supplier, reason, notes,
	inventory_check_id, order_id, idempotency_key, created_by, created_at`

// Create inserta el documento y asigna ID (bigserial). Dos inserciones concurrentes con la misma
// clave de idempotencia chocan en el índice único: la segunda recibe ErrConcurrencyConflict.
func (r *StockDocumentRepo) Create(ctx context.Context, d *entity.StockDocument) error {
	query := `
		INSERT INTO stock_documents (store_id, item_id, storage_id, kind, amount, document_number, supplier,
			reason, notes, inventory_check_id, order_id, idempotency_key, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, COALESCE($14, now()))
		RETURNING id, created_at`
	var createdAt any
	if !d.CreatedAt.IsZero() {
		createdAt = d.CreatedAt
	}
	err := r.q.QueryRow(ctx, query,
		d.StoreID, d.ItemID, d.StorageID, d.Kind, d.Amount, d.DocumentNumber, d.Supplier,
		d.Reason, d.Notes, nullable(d.InventoryCheckID), nullable(d.OrderID), nullable(d.IdempotencyKey),
		nullable(d.CreatedBy), createdAt,
	).Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert stock document: %w", domain.ErrConcurrencyConflict)
		}
		return classify("insert stock document", err)
	}
	return nil
}

// GetByID obtiene un documento por ID.
func (r *StockDocumentRepo) GetByID(ctx context.Context, id int64) (*entity.StockDocument, error) {
	return r.getOne(ctx, `SELECT `+documentColumns+` FROM stock_documents WHERE id = $1`, id)
}

// GetByIdempotencyKey obtiene el documento registrado con esa clave en la tienda.
func (r *StockDocumentRepo) GetByIdempotencyKey(ctx context.Context, storeID, key string) (*entity.StockDocument, error) {
	return r.getOne(ctx, `SELECT `+documentColumns+` FROM stock_documents WHERE store_id = $1 AND idempotency_key = $2`, storeID, key)
}

// List devuelve documentos del más reciente al más antiguo.
func (r *StockDocumentRepo) List(ctx context.Context, f repository.DocumentFilter) ([]*entity.StockDocument, error) {
	where, args := documentWhere(f)
	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM stock_documents WHERE %s ORDER BY id DESC LIMIT NULLIF($%d::bigint, 0) OFFSET $%d`,
		documentColumns, where, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, classify("list stock documents", err)
	}
	defer rows.Close()
	var list []*entity.StockDocument
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, classify("scan stock document", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// Count cuenta documentos que cumplen el filtro (ignora Limit/Offset).
func (r *StockDocumentRepo) Count(ctx context.Context, f repository.DocumentFilter) (int, error) {
	where, args := documentWhere(f)
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM stock_documents WHERE `+where, args...).Scan(&n); err != nil {
		return 0, classify("count stock documents", err)
	}
	return n, nil
}

// SumByLine suma los montos de los documentos por (item, almacén) de una tienda.
func (r *StockDocumentRepo) SumByLine(ctx context.Context, storeID string) ([]repository.LineBalance, error) {
	query := `
		SELECT item_id, storage_id, COALESCE(SUM(amount), 0)::bigint
		FROM stock_documents WHERE store_id = $1
		GROUP BY item_id, storage_id`
	rows, err := r.q.Query(ctx, query, storeID)
	if err != nil {
		return nil, classify("sum stock documents", err)
	}
	defer rows.Close()
	var out []repository.LineBalance
	for rows.Next() {
		var b repository.LineBalance
		if err := rows.Scan(&b.ItemID, &b.StorageID, &b.Total); err != nil {
			return nil, classify("scan line balance", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *StockDocumentRepo) getOne(ctx context.Context, query string, args ...any) (*entity.StockDocument, error) {
	d, err := scanDocument(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("get stock document", err)
	}
	return d, nil
}

// documentWhere arma la cláusula WHERE con placeholders numerados según los filtros presentes.
func documentWhere(f repository.DocumentFilter) (string, []any) {
	conds := []string{"store_id = $1"}
	args := []any{f.StoreID}
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.StorageID != "" {
		add("storage_id = $%d", f.StorageID)
	}
	if f.ItemID != "" {
		add("item_id = $%d", f.ItemID)
	}
	if f.Kind != "" {
		add("kind = $%d", f.Kind)
	}
	if f.Since != nil {
		add("created_at >= $%d", *f.Since)
	}
	return strings.Join(conds, " AND "), args
}

func scanDocument(row pgx.Row) (*entity.StockDocument, error) {
	var d entity.StockDocument
	var checkID, orderID, key, createdBy *string
	err := row.Scan(
		&d.ID, &d.StoreID, &d.ItemID, &d.StorageID, &d.Kind, &d.Amount, &d.DocumentNumber, &d.Supplier,
		&d.Reason, &d.Notes, &checkID, &orderID, &key, &createdBy, &d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	d.InventoryCheckID = deref(checkID)
	d.OrderID = deref(orderID)
	d.IdempotencyKey = deref(key)
	d.CreatedBy = deref(createdBy)
	return &d, nil
}
