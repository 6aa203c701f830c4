package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	"github.com/jhoicas/marketplace-api/internal/domain/repository"
)

var _ repository.InventoryCheckRepository = (*InventoryCheckRepo)(nil)

// InventoryCheckRepo persistencia de inventarizaciones (cabecera + líneas) sobre PostgreSQL.
type InventoryCheckRepo struct {
	q Querier
}

// NewInventoryCheckRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryCheckRepository(q Querier) *InventoryCheckRepo {
	return &InventoryCheckRepo{q: q}
}

const checkColumns = `id, store_id, storage_id, document_number, notes, status, created_by, created_at, updated_at, completed_at`

// Create inserta la cabecera y sus líneas iniciales. Debe ejecutarse dentro de una tx.
func (r *InventoryCheckRepo) Create(ctx context.Context, c *entity.InventoryCheck) error {
	query := `
		INSERT INTO inventory_checks (` + checkColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query, c.ID, c.StoreID, c.StorageID, c.DocumentNumber, c.Notes, c.Status,
		nullable(c.CreatedBy), c.CreatedAt, c.UpdatedAt, c.CompletedAt)
	if err != nil {
		return classify("insert inventory check", err)
	}
	for i := range c.Lines {
		c.Lines[i].CheckID = c.ID
		if err := r.UpsertLine(ctx, &c.Lines[i]); err != nil {
			return err
		}
	}
	return nil
}

// GetByID carga la inventarización con sus líneas ordenadas por item.
func (r *InventoryCheckRepo) GetByID(ctx context.Context, id string) (*entity.InventoryCheck, error) {
	return r.get(ctx, `SELECT `+checkColumns+` FROM inventory_checks WHERE id = $1`, id)
}

// GetForUpdate bloquea la cabecera (SELECT FOR UPDATE) y carga las líneas.
func (r *InventoryCheckRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryCheck, error) {
	return r.get(ctx, `SELECT `+checkColumns+` FROM inventory_checks WHERE id = $1 FOR UPDATE`, id)
}

// UpdateStatus persiste estado, updated_at y completed_at.
func (r *InventoryCheckRepo) UpdateStatus(ctx context.Context, c *entity.InventoryCheck) error {
	query := `UPDATE inventory_checks SET status = $2, updated_at = $3, completed_at = $4 WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, c.ID, c.Status, c.UpdatedAt, c.CompletedAt); err != nil {
		return classify("update inventory check", err)
	}
	return nil
}

// UpsertLine inserta la línea o actualiza la cantidad contada. expected_amount solo se fija al insertar.
func (r *InventoryCheckRepo) UpsertLine(ctx context.Context, l *entity.InventoryCheckLine) error {
	query := `
		INSERT INTO inventory_check_lines (check_id, item_id, expected_amount, actual_amount, counted, updated_at)
		VALUES ($1, $2, $3, $4, $5, COALESCE($6, now()))
		ON CONFLICT (check_id, item_id) DO UPDATE
		SET actual_amount = EXCLUDED.actual_amount, counted = EXCLUDED.counted, updated_at = EXCLUDED.updated_at
		RETURNING updated_at`
	var updatedAt any
	if !l.UpdatedAt.IsZero() {
		updatedAt = l.UpdatedAt
	}
	err := r.q.QueryRow(ctx, query, l.CheckID, l.ItemID, l.ExpectedAmount, l.ActualAmount, l.Counted, updatedAt).
		Scan(&l.UpdatedAt)
	if err != nil {
		return classify("upsert inventory check line", err)
	}
	return nil
}

// ListByStore lista inventarizaciones (sin líneas), más recientes primero. status vacío = todas.
func (r *InventoryCheckRepo) ListByStore(ctx context.Context, storeID, status string, limit, offset int) ([]*entity.InventoryCheck, error) {
	query := `
		SELECT ` + checkColumns + `
		FROM inventory_checks
		WHERE store_id = $1 AND ($2::text = '' OR status = $2::text)
		ORDER BY created_at DESC, id LIMIT NULLIF($3::bigint, 0) OFFSET $4`
	rows, err := r.q.Query(ctx, query, storeID, status, limit, offset)
	if err != nil {
		return nil, classify("list inventory checks", err)
	}
	defer rows.Close()
	var list []*entity.InventoryCheck
	for rows.Next() {
		c, err := scanCheck(rows)
		if err != nil {
			return nil, classify("scan inventory check", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// HasOpenForStorage indica si hay inventarizaciones draft o in_progress sobre el almacén.
func (r *InventoryCheckRepo) HasOpenForStorage(ctx context.Context, storageID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM inventory_checks WHERE storage_id = $1 AND status IN ('draft', 'in_progress'))`
	var exists bool
	if err := r.q.QueryRow(ctx, query, storageID).Scan(&exists); err != nil {
		return false, classify("check open inventory checks", err)
	}
	return exists, nil
}

func (r *InventoryCheckRepo) get(ctx context.Context, query, id string) (*entity.InventoryCheck, error) {
	c, err := scanCheck(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("get inventory check", err)
	}
	lines, err := r.lines(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	c.Lines = lines
	return c, nil
}

func (r *InventoryCheckRepo) lines(ctx context.Context, checkID string) ([]entity.InventoryCheckLine, error) {
	query := `
		SELECT check_id, item_id, expected_amount, actual_amount, counted, updated_at
		FROM inventory_check_lines WHERE check_id = $1 ORDER BY item_id`
	rows, err := r.q.Query(ctx, query, checkID)
	if err != nil {
		return nil, classify("list inventory check lines", err)
	}
	defer rows.Close()
	var lines []entity.InventoryCheckLine
	for rows.Next() {
		var l entity.InventoryCheckLine
		if err := rows.Scan(&l.CheckID, &l.ItemID, &l.ExpectedAmount, &l.ActualAmount, &l.Counted, &l.UpdatedAt); err != nil {
			return nil, classify("scan inventory check line", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func scanCheck(row pgx.Row) (*entity.InventoryCheck, error) {
	var c entity.InventoryCheck
	var createdBy *string
	err := row.Scan(&c.ID, &c.StoreID, &c.StorageID, &c.DocumentNumber, &c.Notes, &c.Status,
		&createdBy, &c.CreatedAt, &c.UpdatedAt, &c.CompletedAt)
	if err != nil {
		return nil, err
	}
	c.CreatedBy = deref(createdBy)
	return &c, nil
}
