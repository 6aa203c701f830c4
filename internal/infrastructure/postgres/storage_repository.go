package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	"github.com/jhoicas/marketplace-api/internal/domain/repository"
)

var _ repository.StorageRepository = (*StorageRepo)(nil)

// StorageRepo implementación del puerto StorageRepository sobre PostgreSQL.
type StorageRepo struct {
	q Querier
}

// NewStorageRepository construye el adaptador de persistencia para almacenes.
func NewStorageRepository(q Querier) *StorageRepo {
	return &StorageRepo{q: q}
}

const storageColumns = `id, store_id, name, city, address, created_at, updated_at`

// Create persiste un nuevo almacén.
func (r *StorageRepo) Create(ctx context.Context, s *entity.Storage) error {
	query := `
		INSERT INTO storages (` + storageColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, s.ID, s.StoreID, s.Name, s.City, s.Address, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return classify("insert storage", err)
	}
	return nil
}

// GetByID obtiene un almacén por ID.
func (r *StorageRepo) GetByID(ctx context.Context, id string) (*entity.Storage, error) {
	var s entity.Storage
	err := r.q.QueryRow(ctx, `SELECT `+storageColumns+` FROM storages WHERE id = $1`, id).Scan(
		&s.ID, &s.StoreID, &s.Name, &s.City, &s.Address, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("get storage", err)
	}
	return &s, nil
}

// Update actualiza un almacén existente.
func (r *StorageRepo) Update(ctx context.Context, s *entity.Storage) error {
	query := `
		UPDATE storages SET name = $2, city = $3, address = $4, updated_at = $5
		WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, s.ID, s.Name, s.City, s.Address, s.UpdatedAt); err != nil {
		return classify("update storage", err)
	}
	return nil
}

// ListByStore lista almacenes de la tienda con paginación (limit 0 = todos).
func (r *StorageRepo) ListByStore(ctx context.Context, storeID string, limit, offset int) ([]*entity.Storage, error) {
	query := `
		SELECT ` + storageColumns + `
		FROM storages WHERE store_id = $1 ORDER BY created_at DESC, id LIMIT NULLIF($2::bigint, 0) OFFSET $3`
	rows, err := r.q.Query(ctx, query, storeID, limit, offset)
	if err != nil {
		return nil, classify("list storages", err)
	}
	defer rows.Close()
	var list []*entity.Storage
	for rows.Next() {
		var s entity.Storage
		if err := rows.Scan(&s.ID, &s.StoreID, &s.Name, &s.City, &s.Address, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, classify("scan storage", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// Delete elimina un almacén. Las líneas de stock (en 0) se borran en cascada; si hay items,
// documentos o inventarizaciones que lo referencian la FK lo impide (ErrConflict).
func (r *StorageRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM storages WHERE id = $1`, id); err != nil {
		return classify("delete storage", err)
	}
	return nil
}
