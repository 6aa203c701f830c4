package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/marketplace-api/internal/domain"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	"github.com/jhoicas/marketplace-api/internal/domain/repository"
)

var (
	_ repository.StockRepository          = (*StockRepo)(nil)
	_ repository.StockDocumentRepository  = (*DocumentRepo)(nil)
	_ repository.InventoryCheckRepository = (*CheckRepo)(nil)
)

// StockRepo líneas del libro en memoria.
type StockRepo struct{ handle }

func (r *StockRepo) Get(ctx context.Context, itemID, storageID string) (*entity.StockLine, error) {
	var out entity.StockLine
	err := r.read(ctx, func(st *state) error {
		l, ok := st.stock[lineKey{itemID, storageID}]
		if !ok {
			l = entity.StockLine{ItemID: itemID, StorageID: storageID}
			if it, ok := st.items[itemID]; ok {
				l.StoreID = it.StoreID
			}
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetForUpdate crea la línea en 0 si no existe. El lock es el de la transacción en curso.
func (r *StockRepo) GetForUpdate(ctx context.Context, storeID, itemID, storageID string) (*entity.StockLine, error) {
	var out entity.StockLine
	err := r.write(ctx, func(st *state) error {
		k := lineKey{itemID, storageID}
		l, ok := st.stock[k]
		if !ok {
			if _, ok := st.items[itemID]; !ok {
				return domain.ErrNotFound
			}
			if _, ok := st.storages[storageID]; !ok {
				return domain.ErrNotFound
			}
			l = entity.StockLine{StoreID: storeID, ItemID: itemID, StorageID: storageID, UpdatedAt: time.Now()}
			st.stock[k] = l
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SetQuantity emula el CHECK (quantity >= 0) de la tabla.
func (r *StockRepo) SetQuantity(ctx context.Context, line *entity.StockLine) error {
	return r.write(ctx, func(st *state) error {
		k := lineKey{line.ItemID, line.StorageID}
		cur, ok := st.stock[k]
		if !ok {
			return domain.ErrNotFound
		}
		if line.Quantity < 0 {
			return &domain.InsufficientStockError{ItemID: line.ItemID, StorageID: line.StorageID, Available: cur.Quantity, Requested: cur.Quantity - line.Quantity}
		}
		line.UpdatedAt = time.Now()
		cur.Quantity = line.Quantity
		cur.UpdatedAt = line.UpdatedAt
		st.stock[k] = cur
		return nil
	})
}

func (r *StockRepo) ListByStorage(ctx context.Context, storageID string) ([]*entity.StockLine, error) {
	return r.list(ctx, func(l entity.StockLine) bool { return l.StorageID == storageID })
}

func (r *StockRepo) ListByStore(ctx context.Context, storeID string) ([]*entity.StockLine, error) {
	return r.list(ctx, func(l entity.StockLine) bool { return l.StoreID == storeID })
}

func (r *StockRepo) HasStock(ctx context.Context, storageID string) (bool, error) {
	found := false
	err := r.read(ctx, func(st *state) error {
		for k, l := range st.stock {
			if k.storage == storageID && l.Quantity != 0 {
				found = true
				return nil
			}
		}
		return nil
	})
	return found, err
}

func (r *StockRepo) list(ctx context.Context, keep func(entity.StockLine) bool) ([]*entity.StockLine, error) {
	var out []*entity.StockLine
	err := r.read(ctx, func(st *state) error {
		for _, l := range st.stock {
			if keep(l) {
				l := l
				out = append(out, &l)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].ItemID != out[j].ItemID {
			return out[i].ItemID < out[j].ItemID
		}
		return out[i].StorageID < out[j].StorageID
	})
	return out, err
}

// DocumentRepo registro append-only de documentos en memoria.
type DocumentRepo struct{ handle }

// Create asigna el siguiente ID. La clave de idempotencia es única por tienda.
func (r *DocumentRepo) Create(ctx context.Context, doc *entity.StockDocument) error {
	if doc.Amount == 0 {
		return domain.ErrInvalidInput
	}
	return r.write(ctx, func(st *state) error {
		if doc.IdempotencyKey != "" {
			for _, d := range st.docs {
				if d.StoreID == doc.StoreID && d.IdempotencyKey == doc.IdempotencyKey {
					return domain.ErrConcurrencyConflict
				}
			}
		}
		st.nextDocID++
		doc.ID = st.nextDocID
		if doc.CreatedAt.IsZero() {
			doc.CreatedAt = time.Now()
		}
		st.docs = append(st.docs, *doc)
		return nil
	})
}

func (r *DocumentRepo) GetByID(ctx context.Context, id int64) (*entity.StockDocument, error) {
	var out *entity.StockDocument
	err := r.read(ctx, func(st *state) error {
		for _, d := range st.docs {
			if d.ID == id {
				d := d
				out = &d
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *DocumentRepo) GetByIdempotencyKey(ctx context.Context, storeID, key string) (*entity.StockDocument, error) {
	var out *entity.StockDocument
	err := r.read(ctx, func(st *state) error {
		for _, d := range st.docs {
			if d.StoreID == storeID && d.IdempotencyKey == key {
				d := d
				out = &d
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *DocumentRepo) List(ctx context.Context, f repository.DocumentFilter) ([]*entity.StockDocument, error) {
	var out []*entity.StockDocument
	err := r.read(ctx, func(st *state) error {
		matched := make([]*entity.StockDocument, 0)
		for i := len(st.docs) - 1; i >= 0; i-- {
			d := st.docs[i]
			if matches(d, f) {
				matched = append(matched, &d)
			}
		}
		lo, hi := page(len(matched), f.Limit, f.Offset)
		out = matched[lo:hi]
		return nil
	})
	return out, err
}

func (r *DocumentRepo) Count(ctx context.Context, f repository.DocumentFilter) (int, error) {
	n := 0
	err := r.read(ctx, func(st *state) error {
		for _, d := range st.docs {
			if matches(d, f) {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *DocumentRepo) SumByLine(ctx context.Context, storeID string) ([]repository.LineBalance, error) {
	var out []repository.LineBalance
	err := r.read(ctx, func(st *state) error {
		sums := map[lineKey]int64{}
		for _, d := range st.docs {
			if d.StoreID == storeID {
				sums[lineKey{d.ItemID, d.StorageID}] += d.Amount
			}
		}
		for k, total := range sums {
			out = append(out, repository.LineBalance{ItemID: k.item, StorageID: k.storage, Total: total})
		}
		return nil
	})
	return out, err
}

func matches(d entity.StockDocument, f repository.DocumentFilter) bool {
	if f.StoreID != "" && d.StoreID != f.StoreID {
		return false
	}
	if f.StorageID != "" && d.StorageID != f.StorageID {
		return false
	}
	if f.ItemID != "" && d.ItemID != f.ItemID {
		return false
	}
	if f.Kind != "" && d.Kind != f.Kind {
		return false
	}
	if f.Since != nil && d.CreatedAt.Before(*f.Since) {
		return false
	}
	return true
}

// CheckRepo inventarizaciones en memoria.
type CheckRepo struct{ handle }

func (r *CheckRepo) Create(ctx context.Context, check *entity.InventoryCheck) error {
	return r.write(ctx, func(st *state) error {
		if _, ok := st.storages[check.StorageID]; !ok {
			return domain.ErrNotFound
		}
		st.checks[check.ID] = copyCheck(*check)
		return nil
	})
}

func (r *CheckRepo) GetByID(ctx context.Context, id string) (*entity.InventoryCheck, error) {
	var out *entity.InventoryCheck
	err := r.read(ctx, func(st *state) error {
		if c, ok := st.checks[id]; ok {
			c = copyCheck(c)
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *CheckRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryCheck, error) {
	return r.GetByID(ctx, id)
}

func (r *CheckRepo) UpdateStatus(ctx context.Context, check *entity.InventoryCheck) error {
	return r.write(ctx, func(st *state) error {
		c, ok := st.checks[check.ID]
		if !ok {
			return domain.ErrNotFound
		}
		c.Status = check.Status
		c.UpdatedAt = check.UpdatedAt
		c.CompletedAt = check.CompletedAt
		st.checks[check.ID] = c
		return nil
	})
}

func (r *CheckRepo) UpsertLine(ctx context.Context, line *entity.InventoryCheckLine) error {
	if line.ActualAmount < 0 {
		return domain.ErrInvalidInput
	}
	return r.write(ctx, func(st *state) error {
		c, ok := st.checks[line.CheckID]
		if !ok {
			return domain.ErrNotFound
		}
		c = copyCheck(c)
		replaced := false
		for i := range c.Lines {
			if c.Lines[i].ItemID == line.ItemID {
				c.Lines[i] = *line
				replaced = true
			}
		}
		if !replaced {
			c.Lines = append(c.Lines, *line)
			sort.Slice(c.Lines, func(i, j int) bool { return c.Lines[i].ItemID < c.Lines[j].ItemID })
		}
		st.checks[line.CheckID] = c
		return nil
	})
}

// ListByStore devuelve cabeceras sin líneas, más recientes primero.
func (r *CheckRepo) ListByStore(ctx context.Context, storeID, status string, limit, offset int) ([]*entity.InventoryCheck, error) {
	var out []*entity.InventoryCheck
	err := r.read(ctx, func(st *state) error {
		all := make([]*entity.InventoryCheck, 0)
		for _, c := range st.checks {
			if c.StoreID != storeID || (status != "" && c.Status != status) {
				continue
			}
			c := copyCheck(c)
			c.Lines = nil
			all = append(all, &c)
		}
		sort.Slice(all, func(i, j int) bool {
			if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
				return all[i].CreatedAt.After(all[j].CreatedAt)
			}
			return all[i].ID < all[j].ID
		})
		lo, hi := page(len(all), limit, offset)
		out = all[lo:hi]
		return nil
	})
	return out, err
}

func (r *CheckRepo) HasOpenForStorage(ctx context.Context, storageID string) (bool, error) {
	found := false
	err := r.read(ctx, func(st *state) error {
		for _, c := range st.checks {
			if c.StorageID == storageID && (c.Status == entity.CheckStatusDraft || c.Status == entity.CheckStatusInProgress) {
				found = true
				return nil
			}
		}
		return nil
	})
	return found, err
}
