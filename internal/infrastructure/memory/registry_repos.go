package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/marketplace-api/internal/domain"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	"github.com/jhoicas/marketplace-api/internal/domain/repository"
)

var (
	_ repository.StoreRepository   = (*StoreRepo)(nil)
	_ repository.UserRepository    = (*UserRepo)(nil)
	_ repository.StorageRepository = (*StorageRepo)(nil)
	_ repository.ItemRepository    = (*ItemRepo)(nil)
)

// StoreRepo tiendas en memoria.
type StoreRepo struct{ handle }

func (r *StoreRepo) Create(ctx context.Context, store *entity.Store) error {
	return r.write(ctx, func(st *state) error {
		for _, s := range st.stores {
			if s.Name == store.Name {
				return domain.ErrDuplicate
			}
		}
		st.stores[store.ID] = *store
		return nil
	})
}

func (r *StoreRepo) GetByID(ctx context.Context, id string) (*entity.Store, error) {
	var out *entity.Store
	err := r.read(ctx, func(st *state) error {
		if s, ok := st.stores[id]; ok {
			out = &s
		}
		return nil
	})
	return out, err
}

func (r *StoreRepo) GetByOwner(ctx context.Context, ownerID string) (*entity.Store, error) {
	var out *entity.Store
	err := r.read(ctx, func(st *state) error {
		for _, s := range st.stores {
			if s.OwnerID == ownerID {
				s := s
				out = &s
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *StoreRepo) List(ctx context.Context, limit, offset int) ([]*entity.Store, error) {
	var out []*entity.Store
	err := r.read(ctx, func(st *state) error {
		all := make([]*entity.Store, 0, len(st.stores))
		for _, s := range st.stores {
			s := s
			all = append(all, &s)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
		lo, hi := page(len(all), limit, offset)
		out = all[lo:hi]
		return nil
	})
	return out, err
}

func (r *StoreRepo) Update(ctx context.Context, store *entity.Store) error {
	return r.write(ctx, func(st *state) error {
		if _, ok := st.stores[store.ID]; !ok {
			return nil
		}
		for _, s := range st.stores {
			if s.ID != store.ID && s.Name == store.Name {
				return domain.ErrDuplicate
			}
		}
		st.stores[store.ID] = *store
		return nil
	})
}

// UserRepo usuarios en memoria.
type UserRepo struct{ handle }

func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	return r.write(ctx, func(st *state) error {
		for _, u := range st.users {
			if u.Email == user.Email {
				return domain.ErrEmailAlreadyExists
			}
		}
		if _, ok := st.stores[user.StoreID]; !ok {
			return domain.ErrNotFound
		}
		st.users[user.ID] = *user
		return nil
	})
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.read(ctx, func(st *state) error {
		if u, ok := st.users[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.read(ctx, func(st *state) error {
		for _, u := range st.users {
			if u.Email == email {
				u := u
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	return r.write(ctx, func(st *state) error {
		if _, ok := st.users[user.ID]; ok {
			st.users[user.ID] = *user
		}
		return nil
	})
}

// StorageRepo almacenes en memoria.
type StorageRepo struct{ handle }

func (r *StorageRepo) Create(ctx context.Context, storage *entity.Storage) error {
	return r.write(ctx, func(st *state) error {
		if _, ok := st.stores[storage.StoreID]; !ok {
			return domain.ErrNotFound
		}
		st.storages[storage.ID] = *storage
		return nil
	})
}

func (r *StorageRepo) GetByID(ctx context.Context, id string) (*entity.Storage, error) {
	var out *entity.Storage
	err := r.read(ctx, func(st *state) error {
		if s, ok := st.storages[id]; ok {
			out = &s
		}
		return nil
	})
	return out, err
}

func (r *StorageRepo) Update(ctx context.Context, storage *entity.Storage) error {
	return r.write(ctx, func(st *state) error {
		if _, ok := st.storages[storage.ID]; ok {
			st.storages[storage.ID] = *storage
		}
		return nil
	})
}

func (r *StorageRepo) ListByStore(ctx context.Context, storeID string, limit, offset int) ([]*entity.Storage, error) {
	var out []*entity.Storage
	err := r.read(ctx, func(st *state) error {
		all := make([]*entity.Storage, 0)
		for _, s := range st.storages {
			if s.StoreID == storeID {
				s := s
				all = append(all, &s)
			}
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

// Delete borra el almacén y sus líneas en 0. Igual que las FK de la BD, falla con ErrConflict
// si algún item lo usa como almacén por defecto o si hay documentos que lo referencian.
func (r *StorageRepo) Delete(ctx context.Context, id string) error {
	return r.write(ctx, func(st *state) error {
		for _, it := range st.items {
			if it.DefaultStorageID == id {
				return domain.ErrConflict
			}
		}
		for _, d := range st.docs {
			if d.StorageID == id {
				return domain.ErrConflict
			}
		}
		for _, c := range st.checks {
			if c.StorageID == id {
				return domain.ErrConflict
			}
		}
		for k, l := range st.stock {
			if k.storage == id {
				if l.Quantity != 0 {
					return domain.ErrConflict
				}
				delete(st.stock, k)
			}
		}
		delete(st.storages, id)
		return nil
	})
}

// ItemRepo items en memoria.
type ItemRepo struct{ handle }

func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	return r.write(ctx, func(st *state) error {
		s, ok := st.storages[item.DefaultStorageID]
		if !ok || s.StoreID != item.StoreID {
			return domain.ErrNotFound
		}
		st.items[item.ID] = *item
		return nil
	})
}

func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	var out *entity.Item
	err := r.read(ctx, func(st *state) error {
		if it, ok := st.items[id]; ok {
			out = &it
		}
		return nil
	})
	return out, err
}

func (r *ItemRepo) Update(ctx context.Context, item *entity.Item) error {
	return r.write(ctx, func(st *state) error {
		if _, ok := st.items[item.ID]; ok {
			st.items[item.ID] = *item
		}
		return nil
	})
}

func (r *ItemRepo) ListByStore(ctx context.Context, storeID, search string, limit, offset int) ([]*entity.Item, error) {
	search = strings.ToLower(search)
	var out []*entity.Item
	err := r.read(ctx, func(st *state) error {
		all := make([]*entity.Item, 0)
		for _, it := range st.items {
			if it.StoreID != storeID {
				continue
			}
			if search != "" && !strings.Contains(strings.ToLower(it.Name), search) {
				continue
			}
			it := it
			all = append(all, &it)
		}
		sort.Slice(all, func(i, j int) bool {
			if all[i].Name != all[j].Name {
				return all[i].Name < all[j].Name
			}
			return all[i].ID < all[j].ID
		})
		lo, hi := page(len(all), limit, offset)
		out = all[lo:hi]
		return nil
	})
	return out, err
}
