package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/marketplace-api/internal/domain"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	"github.com/jhoicas/marketplace-api/internal/domain/repository"
)

var (
	_ repository.CartRepository  = (*CartRepo)(nil)
	_ repository.OrderRepository = (*OrderRepo)(nil)
)

// CartRepo carritos en memoria.
type CartRepo struct{ handle }

func (r *CartRepo) ListByUser(ctx context.Context, userID string) ([]*entity.CartItem, error) {
	var out []*entity.CartItem
	err := r.read(ctx, func(st *state) error {
		for k, ci := range st.carts {
			if k.user == userID {
				ci := ci
				out = append(out, &ci)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt) || (out[i].CreatedAt.Equal(out[j].CreatedAt) && out[i].ItemID < out[j].ItemID)
	})
	return out, err
}

func (r *CartRepo) Upsert(ctx context.Context, item *entity.CartItem) error {
	if item.Amount <= 0 {
		return domain.ErrInvalidInput
	}
	return r.write(ctx, func(st *state) error {
		k := cartKey{item.UserID, item.ItemID}
		if prev, ok := st.carts[k]; ok {
			item.CreatedAt = prev.CreatedAt
		}
		st.carts[k] = *item
		return nil
	})
}

func (r *CartRepo) Delete(ctx context.Context, userID, itemID string) error {
	return r.write(ctx, func(st *state) error {
		delete(st.carts, cartKey{userID, itemID})
		return nil
	})
}

func (r *CartRepo) Clear(ctx context.Context, userID, storeID string) error {
	return r.write(ctx, func(st *state) error {
		for k, ci := range st.carts {
			if k.user == userID && (storeID == "" || ci.StoreID == storeID) {
				delete(st.carts, k)
			}
		}
		return nil
	})
}

// OrderRepo pedidos en memoria.
type OrderRepo struct{ handle }

func (r *OrderRepo) Create(ctx context.Context, order *entity.Order) error {
	return r.write(ctx, func(st *state) error {
		for _, o := range st.orders {
			if o.OrderNumber == order.OrderNumber {
				return domain.ErrDuplicate
			}
		}
		for _, l := range order.Lines {
			if l.Amount <= 0 {
				return domain.ErrInvalidInput
			}
		}
		st.orders[order.ID] = copyOrder(*order)
		return nil
	})
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	var out *entity.Order
	err := r.read(ctx, func(st *state) error {
		if o, ok := st.orders[id]; ok {
			o = copyOrder(o)
			out = &o
		}
		return nil
	})
	return out, err
}

func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, order *entity.Order) error {
	return r.write(ctx, func(st *state) error {
		o, ok := st.orders[order.ID]
		if !ok {
			return domain.ErrNotFound
		}
		o.Status = order.Status
		o.UpdatedAt = order.UpdatedAt
		st.orders[order.ID] = o
		return nil
	})
}

func (r *OrderRepo) SetLineStorages(ctx context.Context, order *entity.Order) error {
	return r.write(ctx, func(st *state) error {
		o, ok := st.orders[order.ID]
		if !ok {
			return domain.ErrNotFound
		}
		o = copyOrder(o)
		byID := make(map[string]string, len(order.Lines))
		for _, l := range order.Lines {
			byID[l.ID] = l.StorageID
		}
		for i := range o.Lines {
			if s, ok := byID[o.Lines[i].ID]; ok {
				o.Lines[i].StorageID = s
			}
		}
		st.orders[order.ID] = o
		return nil
	})
}

func (r *OrderRepo) ListByStore(ctx context.Context, storeID, status string, limit, offset int) ([]*entity.Order, error) {
	return r.list(ctx, limit, offset, func(o entity.Order) bool {
		return o.StoreID == storeID && (status == "" || o.Status == status)
	})
}

func (r *OrderRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Order, error) {
	return r.list(ctx, limit, offset, func(o entity.Order) bool { return o.UserID == userID })
}

func (r *OrderRepo) list(ctx context.Context, limit, offset int, keep func(entity.Order) bool) ([]*entity.Order, error) {
	var out []*entity.Order
	err := r.read(ctx, func(st *state) error {
		all := make([]*entity.Order, 0)
		for _, o := range st.orders {
			if keep(o) {
				o := copyOrder(o)
				all = append(all, &o)
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
