package repository

import (
	"context"

	"github.com/jhoicas/marketplace-api/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para Item (DIP).
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	Update(ctx context.Context, item *entity.Item) error
	// ListByStore filtra por nombre (ILIKE) cuando search no está vacío.
	ListByStore(ctx context.Context, storeID, search string, limit, offset int) ([]*entity.Item, error)
}
