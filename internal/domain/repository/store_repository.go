package repository

import (
	"context"

	"github.com/jhoicas/marketplace-api/internal/domain/entity"
)

// StoreRepository define el puerto de persistencia para Store (DIP).
// La implementación vive en infrastructure.
type StoreRepository interface {
	Create(ctx context.Context, store *entity.Store) error
	GetByID(ctx context.Context, id string) (*entity.Store, error)
	GetByOwner(ctx context.Context, ownerID string) (*entity.Store, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Store, error)
	Update(ctx context.Context, store *entity.Store) error
}
