package repository

import (
	"context"

	"github.com/jhoicas/marketplace-api/internal/domain/entity"
)

// StorageRepository define el puerto de persistencia para Storage (DIP).
type StorageRepository interface {
	Create(ctx context.Context, storage *entity.Storage) error
	GetByID(ctx context.Context, id string) (*entity.Storage, error)
	Update(ctx context.Context, storage *entity.Storage) error
	ListByStore(ctx context.Context, storeID string, limit, offset int) ([]*entity.Storage, error)
	Delete(ctx context.Context, id string) error
}
