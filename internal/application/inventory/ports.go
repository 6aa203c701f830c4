package inventory

import (
	"context"

	"github.com/jhoicas/marketplace-api/internal/domain/repository"
)

// Repos agrupa los repositorios atados a una misma transacción.
type Repos struct {
	Stock     repository.StockRepository
	Documents repository.StockDocumentRepository
	Checks    repository.InventoryCheckRepository
	Orders    repository.OrderRepository
	Items     repository.ItemRepository
	Storages  repository.StorageRepository
	Carts     repository.CartRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error no queda nada aplicado (Rollback). Garantiza atomicidad del libro de stock.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repos) error) error
}

// StockCache invalida lecturas cacheadas del resumen de stock tras un movimiento.
// Implementación opcional (Redis); nil-safe vía NoopCache.
type StockCache interface {
	GetOverview(ctx context.Context, storeID string, dst any) (bool, error)
	SetOverview(ctx context.Context, storeID string, v any) error
	Invalidate(ctx context.Context, storeID string) error
}

// NoopCache no cachea nada.
type NoopCache struct{}

func (NoopCache) GetOverview(context.Context, string, any) (bool, error) { return false, nil }
func (NoopCache) SetOverview(context.Context, string, any) error         { return nil }
func (NoopCache) Invalidate(context.Context, string) error               { return nil }
