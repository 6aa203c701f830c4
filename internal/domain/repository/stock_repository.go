package repository

import (
	"context"

	"github.com/jhoicas/marketplace-api/internal/domain/entity"
)

// StockRepository define el puerto del libro de cantidades (StockLine por item+almacén).
// Las escrituras solo ocurren dentro de una transacción del TxRunner.
type StockRepository interface {
	// Get devuelve la línea sin bloquear; si no existe devuelve una línea con cantidad 0.
	Get(ctx context.Context, itemID, storageID string) (*entity.StockLine, error)
	// GetForUpdate crea la línea con cantidad 0 si no existe y la bloquea (SELECT FOR UPDATE)
	// hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, storeID, itemID, storageID string) (*entity.StockLine, error)
	// SetQuantity escribe la cantidad de una línea previamente bloqueada.
	SetQuantity(ctx context.Context, line *entity.StockLine) error
	ListByStorage(ctx context.Context, storageID string) ([]*entity.StockLine, error)
	ListByStore(ctx context.Context, storeID string) ([]*entity.StockLine, error)
	// HasStock indica si alguna línea del almacén tiene cantidad distinta de cero.
	HasStock(ctx context.Context, storageID string) (bool, error)
}
