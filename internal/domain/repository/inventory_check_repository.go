package repository

import (
	"context"

	"github.com/jhoicas/marketplace-api/internal/domain/entity"
)

// InventoryCheckRepository define el puerto de persistencia para inventarizaciones y sus líneas.
type InventoryCheckRepository interface {
	// Create persiste la cabecera y las líneas iniciales.
	Create(ctx context.Context, check *entity.InventoryCheck) error
	// GetByID carga cabecera y líneas (ordenadas por item_id).
	GetByID(ctx context.Context, id string) (*entity.InventoryCheck, error)
	// GetForUpdate igual que GetByID pero bloquea la cabecera hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.InventoryCheck, error)
	UpdateStatus(ctx context.Context, check *entity.InventoryCheck) error
	UpsertLine(ctx context.Context, line *entity.InventoryCheckLine) error
	ListByStore(ctx context.Context, storeID, status string, limit, offset int) ([]*entity.InventoryCheck, error)
	// HasOpenForStorage indica si hay inventarizaciones draft o in_progress sobre el almacén.
	HasOpenForStorage(ctx context.Context, storageID string) (bool, error)
}
