package repository

import (
	"context"

	"github.com/jhoicas/marketplace-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para Order y sus líneas.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// GetForUpdate carga el pedido con líneas y bloquea la cabecera.
	GetForUpdate(ctx context.Context, id string) (*entity.Order, error)
	UpdateStatus(ctx context.Context, order *entity.Order) error
	// SetLineStorages guarda el almacén de cada línea, el mismo del que salió el stock al confirmar.
	SetLineStorages(ctx context.Context, order *entity.Order) error
	ListByStore(ctx context.Context, storeID, status string, limit, offset int) ([]*entity.Order, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Order, error)
}
