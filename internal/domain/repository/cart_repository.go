package repository

import (
	"context"

	"github.com/jhoicas/marketplace-api/internal/domain/entity"
)

// CartRepository define el puerto de persistencia del carrito de compras.
type CartRepository interface {
	ListByUser(ctx context.Context, userID string) ([]*entity.CartItem, error)
	Upsert(ctx context.Context, item *entity.CartItem) error
	Delete(ctx context.Context, userID, itemID string) error
	// Clear vacía el carrito; si storeID no está vacío solo borra las líneas de esa tienda.
	Clear(ctx context.Context, userID, storeID string) error
}
