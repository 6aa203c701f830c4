package inventory

import (
	"github.com/jhoicas/marketplace-api/internal/domain"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
)

// orderTransitions transiciones manuales permitidas. pending → confirmed no está aquí:
// solo la confirmación con reserva de stock puede hacerla.
var orderTransitions = map[string][]string{
	entity.OrderStatusPending:    {entity.OrderStatusCancelled},
	entity.OrderStatusConfirmed:  {entity.OrderStatusProcessing, entity.OrderStatusCancelled},
	entity.OrderStatusProcessing: {entity.OrderStatusShipped, entity.OrderStatusCancelled},
	entity.OrderStatusShipped:    {entity.OrderStatusDelivered},
	entity.OrderStatusDelivered:  {entity.OrderStatusReturned},
}

// CanTransitionOrder valida un cambio manual de estado de pedido.
func CanTransitionOrder(from, to string) error {
	for _, s := range orderTransitions[from] {
		if s == to {
			return nil
		}
	}
	return domain.ErrInvalidState
}

// ReleasesStock indica si la transición devuelve al libro el stock descontado al confirmar.
func ReleasesStock(from, to string) bool {
	switch to {
	case entity.OrderStatusCancelled:
		return from == entity.OrderStatusConfirmed || from == entity.OrderStatusProcessing
	case entity.OrderStatusReturned:
		return from == entity.OrderStatusDelivered
	}
	return false
}
