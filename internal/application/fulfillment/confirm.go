package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/marketplace-api/internal/application/inventory"
	"github.com/jhoicas/marketplace-api/internal/domain"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	orderstate "github.com/jhoicas/marketplace-api/internal/domain/inventory"
)

// Service traduce los cambios de estado de un pedido en movimientos del libro.
// Agregar al carrito o crear el pedido nunca pasa por aquí.
type Service struct {
	txRunner inventory.TxRunner
	issuer   StockIssuer
	receiver StockReceiver
	cache    inventory.StockCache
	log      zerolog.Logger
	now      func() time.Time
}

// NewService construye el puente pedido → libro. cache puede ser nil.
func NewService(
	txRunner inventory.TxRunner,
	issuer StockIssuer,
	receiver StockReceiver,
	cache inventory.StockCache,
	log zerolog.Logger,
) *Service {
	if cache == nil {
		cache = inventory.NoopCache{}
	}
	return &Service{
		txRunner: txRunner,
		issuer:   issuer,
		receiver: receiver,
		cache:    cache,
		log:      log,
		now:      time.Now,
	}
}

// reservation línea de pedido con su almacén ya resuelto.
type reservation struct {
	line      entity.OrderLine
	storageID string
}

// ConfirmAndReserve pasa el pedido de pending a confirmed descontando cada línea del libro.
// Si alguna línea no tiene stock se deshace todo, el pedido sigue en pending y el error
// (*domain.FulfillmentError) lista todas las líneas rechazadas.
func (s *Service) ConfirmAndReserve(ctx context.Context, storeID, userID, orderID string) (*entity.Order, error) {
	var out *entity.Order
	err := s.txRunner.Run(ctx, func(repos inventory.Repos) error {
		order, err := lockOrder(ctx, repos, storeID, orderID)
		if err != nil {
			return err
		}
		if order.Status != entity.OrderStatusPending {
			return domain.ErrInvalidState
		}

		plan, err := resolveStorages(ctx, repos, order)
		if err != nil {
			return err
		}

		var shortages []*domain.InsufficientStockError
		for _, r := range plan {
			_, err := s.issuer.IssueInTx(ctx, repos, inventory.WriteOffInput{
				StoreID:        storeID,
				UserID:         userID,
				ItemID:         r.line.ItemID,
				StorageID:      r.storageID,
				Amount:         r.line.Amount,
				DocumentNumber: order.OrderNumber,
				Reason:         "pedido confirmado",
				OrderID:        order.ID,
			})
			var short *domain.InsufficientStockError
			if errors.As(err, &short) {
				shortages = append(shortages, short)
				continue
			}
			if err != nil {
				return err
			}
		}
		if len(shortages) > 0 {
			return &domain.FulfillmentError{OrderID: order.ID, Shortages: shortages}
		}

		// la liberación posterior devuelve el stock a estos mismos almacenes
		storages := make(map[string]string, len(plan))
		for _, r := range plan {
			storages[r.line.ID] = r.storageID
		}
		for i := range order.Lines {
			order.Lines[i].StorageID = storages[order.Lines[i].ID]
		}
		if err := repos.Orders.SetLineStorages(ctx, order); err != nil {
			return err
		}

		order.Status = entity.OrderStatusConfirmed
		order.UpdatedAt = s.now()
		if err := repos.Orders.UpdateStatus(ctx, order); err != nil {
			return err
		}
		out = order
		return nil
	})
	if err != nil {
		s.log.Info().Err(err).Str("order_id", orderID).Msg("confirmación de pedido rechazada")
		return nil, err
	}
	s.invalidate(ctx, storeID)
	s.log.Debug().Str("order_id", orderID).Int("lines", len(out.Lines)).Msg("pedido confirmado y stock reservado")
	return out, nil
}

// Transition aplica un cambio manual de estado. Pasar a confirmed delega en ConfirmAndReserve;
// cancelar un pedido confirmado o devolver uno entregado contabiliza entradas compensatorias
// (los documentos de salida originales nunca se borran).
func (s *Service) Transition(ctx context.Context, storeID, userID, orderID, to string) (*entity.Order, error) {
	if to == entity.OrderStatusConfirmed {
		return s.ConfirmAndReserve(ctx, storeID, userID, orderID)
	}
	var out *entity.Order
	released := false
	err := s.txRunner.Run(ctx, func(repos inventory.Repos) error {
		order, err := lockOrder(ctx, repos, storeID, orderID)
		if err != nil {
			return err
		}
		from := order.Status
		if err := orderstate.CanTransitionOrder(from, to); err != nil {
			return err
		}
		if orderstate.ReleasesStock(from, to) {
			if err := s.release(ctx, repos, userID, order, to); err != nil {
				return err
			}
			released = true
		}
		order.Status = to
		order.UpdatedAt = s.now()
		if err := repos.Orders.UpdateStatus(ctx, order); err != nil {
			return err
		}
		out = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	if released {
		s.invalidate(ctx, storeID)
	}
	return out, nil
}

// release devuelve al libro lo descontado al confirmar, en los almacenes guardados en cada línea.
func (s *Service) release(ctx context.Context, repos inventory.Repos, userID string, order *entity.Order, to string) error {
	plan, err := resolveStorages(ctx, repos, order)
	if err != nil {
		return err
	}
	for _, r := range plan {
		if _, err := s.receiver.ReceiveInTx(ctx, repos, inventory.ReceiptInput{
			StoreID:        order.StoreID,
			UserID:         userID,
			ItemID:         r.line.ItemID,
			StorageID:      r.storageID,
			Amount:         r.line.Amount,
			DocumentNumber: order.OrderNumber,
			Notes:          fmt.Sprintf("pedido %s: %s", order.OrderNumber, to),
			OrderID:        order.ID,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) invalidate(ctx context.Context, storeID string) {
	if err := s.cache.Invalidate(ctx, storeID); err != nil {
		s.log.Warn().Err(err).Str("store_id", storeID).Msg("no se pudo invalidar caché de stock")
	}
}

func lockOrder(ctx context.Context, repos inventory.Repos, storeID, orderID string) (*entity.Order, error) {
	if err := inventory.ValidateIDs(orderID); err != nil {
		return nil, err
	}
	order, err := repos.Orders.GetForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.StoreID != storeID {
		return nil, domain.ErrScopeViolation
	}
	return order, nil
}

// resolveStorages asigna a cada línea su almacén (el guardado en la línea o el por defecto del item)
// y ordena por (item, almacén) para bloquear siempre en el mismo orden.
func resolveStorages(ctx context.Context, repos inventory.Repos, order *entity.Order) ([]reservation, error) {
	if len(order.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	registry := inventory.NewRegistry(repos.Items, repos.Storages)
	plan := make([]reservation, 0, len(order.Lines))
	for _, l := range order.Lines {
		storageID := l.StorageID
		if storageID == "" {
			item, err := registry.ResolveItem(ctx, order.StoreID, l.ItemID)
			if err != nil {
				return nil, err
			}
			storageID = item.DefaultStorageID
		}
		plan = append(plan, reservation{line: l, storageID: storageID})
	}
	sort.SliceStable(plan, func(i, j int) bool {
		if plan[i].line.ItemID != plan[j].line.ItemID {
			return plan[i].line.ItemID < plan[j].line.ItemID
		}
		return plan[i].storageID < plan[j].storageID
	})
	return plan, nil
}
