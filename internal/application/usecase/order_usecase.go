package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/marketplace-api/internal/application/dto"
	"github.com/jhoicas/marketplace-api/internal/application/inventory"
	"github.com/jhoicas/marketplace-api/internal/domain"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	"github.com/jhoicas/marketplace-api/internal/domain/repository"
)

// OrderTransitioner aplica cambios de estado con efecto en el libro (confirmación, cancelación, devolución).
type OrderTransitioner interface {
	ConfirmAndReserve(ctx context.Context, storeID, userID, orderID string) (*entity.Order, error)
	Transition(ctx context.Context, storeID, userID, orderID, to string) (*entity.Order, error)
}

// OrderUseCase crea pedidos desde el carrito y delega los cambios de estado.
type OrderUseCase struct {
	txRunner     inventory.TxRunner
	orders       repository.OrderRepository
	transitioner OrderTransitioner
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(txRunner inventory.TxRunner, orders repository.OrderRepository, transitioner OrderTransitioner) *OrderUseCase {
	return &OrderUseCase{txRunner: txRunner, orders: orders, transitioner: transitioner}
}

// CreateFromCart crea un pedido pending con las líneas del carrito de una tienda y las quita del carrito.
// Precios: el precio por defecto de cada item. No descuenta stock.
func (uc *OrderUseCase) CreateFromCart(ctx context.Context, userID string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if err := inventory.ValidateIDs(in.StoreID); err != nil {
		return nil, err
	}
	now := time.Now()
	order := &entity.Order{
		ID:              uuid.New().String(),
		StoreID:         in.StoreID,
		UserID:          userID,
		OrderNumber:     newOrderNumber(),
		Status:          entity.OrderStatusPending,
		Comment:         in.Comment,
		DeliveryAddress: in.DeliveryAddress,
		TotalPrice:      decimal.Zero,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	err := uc.txRunner.Run(ctx, func(repos inventory.Repos) error {
		cart, err := repos.Carts.ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		registry := inventory.NewRegistry(repos.Items, repos.Storages)
		for _, ci := range cart {
			if ci.StoreID != in.StoreID {
				continue
			}
			item, err := registry.ResolveItem(ctx, in.StoreID, ci.ItemID)
			if err != nil {
				return err
			}
			if !item.Active {
				return domain.ErrInvalidInput
			}
			total := item.DefaultPrice.Mul(decimal.NewFromInt(ci.Amount))
			order.Lines = append(order.Lines, entity.OrderLine{
				ID:           uuid.New().String(),
				OrderID:      order.ID,
				ItemID:       item.ID,
				Amount:       ci.Amount,
				PricePerItem: item.DefaultPrice,
				TotalPrice:   total,
			})
			order.TotalPrice = order.TotalPrice.Add(total)
		}
		if len(order.Lines) == 0 {
			return domain.ErrInvalidInput
		}
		if err := repos.Orders.Create(ctx, order); err != nil {
			return err
		}
		return repos.Carts.Clear(ctx, userID, in.StoreID)
	})
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(order), nil
}

// Get obtiene un pedido visible para la tienda vendedora o para el comprador.
func (uc *OrderUseCase) Get(ctx context.Context, storeID, userID, id string) (*dto.OrderResponse, error) {
	if err := inventory.ValidateIDs(id); err != nil {
		return nil, err
	}
	order, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.StoreID != storeID && order.UserID != userID {
		return nil, domain.ErrScopeViolation
	}
	return ToOrderResponse(order), nil
}

// ListForStore lista los pedidos recibidos por la tienda.
func (uc *OrderUseCase) ListForStore(ctx context.Context, storeID, status string, limit, offset int) (*dto.OrderListResponse, error) {
	list, err := uc.orders.ListByStore(ctx, storeID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	return toOrderList(list, limit, offset), nil
}

// ListForBuyer lista los pedidos hechos por el usuario.
func (uc *OrderUseCase) ListForBuyer(ctx context.Context, userID string, limit, offset int) (*dto.OrderListResponse, error) {
	list, err := uc.orders.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return toOrderList(list, limit, offset), nil
}

// ChangeStatus cambia el estado de un pedido de la tienda. confirmed reserva stock.
func (uc *OrderUseCase) ChangeStatus(ctx context.Context, storeID, userID, id, status string) (*dto.OrderResponse, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, domain.ErrInvalidInput
	}
	var (
		order *entity.Order
		err   error
	)
	if status == entity.OrderStatusConfirmed {
		order, err = uc.transitioner.ConfirmAndReserve(ctx, storeID, userID, id)
	} else {
		order, err = uc.transitioner.Transition(ctx, storeID, userID, id, status)
	}
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(order), nil
}

// newOrderNumber genera ORD- seguido de 8 hex en mayúsculas.
func newOrderNumber() string {
	return fmt.Sprintf("ORD-%s", strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8]))
}

func toOrderList(list []*entity.Order, limit, offset int) *dto.OrderListResponse {
	items := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *ToOrderResponse(o))
	}
	return &dto.OrderListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}
}

// ToOrderResponse convierte la entidad al DTO de salida.
func ToOrderResponse(o *entity.Order) *dto.OrderResponse {
	if o == nil {
		return nil
	}
	lines := make([]dto.OrderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, dto.OrderLineResponse{
			ID:           l.ID,
			ItemID:       l.ItemID,
			StorageID:    l.StorageID,
			Amount:       l.Amount,
			PricePerItem: l.PricePerItem,
			TotalPrice:   l.TotalPrice,
		})
	}
	return &dto.OrderResponse{
		ID:              o.ID,
		StoreID:         o.StoreID,
		UserID:          o.UserID,
		OrderNumber:     o.OrderNumber,
		Status:          o.Status,
		Comment:         o.Comment,
		DeliveryAddress: o.DeliveryAddress,
		TotalPrice:      o.TotalPrice,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		Lines:           lines,
	}
}
