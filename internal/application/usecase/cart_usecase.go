package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/marketplace-api/internal/application/dto"
	"github.com/jhoicas/marketplace-api/internal/application/inventory"
	"github.com/jhoicas/marketplace-api/internal/domain"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	"github.com/jhoicas/marketplace-api/internal/domain/repository"
)

// CartUseCase gestiona el carrito del comprador. Ninguna operación toca el libro de stock.
type CartUseCase struct {
	carts repository.CartRepository
	items repository.ItemRepository
}

// NewCartUseCase construye el caso de uso.
func NewCartUseCase(carts repository.CartRepository, items repository.ItemRepository) *CartUseCase {
	return &CartUseCase{carts: carts, items: items}
}

// Get devuelve el contenido del carrito.
func (uc *CartUseCase) Get(ctx context.Context, userID string) (*dto.CartResponse, error) {
	list, err := uc.carts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := &dto.CartResponse{Items: make([]dto.CartItemResponse, 0, len(list))}
	for _, ci := range list {
		out.Items = append(out.Items, dto.CartItemResponse{ItemID: ci.ItemID, StoreID: ci.StoreID, Amount: ci.Amount})
	}
	return out, nil
}

// Add agrega amount unidades del item; si ya estaba en el carrito suma.
func (uc *CartUseCase) Add(ctx context.Context, userID string, in dto.CartItemRequest) (*dto.CartResponse, error) {
	if in.Amount <= 0 || in.ItemID == "" {
		return nil, domain.ErrInvalidInput
	}
	item, err := uc.activeItem(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	list, err := uc.carts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	amount := in.Amount
	for _, ci := range list {
		if ci.ItemID == in.ItemID {
			amount += ci.Amount
		}
	}
	if err := uc.upsert(ctx, userID, item, amount); err != nil {
		return nil, err
	}
	return uc.Get(ctx, userID)
}

// SetAmount fija la cantidad de un item del carrito.
func (uc *CartUseCase) SetAmount(ctx context.Context, userID, itemID string, amount int64) (*dto.CartResponse, error) {
	if amount <= 0 || itemID == "" {
		return nil, domain.ErrInvalidInput
	}
	item, err := uc.activeItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := uc.upsert(ctx, userID, item, amount); err != nil {
		return nil, err
	}
	return uc.Get(ctx, userID)
}

// Remove quita un item del carrito.
func (uc *CartUseCase) Remove(ctx context.Context, userID, itemID string) (*dto.CartResponse, error) {
	if err := uc.carts.Delete(ctx, userID, itemID); err != nil {
		return nil, err
	}
	return uc.Get(ctx, userID)
}

// Clear vacía el carrito.
func (uc *CartUseCase) Clear(ctx context.Context, userID string) error {
	return uc.carts.Clear(ctx, userID, "")
}

func (uc *CartUseCase) activeItem(ctx context.Context, itemID string) (*entity.Item, error) {
	if err := inventory.ValidateIDs(itemID); err != nil {
		return nil, err
	}
	item, err := uc.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil || !item.Active {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func (uc *CartUseCase) upsert(ctx context.Context, userID string, item *entity.Item, amount int64) error {
	now := time.Now()
	return uc.carts.Upsert(ctx, &entity.CartItem{
		UserID:    userID,
		ItemID:    item.ID,
		StoreID:   item.StoreID,
		Amount:    amount,
		CreatedAt: now,
		UpdatedAt: now,
	})
}
