package usecase

import (
	"context"
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

// ItemUseCase casos de uso CRUD para el catálogo de items. No toca el stock.
type ItemUseCase struct {
	repo     repository.ItemRepository
	registry *inventory.Registry
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository, registry *inventory.Registry) *ItemUseCase {
	return &ItemUseCase{repo: repo, registry: registry}
}

// Create crea un item. El almacén por defecto es obligatorio y debe ser de la misma tienda.
func (uc *ItemUseCase) Create(ctx context.Context, storeID string, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if strings.TrimSpace(in.Name) == "" || in.DefaultPrice.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if _, err := uc.registry.ResolveStorage(ctx, storeID, in.DefaultStorageID); err != nil {
		return nil, err
	}
	uom := in.UnitMeasure
	if uom == "" {
		uom = "und"
	}
	now := time.Now()
	item := &entity.Item{
		ID:               uuid.New().String(),
		StoreID:          storeID,
		Name:             in.Name,
		Description:      in.Description,
		UnitMeasure:      uom,
		DefaultPrice:     in.DefaultPrice.Round(2),
		DefaultStorageID: in.DefaultStorageID,
		Active:           true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// GetByID obtiene un item de la tienda.
func (uc *ItemUseCase) GetByID(ctx context.Context, storeID, id string) (*dto.ItemResponse, error) {
	item, err := uc.registry.ResolveItem(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// Update actualiza los datos de catálogo de un item.
func (uc *ItemUseCase) Update(ctx context.Context, storeID, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.registry.ResolveItem(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domain.ErrInvalidInput
		}
		item.Name = *in.Name
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.UnitMeasure != nil {
		item.UnitMeasure = *in.UnitMeasure
	}
	if in.DefaultPrice != nil {
		if in.DefaultPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		item.DefaultPrice = in.DefaultPrice.Round(2)
	}
	if in.DefaultStorageID != nil {
		if _, err := uc.registry.ResolveStorage(ctx, storeID, *in.DefaultStorageID); err != nil {
			return nil, err
		}
		item.DefaultStorageID = *in.DefaultStorageID
	}
	if in.Active != nil {
		item.Active = *in.Active
	}
	item.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// List lista items de la tienda; search filtra por nombre.
func (uc *ItemUseCase) List(ctx context.Context, storeID, search string, limit, offset int) (*dto.ItemListResponse, error) {
	list, err := uc.repo.ListByStore(ctx, storeID, search, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, *toItemResponse(it))
	}
	return &dto.ItemListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toItemResponse(it *entity.Item) *dto.ItemResponse {
	if it == nil {
		return nil
	}
	return &dto.ItemResponse{
		ID:               it.ID,
		StoreID:          it.StoreID,
		Name:             it.Name,
		Description:      it.Description,
		UnitMeasure:      it.UnitMeasure,
		DefaultPrice:     it.DefaultPrice,
		DefaultStorageID: it.DefaultStorageID,
		Active:           it.Active,
		CreatedAt:        it.CreatedAt,
		UpdatedAt:        it.UpdatedAt,
	}
}
