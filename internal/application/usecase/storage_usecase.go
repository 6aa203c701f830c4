package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/marketplace-api/internal/application/dto"
	"github.com/jhoicas/marketplace-api/internal/application/inventory"
	"github.com/jhoicas/marketplace-api/internal/domain"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	"github.com/jhoicas/marketplace-api/internal/domain/repository"
)

// StorageUseCase casos de uso CRUD para almacenes.
type StorageUseCase struct {
	repo     repository.StorageRepository
	txRunner inventory.TxRunner
}

// NewStorageUseCase construye el caso de uso.
func NewStorageUseCase(repo repository.StorageRepository, txRunner inventory.TxRunner) *StorageUseCase {
	return &StorageUseCase{repo: repo, txRunner: txRunner}
}

// Create crea un nuevo almacén en la tienda.
func (uc *StorageUseCase) Create(ctx context.Context, storeID string, in dto.CreateStorageRequest) (*dto.StorageResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	storage := &entity.Storage{
		ID:        uuid.New().String(),
		StoreID:   storeID,
		Name:      in.Name,
		City:      in.City,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, storage); err != nil {
		return nil, err
	}
	return toStorageResponse(storage), nil
}

// GetByID obtiene un almacén de la tienda.
func (uc *StorageUseCase) GetByID(ctx context.Context, storeID, id string) (*dto.StorageResponse, error) {
	storage, err := uc.get(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	return toStorageResponse(storage), nil
}

// Update actualiza un almacén.
func (uc *StorageUseCase) Update(ctx context.Context, storeID, id string, in dto.UpdateStorageRequest) (*dto.StorageResponse, error) {
	storage, err := uc.get(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domain.ErrInvalidInput
		}
		storage.Name = *in.Name
	}
	if in.City != nil {
		storage.City = *in.City
	}
	if in.Address != nil {
		storage.Address = *in.Address
	}
	storage.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, storage); err != nil {
		return nil, err
	}
	return toStorageResponse(storage), nil
}

// List lista almacenes de la tienda con paginación.
func (uc *StorageUseCase) List(ctx context.Context, storeID string, limit, offset int) (*dto.StorageListResponse, error) {
	list, err := uc.repo.ListByStore(ctx, storeID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StorageResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toStorageResponse(s))
	}
	return &dto.StorageListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina un almacén solo si todas sus líneas de stock están en 0 y no tiene
// inventarizaciones abiertas. Devuelve ErrConflict en otro caso.
func (uc *StorageUseCase) Delete(ctx context.Context, storeID, id string) error {
	return uc.txRunner.Run(ctx, func(repos inventory.Repos) error {
		if _, err := inventory.NewRegistry(repos.Items, repos.Storages).ResolveStorage(ctx, storeID, id); err != nil {
			return err
		}
		hasStock, err := repos.Stock.HasStock(ctx, id)
		if err != nil {
			return err
		}
		if hasStock {
			return domain.ErrConflict
		}
		open, err := repos.Checks.HasOpenForStorage(ctx, id)
		if err != nil {
			return err
		}
		if open {
			return domain.ErrConflict
		}
		return repos.Storages.Delete(ctx, id)
	})
}

func (uc *StorageUseCase) get(ctx context.Context, storeID, id string) (*entity.Storage, error) {
	if err := inventory.ValidateIDs(id); err != nil {
		return nil, err
	}
	storage, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if storage == nil {
		return nil, domain.ErrNotFound
	}
	if storage.StoreID != storeID {
		return nil, domain.ErrScopeViolation
	}
	return storage, nil
}

func toStorageResponse(s *entity.Storage) *dto.StorageResponse {
	if s == nil {
		return nil
	}
	return &dto.StorageResponse{
		ID:        s.ID,
		StoreID:   s.StoreID,
		Name:      s.Name,
		City:      s.City,
		Address:   s.Address,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
