package inventory

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/marketplace-api/internal/domain"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	"github.com/jhoicas/marketplace-api/internal/domain/repository"
)

// Registry resuelve items y almacenes dentro de una tienda. Solo lectura: el libro nunca
// crea ni modifica catálogo.
type Registry struct {
	items    repository.ItemRepository
	storages repository.StorageRepository
}

// NewRegistry construye el resolvedor. Acepta repos del pool o de una transacción.
func NewRegistry(items repository.ItemRepository, storages repository.StorageRepository) *Registry {
	return &Registry{items: items, storages: storages}
}

// ValidateIDs devuelve ErrInvalidInput si algún id está vacío o no es un UUID.
// Todas las claves del esquema son UUID: un id mal formado es error del caller, no "no encontrado".
func ValidateIDs(ids ...string) error {
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return domain.ErrInvalidInput
		}
	}
	return nil
}

// ResolveItem devuelve el item si pertenece a la tienda.
// ErrNotFound si no existe, ErrScopeViolation si es de otra tienda.
func (r *Registry) ResolveItem(ctx context.Context, storeID, itemID string) (*entity.Item, error) {
	if err := ValidateIDs(itemID); err != nil {
		return nil, err
	}
	item, err := r.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if item.StoreID != storeID {
		return nil, domain.ErrScopeViolation
	}
	return item, nil
}

// ResolveStorage devuelve el almacén si pertenece a la tienda.
func (r *Registry) ResolveStorage(ctx context.Context, storeID, storageID string) (*entity.Storage, error) {
	if err := ValidateIDs(storageID); err != nil {
		return nil, err
	}
	s, err := r.storages.GetByID(ctx, storageID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	if s.StoreID != storeID {
		return nil, domain.ErrScopeViolation
	}
	return s, nil
}

// ResolveScope valida item y almacén de un movimiento.
func (r *Registry) ResolveScope(ctx context.Context, scope Scope) (*entity.Item, *entity.Storage, error) {
	if scope.StoreID == "" {
		return nil, nil, domain.ErrInvalidInput
	}
	item, err := r.ResolveItem(ctx, scope.StoreID, scope.ItemID)
	if err != nil {
		return nil, nil, err
	}
	storage, err := r.ResolveStorage(ctx, scope.StoreID, scope.StorageID)
	if err != nil {
		return nil, nil, err
	}
	return item, storage, nil
}
