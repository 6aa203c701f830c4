package inventory

import (
	"context"

	"github.com/jhoicas/marketplace-api/internal/domain"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	"github.com/jhoicas/marketplace-api/internal/domain/repository"
)

// DocumentQuery filtro del historial de movimientos.
type DocumentQuery struct {
	StoreID   string
	StorageID string
	ItemID    string
	Kind      string
	Limit     int
	Offset    int
}

// DocumentsUseCase consulta el historial de documentos contabilizados (solo lectura).
type DocumentsUseCase struct {
	docs     repository.StockDocumentRepository
	stock    repository.StockRepository
	registry *Registry
}

// NewDocumentsUseCase construye el caso de uso.
func NewDocumentsUseCase(docs repository.StockDocumentRepository, stock repository.StockRepository, registry *Registry) *DocumentsUseCase {
	return &DocumentsUseCase{docs: docs, stock: stock, registry: registry}
}

// List devuelve documentos del más reciente al más antiguo y el total que cumple el filtro.
func (uc *DocumentsUseCase) List(ctx context.Context, q DocumentQuery) ([]*entity.StockDocument, int, error) {
	if q.StoreID == "" {
		return nil, 0, domain.ErrInvalidInput
	}
	switch q.Kind {
	case "", entity.DocumentKindReceipt, entity.DocumentKindWriteOff, entity.DocumentKindAdjustment:
	default:
		return nil, 0, domain.ErrInvalidInput
	}
	if q.StorageID != "" {
		if _, err := uc.registry.ResolveStorage(ctx, q.StoreID, q.StorageID); err != nil {
			return nil, 0, err
		}
	}
	if q.ItemID != "" {
		if _, err := uc.registry.ResolveItem(ctx, q.StoreID, q.ItemID); err != nil {
			return nil, 0, err
		}
	}
	if q.Limit <= 0 {
		q.Limit = 20
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	f := repository.DocumentFilter{
		StoreID:   q.StoreID,
		StorageID: q.StorageID,
		ItemID:    q.ItemID,
		Kind:      q.Kind,
		Limit:     q.Limit,
		Offset:    q.Offset,
	}
	list, err := uc.docs.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := uc.docs.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Get obtiene un documento de la tienda.
func (uc *DocumentsUseCase) Get(ctx context.Context, storeID string, id int64) (*entity.StockDocument, error) {
	doc, err := uc.docs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	if doc.StoreID != storeID {
		return nil, domain.ErrScopeViolation
	}
	return doc, nil
}

// StockLine devuelve la cantidad actual de un item en un almacén (lectura sin bloqueo).
func (uc *DocumentsUseCase) StockLine(ctx context.Context, storeID, itemID, storageID string) (*entity.StockLine, error) {
	if _, _, err := uc.registry.ResolveScope(ctx, Scope{StoreID: storeID, ItemID: itemID, StorageID: storageID}); err != nil {
		return nil, err
	}
	return uc.stock.Get(ctx, itemID, storageID)
}
