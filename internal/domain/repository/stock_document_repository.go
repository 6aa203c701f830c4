package repository

import (
	"context"
	"time"

	"github.com/jhoicas/marketplace-api/internal/domain/entity"
)

// DocumentFilter filtra el historial de documentos de una tienda. Campos vacíos no filtran.
type DocumentFilter struct {
	StoreID   string
	StorageID string
	ItemID    string
	Kind      string
	Since     *time.Time
	Limit     int
	Offset    int
}

// LineBalance es la suma de documentos de una línea (item, almacén). Usado por la auditoría.
type LineBalance struct {
	ItemID    string
	StorageID string
	Total     int64
}

// StockDocumentRepository define el puerto del registro append-only de documentos.
// No existe Update ni Delete.
type StockDocumentRepository interface {
	// Create inserta el documento y asigna ID y CreatedAt.
	Create(ctx context.Context, doc *entity.StockDocument) error
	GetByID(ctx context.Context, id int64) (*entity.StockDocument, error)
	GetByIdempotencyKey(ctx context.Context, storeID, key string) (*entity.StockDocument, error)
	// List devuelve documentos del más reciente al más antiguo.
	List(ctx context.Context, f DocumentFilter) ([]*entity.StockDocument, error)
	Count(ctx context.Context, f DocumentFilter) (int, error)
	SumByLine(ctx context.Context, storeID string) ([]LineBalance, error)
}
