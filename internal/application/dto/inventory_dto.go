package dto

import "time"

// ReceiptRequest body para POST /api/inventory/receipts.
type ReceiptRequest struct {
	ItemID         string `json:"item_id" validate:"required,uuid"`
	StorageID      string `json:"storage_id" validate:"required,uuid"`
	Amount         int64  `json:"amount" validate:"required,gt=0"`
	DocumentNumber string `json:"document_number"`
	Supplier       string `json:"supplier"`
	Notes          string `json:"notes"`
}

// WriteOffRequest body para POST /api/inventory/write-offs.
type WriteOffRequest struct {
	ItemID         string `json:"item_id" validate:"required,uuid"`
	StorageID      string `json:"storage_id" validate:"required,uuid"`
	Amount         int64  `json:"amount" validate:"required,gt=0"`
	DocumentNumber string `json:"document_number"`
	Reason         string `json:"reason"`
	Notes          string `json:"notes"`
}

// StockLineResponse cantidad actual de un item en un almacén.
type StockLineResponse struct {
	ItemID    string    `json:"item_id"`
	StorageID string    `json:"storage_id"`
	Quantity  int64     `json:"quantity"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DocumentResponse documento contabilizado.
type DocumentResponse struct {
	ID               int64     `json:"id"`
	Kind             string    `json:"kind"`
	ItemID           string    `json:"item_id"`
	StorageID        string    `json:"storage_id"`
	Amount           int64     `json:"amount"`
	DocumentNumber   string    `json:"document_number,omitempty"`
	Supplier         string    `json:"supplier,omitempty"`
	Reason           string    `json:"reason,omitempty"`
	Notes            string    `json:"notes,omitempty"`
	InventoryCheckID string    `json:"inventory_check_id,omitempty"`
	OrderID          string    `json:"order_id,omitempty"`
	CreatedBy        string    `json:"created_by,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// MovementResponse salida de una entrada o salida registrada.
type MovementResponse struct {
	Document DocumentResponse  `json:"document"`
	Stock    StockLineResponse `json:"stock"`
	Replayed bool              `json:"replayed,omitempty"`
}

// DocumentListResponse historial paginado de documentos.
type DocumentListResponse struct {
	Items []DocumentResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// StorageStock cantidad de un item en un almacén dentro del resumen.
type StorageStock struct {
	StorageID   string `json:"storage_id"`
	StorageName string `json:"storage_name"`
	Quantity    int64  `json:"quantity"`
}

// ItemStockOverview total por item con desglose por almacén.
type ItemStockOverview struct {
	ItemID      string         `json:"item_id"`
	ItemName    string         `json:"item_name"`
	UnitMeasure string         `json:"unit_measure"`
	TotalStock  int64          `json:"total_stock"`
	LowStock    bool           `json:"low_stock"`
	Storages    []StorageStock `json:"storages"`
}

// StockOverviewResponse resumen de stock de la tienda.
type StockOverviewResponse struct {
	Items       []ItemStockOverview `json:"items"`
	GeneratedAt time.Time           `json:"generated_at"`
}

// WarehouseStatsResponse métricas del almacén para el panel del vendedor.
type WarehouseStatsResponse struct {
	TotalProducts   int   `json:"totalProducts"`
	TotalStock      int64 `json:"totalStock"`
	LowStockItems   int   `json:"lowStockItems"`
	RecentMovements int   `json:"recentMovements"`
}

// CreateCheckRequest body para abrir una inventarización.
type CreateCheckRequest struct {
	StorageID      string `json:"storage_id" validate:"required,uuid"`
	DocumentNumber string `json:"document_number"`
	Notes          string `json:"notes"`
}

// RecordCountRequest body para registrar el conteo de un item.
type RecordCountRequest struct {
	ActualAmount *int64 `json:"actual_amount" validate:"required,gte=0"`
}

// CheckLineResponse línea de inventarización; Difference = actual - expected.
type CheckLineResponse struct {
	ItemID         string `json:"item_id"`
	ExpectedAmount int64  `json:"expected_amount"`
	ActualAmount   int64  `json:"actual_amount"`
	Difference     int64  `json:"difference"`
	Counted        bool   `json:"counted"`
}

// CheckResponse inventarización con sus líneas.
type CheckResponse struct {
	ID             string              `json:"id"`
	StorageID      string              `json:"storage_id"`
	DocumentNumber string              `json:"document_number,omitempty"`
	Notes          string              `json:"notes,omitempty"`
	Status         string              `json:"status"`
	CreatedBy      string              `json:"created_by,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
	CompletedAt    *time.Time          `json:"completed_at,omitempty"`
	Lines          []CheckLineResponse `json:"lines"`
}

// CompleteCheckResponse inventarización completada y ajustes contabilizados.
type CompleteCheckResponse struct {
	Check       CheckResponse      `json:"check"`
	Adjustments []DocumentResponse `json:"adjustments"`
}

// CheckListResponse lista paginada de inventarizaciones (sin líneas).
type CheckListResponse struct {
	Items []CheckResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
