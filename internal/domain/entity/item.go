package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un producto del catálogo de una tienda.
// El stock no vive aquí: se maneja por almacén en StockLine y solo cambia vía documentos.
type Item struct {
	ID               string
	StoreID          string
	Name             string
	Description      string
	UnitMeasure      string // ej. "und", "kg", "caja"
	DefaultPrice     decimal.Decimal
	DefaultStorageID string // almacén principal del item (obligatorio)
	Active           bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
