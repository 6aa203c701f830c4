package entity

import "time"

// Tipos de documento de movimiento.
const (
	DocumentKindReceipt    = "receipt"    // entrada de mercancía (+)
	DocumentKindWriteOff   = "write_off"  // salida / baja (-)
	DocumentKindAdjustment = "adjustment" // ajuste por inventario (±)
)

// StockDocument es un documento de movimiento ya contabilizado. Inmutable: el libro es append-only.
// Amount es con signo: positivo en entradas, negativo en salidas, cualquiera de los dos en ajustes.
type StockDocument struct {
	ID               int64 // monótono creciente
	StoreID          string
	ItemID           string
	StorageID        string
	Kind             string
	Amount           int64
	DocumentNumber   string
	Supplier         string // solo entradas
	Reason           string // solo salidas
	Notes            string
	InventoryCheckID string // solo ajustes
	OrderID          string // salidas/entradas originadas por un pedido
	IdempotencyKey   string
	CreatedBy        string
	CreatedAt        time.Time
}

// SameMovement indica si otro documento describe el mismo movimiento (misma tienda, línea, tipo y cantidad).
// Se usa para validar reintentos con la misma clave de idempotencia.
func (d *StockDocument) SameMovement(o *StockDocument) bool {
	return d.StoreID == o.StoreID &&
		d.ItemID == o.ItemID &&
		d.StorageID == o.StorageID &&
		d.Kind == o.Kind &&
		d.Amount == o.Amount
}
