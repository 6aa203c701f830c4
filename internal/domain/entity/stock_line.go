package entity

import "time"

// StockLine es la fila del libro de stock: cantidad actual de un item en un almacén.
// Invariante: Quantity >= 0 en todo estado confirmado.
type StockLine struct {
	StoreID   string
	ItemID    string
	StorageID string
	Quantity  int64
	UpdatedAt time.Time
}
