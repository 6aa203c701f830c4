package entity

import "time"

// Estados de una inventarización.
const (
	CheckStatusDraft      = "draft"
	CheckStatusInProgress = "in_progress"
	CheckStatusCompleted  = "completed"
	CheckStatusCancelled  = "cancelled"
)

// InventoryCheck es una conciliación de un almacén: cantidad contada contra cantidad en sistema.
type InventoryCheck struct {
	ID             string
	StoreID        string
	StorageID      string
	DocumentNumber string
	Notes          string
	Status         string
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	CompletedAt    *time.Time
	Lines          []InventoryCheckLine
}

// InventoryCheckLine es una posición de la inventarización.
// ExpectedAmount es la foto de StockLine.Quantity al crear la línea; ActualAmount vale 0 hasta contarse.
type InventoryCheckLine struct {
	CheckID        string
	ItemID         string
	ExpectedAmount int64
	ActualAmount   int64
	Counted        bool
	UpdatedAt      time.Time
}

// Difference es siempre ActualAmount - ExpectedAmount; no se almacena por separado.
func (l InventoryCheckLine) Difference() int64 {
	return l.ActualAmount - l.ExpectedAmount
}

// Line devuelve la línea del item o nil.
func (c *InventoryCheck) Line(itemID string) *InventoryCheckLine {
	for i := range c.Lines {
		if c.Lines[i].ItemID == itemID {
			return &c.Lines[i]
		}
	}
	return nil
}
