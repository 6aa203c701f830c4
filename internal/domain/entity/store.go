package entity

import "time"

// Store representa una tienda (tenant) del marketplace. Es el límite de aislamiento:
// items, almacenes, documentos y pedidos pertenecen a exactamente una tienda.
type Store struct {
	ID          string
	OwnerID     string
	Name        string
	Description string
	Email       string
	Phone       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
