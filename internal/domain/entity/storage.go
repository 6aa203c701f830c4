package entity

import "time"

// Storage representa un almacén (ubicación física o lógica) que mantiene stock.
type Storage struct {
	ID        string
	StoreID   string
	Name      string
	City      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
