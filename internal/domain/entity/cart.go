package entity

import "time"

// CartItem es una posición del carrito de un comprador. Agregar al carrito nunca toca el stock.
type CartItem struct {
	UserID    string
	ItemID    string
	StoreID   string
	Amount    int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
