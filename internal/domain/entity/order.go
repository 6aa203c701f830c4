package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un pedido.
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
	OrderStatusReturned   = "returned"
)

// Order es un pedido de un comprador a una tienda. No afecta el stock hasta confirmarse.
type Order struct {
	ID              string
	StoreID         string
	UserID          string
	OrderNumber     string
	Status          string
	Comment         string
	DeliveryAddress string
	TotalPrice      decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Lines           []OrderLine
}

// OrderLine es una posición del pedido. StorageID vacío = almacén por defecto del item.
type OrderLine struct {
	ID           string
	OrderID      string
	ItemID       string
	StorageID    string
	Amount       int64
	PricePerItem decimal.Decimal
	TotalPrice   decimal.Decimal
}

// ReservesStock indica si en este estado el pedido tiene stock descontado del libro.
func (o *Order) ReservesStock() bool {
	switch o.Status {
	case OrderStatusConfirmed, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered:
		return true
	}
	return false
}
