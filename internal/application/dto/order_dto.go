package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItemRequest body para agregar o actualizar un item del carrito.
type CartItemRequest struct {
	ItemID string `json:"item_id" validate:"omitempty,uuid"`
	Amount int64  `json:"amount" validate:"required,gt=0"`
}

// CartItemResponse línea del carrito.
type CartItemResponse struct {
	ItemID  string `json:"item_id"`
	StoreID string `json:"store_id"`
	Amount  int64  `json:"amount"`
}

// CartResponse contenido del carrito del usuario.
type CartResponse struct {
	Items []CartItemResponse `json:"items"`
}

// CreateOrderRequest body para crear un pedido desde el carrito de una tienda.
type CreateOrderRequest struct {
	StoreID         string `json:"store_id" validate:"required,uuid"`
	Comment         string `json:"comment"`
	DeliveryAddress string `json:"delivery_address"`
}

// UpdateOrderStatusRequest body para PUT /api/orders/:id/status.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed processing shipped delivered cancelled returned"`
}

// OrderLineResponse línea de un pedido.
type OrderLineResponse struct {
	ID           string          `json:"id"`
	ItemID       string          `json:"item_id"`
	StorageID    string          `json:"storage_id,omitempty"`
	Amount       int64           `json:"amount"`
	PricePerItem decimal.Decimal `json:"price_per_item"`
	TotalPrice   decimal.Decimal `json:"total_price"`
}

// OrderResponse salida de un pedido.
type OrderResponse struct {
	ID              string              `json:"id"`
	StoreID         string              `json:"store_id"`
	UserID          string              `json:"user_id"`
	OrderNumber     string              `json:"order_number"`
	Status          string              `json:"status"`
	Comment         string              `json:"comment,omitempty"`
	DeliveryAddress string              `json:"delivery_address,omitempty"`
	TotalPrice      decimal.Decimal     `json:"total_price"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
	Lines           []OrderLineResponse `json:"lines"`
}

// OrderListResponse lista paginada de pedidos.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
