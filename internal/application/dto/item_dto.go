package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest entrada para crear un item del catálogo.
type CreateItemRequest struct {
	Name             string          `json:"name" validate:"required,min=1,max=200"`
	Description      string          `json:"description"`
	UnitMeasure      string          `json:"unit_measure"`
	DefaultPrice     decimal.Decimal `json:"default_price"`
	DefaultStorageID string          `json:"default_storage_id" validate:"required,uuid"`
}

// UpdateItemRequest entrada para actualizar un item (campos opcionales).
type UpdateItemRequest struct {
	Name             *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description      *string          `json:"description"`
	UnitMeasure      *string          `json:"unit_measure"`
	DefaultPrice     *decimal.Decimal `json:"default_price"`
	DefaultStorageID *string          `json:"default_storage_id" validate:"omitempty,uuid"`
	Active           *bool            `json:"active"`
}

// ItemResponse salida de un item.
type ItemResponse struct {
	ID               string          `json:"id"`
	StoreID          string          `json:"store_id"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	UnitMeasure      string          `json:"unit_measure"`
	DefaultPrice     decimal.Decimal `json:"default_price"`
	DefaultStorageID string          `json:"default_storage_id"`
	Active           bool            `json:"active"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ItemListResponse lista paginada de items.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
