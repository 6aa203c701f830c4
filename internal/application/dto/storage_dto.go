package dto

import "time"

// CreateStorageRequest entrada para crear un almacén.
type CreateStorageRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	City    string `json:"city"`
	Address string `json:"address"`
}

// UpdateStorageRequest entrada para actualizar un almacén.
type UpdateStorageRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=200"`
	City    *string `json:"city"`
	Address *string `json:"address"`
}

// StorageResponse salida de un almacén.
type StorageResponse struct {
	ID        string    `json:"id"`
	StoreID   string    `json:"store_id"`
	Name      string    `json:"name"`
	City      string    `json:"city"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StorageListResponse lista paginada de almacenes.
type StorageListResponse struct {
	Items []StorageResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
