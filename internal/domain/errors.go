package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
// Cada tipo de fallo del libro de stock se distingue por errors.Is, nunca por el texto.
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrUserNotFound        = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists  = errors.New("el email ya está registrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrScopeViolation      = errors.New("el recurso no pertenece a la tienda")
	ErrConcurrencyConflict = errors.New("conflicto de concurrencia, reintente con datos actualizados")
	ErrInvalidState        = errors.New("transición de estado no permitida")
)

// InsufficientStockError detalla un rechazo por stock insuficiente en una línea (item, almacén).
// errors.Is(err, ErrInsufficientStock) es verdadero para este tipo.
type InsufficientStockError struct {
	ItemID    string
	StorageID string
	Available int64
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: item %s en almacén %s, disponible %d, solicitado %d",
		ErrInsufficientStock.Error(), e.ItemID, e.StorageID, e.Available, e.Requested)
}

// Is permite comparar contra el sentinel ErrInsufficientStock.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// FulfillmentError agrupa las líneas de un pedido que no pudieron reservarse.
// Ninguna línea queda aplicada cuando se devuelve este error.
type FulfillmentError struct {
	OrderID   string
	Shortages []*InsufficientStockError
}

func (e *FulfillmentError) Error() string {
	parts := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		parts = append(parts, fmt.Sprintf("%s@%s (disponible %d, solicitado %d)", s.ItemID, s.StorageID, s.Available, s.Requested))
	}
	return fmt.Sprintf("pedido %s: %s: %s", e.OrderID, ErrInsufficientStock.Error(), strings.Join(parts, ", "))
}

// Is permite comparar contra el sentinel ErrInsufficientStock.
func (e *FulfillmentError) Is(target error) bool {
	return target == ErrInsufficientStock
}
