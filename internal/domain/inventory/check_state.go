package inventory

import (
	"github.com/jhoicas/marketplace-api/internal/domain"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
)

// Reglas de ciclo de vida de una inventarización (servicio de dominio, sin I/O).
//
//	draft ──RecordCount──▶ in_progress ──Complete──▶ completed
//	  │                         │
//	  └────────Cancel───────────┴──────────────────▶ cancelled
//
// completed y cancelled son terminales.

// IsOpen indica si la inventarización admite conteos.
func IsOpen(status string) bool {
	return status == entity.CheckStatusDraft || status == entity.CheckStatusInProgress
}

// CanRecordCount valida que se pueda registrar un conteo y devuelve el estado resultante.
func CanRecordCount(status string) (string, error) {
	if !IsOpen(status) {
		return "", domain.ErrInvalidState
	}
	return entity.CheckStatusInProgress, nil
}

// CanComplete valida la finalización. Un borrador sin líneas puede completarse (no-op sobre el libro).
func CanComplete(check *entity.InventoryCheck) error {
	switch check.Status {
	case entity.CheckStatusInProgress:
		return nil
	case entity.CheckStatusDraft:
		if len(check.Lines) == 0 {
			return nil
		}
	}
	return domain.ErrInvalidState
}

// CanCancel valida la cancelación.
func CanCancel(status string) error {
	if !IsOpen(status) {
		return domain.ErrInvalidState
	}
	return nil
}

// Corrections devuelve las líneas con diferencia distinta de cero, en el orden recibido.
func Corrections(lines []entity.InventoryCheckLine) []entity.InventoryCheckLine {
	out := make([]entity.InventoryCheckLine, 0, len(lines))
	for _, l := range lines {
		if l.Difference() != 0 {
			out = append(out, l)
		}
	}
	return out
}
