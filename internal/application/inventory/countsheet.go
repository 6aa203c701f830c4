package inventory

import (
	"context"

	"github.com/jhoicas/marketplace-api/internal/domain/entity"
)

// CountSheetLine es una fila de la hoja de conteo con el nombre del item ya resuelto.
type CountSheetLine struct {
	ItemName    string
	UnitMeasure string
	entity.InventoryCheckLine
}

// CountSheet datos para imprimir una inventarización.
type CountSheet struct {
	Check   *entity.InventoryCheck
	Storage *entity.Storage
	Lines   []CountSheetLine
}

// CountSheetRenderer genera el documento imprimible (PDF) de una hoja de conteo.
type CountSheetRenderer interface {
	RenderCountSheet(ctx context.Context, sheet *CountSheet) ([]byte, error)
}

// CountSheetUseCase arma la hoja de conteo de una inventarización y la delega al renderer.
type CountSheetUseCase struct {
	checks   *ReconciliationUseCase
	registry *Registry
	renderer CountSheetRenderer
}

func NewCountSheetUseCase(checks *ReconciliationUseCase, registry *Registry, renderer CountSheetRenderer) *CountSheetUseCase {
	return &CountSheetUseCase{checks: checks, registry: registry, renderer: renderer}
}

// Build carga la inventarización con almacén y nombres de items.
func (uc *CountSheetUseCase) Build(ctx context.Context, storeID, checkID string) (*CountSheet, error) {
	check, err := uc.checks.Get(ctx, storeID, checkID)
	if err != nil {
		return nil, err
	}
	storage, err := uc.registry.ResolveStorage(ctx, storeID, check.StorageID)
	if err != nil {
		return nil, err
	}
	sheet := &CountSheet{Check: check, Storage: storage, Lines: make([]CountSheetLine, 0, len(check.Lines))}
	for _, l := range check.Lines {
		item, err := uc.registry.ResolveItem(ctx, storeID, l.ItemID)
		if err != nil {
			return nil, err
		}
		sheet.Lines = append(sheet.Lines, CountSheetLine{ItemName: item.Name, UnitMeasure: item.UnitMeasure, InventoryCheckLine: l})
	}
	return sheet, nil
}

// Render devuelve los bytes del PDF de la hoja de conteo.
func (uc *CountSheetUseCase) Render(ctx context.Context, storeID, checkID string) ([]byte, error) {
	sheet, err := uc.Build(ctx, storeID, checkID)
	if err != nil {
		return nil, err
	}
	return uc.renderer.RenderCountSheet(ctx, sheet)
}
