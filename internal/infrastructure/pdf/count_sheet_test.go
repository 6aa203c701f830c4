package pdf

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/marketplace-api/internal/application/inventory"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
)

func TestRenderCountSheet_GeneraPDF(t *testing.T) {
	check := &entity.InventoryCheck{
		ID:        "6c1f2a4e-0000-4000-8000-000000000001",
		StorageID: "s1",
		Status:    entity.CheckStatusInProgress,
		CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	sheet := &inventory.CountSheet{
		Check:   check,
		Storage: &entity.Storage{ID: "s1", Name: "Bodega Norte", City: "Medellín"},
		Lines: []inventory.CountSheetLine{
			{ItemName: "Café 500g", UnitMeasure: "und", InventoryCheckLine: entity.InventoryCheckLine{ItemID: "i1", ExpectedAmount: 10, ActualAmount: 7, Counted: true}},
			{ItemName: "Azúcar", UnitMeasure: "kg", InventoryCheckLine: entity.InventoryCheckLine{ItemID: "i2", ExpectedAmount: 4}},
		},
	}

	b, err := NewMarotoCountSheet().RenderCountSheet(context.Background(), sheet)
	require.NoError(t, err)
	require.NotEmpty(t, b)
	assert.Equal(t, "%PDF", string(b[:4]))
}

func TestRenderCountSheet_Incompleta(t *testing.T) {
	_, err := NewMarotoCountSheet().RenderCountSheet(context.Background(), &inventory.CountSheet{})
	require.Error(t, err)
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "+3", signed(3))
	assert.Equal(t, "-2", signed(-2))
	assert.Equal(t, "0", signed(0))
	assert.Equal(t, "INV-6c1f2a4e", documentNumber(&entity.InventoryCheck{ID: "6c1f2a4e-aaaa"}))
	assert.Equal(t, "IC-7", documentNumber(&entity.InventoryCheck{ID: "x", DocumentNumber: "IC-7"}))
}
