package inventory_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/marketplace-api/internal/application/inventory"
	"github.com/jhoicas/marketplace-api/internal/domain"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
)

// spyCache guarda lo que se escribe y cuenta invalidaciones. Las lecturas siempre fallan (miss).
type spyCache struct {
	entries     map[string]any
	invalidated int
}

func newSpyCache() *spyCache { return &spyCache{entries: map[string]any{}} }

func (c *spyCache) GetOverview(context.Context, string, any) (bool, error) { return false, nil }

func (c *spyCache) SetOverview(_ context.Context, storeID string, v any) error {
	c.entries[storeID] = v
	return nil
}

func (c *spyCache) Invalidate(_ context.Context, storeID string) error {
	delete(c.entries, storeID)
	c.invalidated++
	return nil
}

// ─── Resumen y métricas ────────────────────────────────────────────────────────

func TestOverview_TotalesPorItemYAlmacen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.main

	// segundo almacén de la misma tienda
	extra := tenant{storeID: m.storeID, storageID: uuid.New().String()}
	require.NoError(t, f.db.Storages().Create(ctx, &entity.Storage{ID: extra.storageID, StoreID: m.storeID, Name: "Bodega auxiliar"}))

	f.receive(t, m, m.itemID, 20)
	f.receive(t, extra, m.itemID, 5)
	f.receive(t, m, f.secondItem, 3)

	uc := inventory.NewOverviewUseCase(f.db.Items(), f.db.Storages(), f.db.Stock(), f.db.Documents(), nil, 0, zerolog.Nop())
	ov, err := uc.Overview(ctx, m.storeID)
	require.NoError(t, err)
	require.Len(t, ov.Items, 2)

	byID := map[string]int{}
	for i, it := range ov.Items {
		byID[it.ItemID] = i
	}
	pan := ov.Items[byID[m.itemID]]
	assert.Equal(t, int64(25), pan.TotalStock)
	assert.False(t, pan.LowStock)
	require.Len(t, pan.Storages, 2)
	assert.Equal(t, "Bodega auxiliar", pan.Storages[0].StorageName)
	assert.Equal(t, int64(5), pan.Storages[0].Quantity)

	leche := ov.Items[byID[f.secondItem]]
	assert.Equal(t, int64(3), leche.TotalStock)
	assert.True(t, leche.LowStock, "3 <= umbral por defecto 5")

	stats, err := uc.Stats(ctx, m.storeID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalProducts)
	assert.Equal(t, int64(28), stats.TotalStock)
	assert.Equal(t, 1, stats.LowStockItems)
	assert.Equal(t, 3, stats.RecentMovements)
}

func TestOverview_UmbralConfigurable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.main
	f.receive(t, m, m.itemID, 20)

	uc := inventory.NewOverviewUseCase(f.db.Items(), f.db.Storages(), f.db.Stock(), f.db.Documents(), nil, 25, zerolog.Nop())
	stats, err := uc.Stats(ctx, m.storeID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.LowStockItems)
}

func TestOverview_MovimientoInvalidaCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.main
	cache := newSpyCache()
	receipts := inventory.NewReceiptUseCase(f.db, f.ledger, cache, zerolog.Nop())

	uc := inventory.NewOverviewUseCase(f.db.Items(), f.db.Storages(), f.db.Stock(), f.db.Documents(), cache, 0, zerolog.Nop())
	_, err := uc.Stats(ctx, m.storeID)
	require.NoError(t, err)
	assert.Contains(t, cache.entries, m.storeID)

	_, err = receipts.Register(ctx, inventory.ReceiptInput{StoreID: m.storeID, ItemID: m.itemID, StorageID: m.storageID, Amount: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.invalidated)
	assert.NotContains(t, cache.entries, m.storeID)

	// un rechazo no invalida
	writeOffs := inventory.NewWriteOffUseCase(f.db, f.ledger, cache, zerolog.Nop())
	_, err = writeOffs.Register(ctx, inventory.WriteOffInput{StoreID: m.storeID, ItemID: m.itemID, StorageID: m.storageID, Amount: 5})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 1, cache.invalidated)
}

// ─── Historial ─────────────────────────────────────────────────────────────────

func TestDocuments_HistorialFiltradoYPaginado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.main

	f.receive(t, m, m.itemID, 10)
	f.receive(t, m, f.secondItem, 4)
	_, err := f.writeOffs.Register(ctx, inventory.WriteOffInput{StoreID: m.storeID, ItemID: m.itemID, StorageID: m.storageID, Amount: 2})
	require.NoError(t, err)
	f.receive(t, f.other, f.other.itemID, 1)

	all, total, err := f.documents.List(ctx, inventory.DocumentQuery{StoreID: m.storeID})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, all, 3)
	assert.Equal(t, entity.DocumentKindWriteOff, all[0].Kind, "más reciente primero")
	assert.Greater(t, all[0].ID, all[1].ID)

	byItem, total, err := f.documents.List(ctx, inventory.DocumentQuery{StoreID: m.storeID, ItemID: m.itemID})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, byItem, 2)

	paged, total, err := f.documents.List(ctx, inventory.DocumentQuery{StoreID: m.storeID, Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, paged, 1)
	assert.Equal(t, f.secondItem, paged[0].ItemID)

	receipts, _, err := f.documents.List(ctx, inventory.DocumentQuery{StoreID: m.storeID, Kind: entity.DocumentKindReceipt})
	require.NoError(t, err)
	assert.Len(t, receipts, 2)

	_, _, err = f.documents.List(ctx, inventory.DocumentQuery{StoreID: m.storeID, Kind: "transfer"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = f.documents.List(ctx, inventory.DocumentQuery{StoreID: m.storeID, StorageID: f.other.storageID})
	assert.ErrorIs(t, err, domain.ErrScopeViolation)
}

func TestDocuments_GetYLinea(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.main
	res := f.receive(t, m, m.itemID, 6)

	doc, err := f.documents.Get(ctx, m.storeID, res.Document.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(6), doc.Amount)

	_, err = f.documents.Get(ctx, f.other.storeID, res.Document.ID)
	assert.ErrorIs(t, err, domain.ErrScopeViolation)

	_, err = f.documents.Get(ctx, m.storeID, 9999)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	line, err := f.documents.StockLine(ctx, m.storeID, m.itemID, m.storageID)
	require.NoError(t, err)
	assert.Equal(t, int64(6), line.Quantity)

	empty, err := f.documents.StockLine(ctx, m.storeID, f.secondItem, m.storageID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), empty.Quantity)
}

// ─── Hoja de conteo ────────────────────────────────────────────────────────────

type captureRenderer struct{ sheet *inventory.CountSheet }

func (r *captureRenderer) RenderCountSheet(_ context.Context, sheet *inventory.CountSheet) ([]byte, error) {
	r.sheet = sheet
	return []byte("%PDF-test"), nil
}

func TestCountSheet_ResuelveNombres(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.main
	f.receive(t, m, m.itemID, 2)
	f.receive(t, m, f.secondItem, 1)
	check := f.openCheck(t, m)

	renderer := &captureRenderer{}
	uc := inventory.NewCountSheetUseCase(f.reconcile, f.registry, renderer)
	out, err := uc.Render(ctx, m.storeID, check.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-test"), out)

	require.NotNil(t, renderer.sheet)
	assert.Equal(t, "Bodega principal", renderer.sheet.Storage.Name)
	require.Len(t, renderer.sheet.Lines, 2)
	names := []string{renderer.sheet.Lines[0].ItemName, renderer.sheet.Lines[1].ItemName}
	assert.ElementsMatch(t, []string{"Pan integral", "Leche entera"}, names)

	_, err = uc.Build(ctx, f.other.storeID, check.ID)
	assert.ErrorIs(t, err, domain.ErrScopeViolation)
}
