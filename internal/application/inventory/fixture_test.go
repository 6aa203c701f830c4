package inventory_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/marketplace-api/internal/application/inventory"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	"github.com/jhoicas/marketplace-api/internal/infrastructure/memory"
)

// tenant tienda con un almacén y un item listos para mover stock.
type tenant struct {
	storeID   string
	storageID string
	itemID    string
}

type fixture struct {
	db         *memory.DB
	ledger     *inventory.Ledger
	receipts   *inventory.ReceiptUseCase
	writeOffs  *inventory.WriteOffUseCase
	reconcile  *inventory.ReconciliationUseCase
	documents  *inventory.DocumentsUseCase
	registry   *inventory.Registry
	main       tenant
	other      tenant
	userID     string
	secondItem string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := memory.New()
	ledger := inventory.NewLedger()
	registry := inventory.NewRegistry(db.Items(), db.Storages())
	f := &fixture{
		db:        db,
		ledger:    ledger,
		receipts:  inventory.NewReceiptUseCase(db, ledger, nil, zerolog.Nop()),
		writeOffs: inventory.NewWriteOffUseCase(db, ledger, nil, zerolog.Nop()),
		reconcile: inventory.NewReconciliationUseCase(db, db.Checks(), ledger, nil, zerolog.Nop()),
		documents: inventory.NewDocumentsUseCase(db.Documents(), db.Stock(), registry),
		registry:  registry,
		userID:    uuid.New().String(),
	}
	f.main = seedTenant(t, db, "Tienda Norte", "Pan integral")
	f.other = seedTenant(t, db, "Tienda Sur", "Café molido")
	f.secondItem = seedItem(t, db, f.main, "Leche entera")
	return f
}

func seedTenant(t *testing.T, db *memory.DB, storeName, itemName string) tenant {
	t.Helper()
	ctx := context.Background()
	tn := tenant{storeID: uuid.New().String(), storageID: uuid.New().String()}
	require.NoError(t, db.Stores().Create(ctx, &entity.Store{ID: tn.storeID, OwnerID: uuid.New().String(), Name: storeName}))
	require.NoError(t, db.Storages().Create(ctx, &entity.Storage{ID: tn.storageID, StoreID: tn.storeID, Name: "Bodega principal", City: "Bogotá"}))
	tn.itemID = seedItem(t, db, tn, itemName)
	return tn
}

func seedItem(t *testing.T, db *memory.DB, tn tenant, name string) string {
	t.Helper()
	id := uuid.New().String()
	require.NoError(t, db.Items().Create(context.Background(), &entity.Item{
		ID:               id,
		StoreID:          tn.storeID,
		Name:             name,
		UnitMeasure:      "und",
		DefaultPrice:     decimal.NewFromInt(2500),
		DefaultStorageID: tn.storageID,
		Active:           true,
	}))
	return id
}

func (f *fixture) receive(t *testing.T, tn tenant, itemID string, amount int64) *inventory.MovementResult {
	t.Helper()
	res, err := f.receipts.Register(context.Background(), inventory.ReceiptInput{
		StoreID: tn.storeID, UserID: f.userID, ItemID: itemID, StorageID: tn.storageID, Amount: amount,
	})
	require.NoError(t, err)
	return res
}

func (f *fixture) quantity(t *testing.T, itemID, storageID string) int64 {
	t.Helper()
	line, err := f.db.Stock().Get(context.Background(), itemID, storageID)
	require.NoError(t, err)
	return line.Quantity
}

func (f *fixture) documentCount(t *testing.T, storeID string) int {
	t.Helper()
	_, total, err := f.documents.List(context.Background(), inventory.DocumentQuery{StoreID: storeID})
	require.NoError(t, err)
	return total
}
