package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/marketplace-api/internal/application/inventory"
	"github.com/jhoicas/marketplace-api/internal/domain"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	"github.com/jhoicas/marketplace-api/internal/domain/repository"
	"github.com/jhoicas/marketplace-api/internal/infrastructure/memory"
)

type line struct{ storeID, storageID, itemID string }

func seed(t *testing.T, db *memory.DB) line {
	t.Helper()
	ctx := context.Background()
	l := line{uuid.New().String(), uuid.New().String(), uuid.New().String()}
	require.NoError(t, db.Stores().Create(ctx, &entity.Store{ID: l.storeID, Name: "Tienda " + l.storeID[:6]}))
	require.NoError(t, db.Storages().Create(ctx, &entity.Storage{ID: l.storageID, StoreID: l.storeID, Name: "Central"}))
	require.NoError(t, db.Items().Create(ctx, &entity.Item{ID: l.itemID, StoreID: l.storeID, Name: "Azúcar", DefaultStorageID: l.storageID}))
	return l
}

func addStock(ctx context.Context, repos inventory.Repos, l line, amount int64) error {
	sl, err := repos.Stock.GetForUpdate(ctx, l.storeID, l.itemID, l.storageID)
	if err != nil {
		return err
	}
	sl.Quantity += amount
	if err := repos.Stock.SetQuantity(ctx, sl); err != nil {
		return err
	}
	return repos.Documents.Create(ctx, &entity.StockDocument{
		StoreID: l.storeID, ItemID: l.itemID, StorageID: l.storageID, Kind: entity.DocumentKindReceipt, Amount: amount,
	})
}

// ─── Transacciones ─────────────────────────────────────────────────────────────

func TestRun_CommitPublicaRollbackDescarta(t *testing.T) {
	db := memory.New()
	ctx := context.Background()
	l := seed(t, db)

	require.NoError(t, db.Run(ctx, func(repos inventory.Repos) error { return addStock(ctx, repos, l, 5) }))

	boom := errors.New("boom")
	err := db.Run(ctx, func(repos inventory.Repos) error {
		if err := addStock(ctx, repos, l, 100); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := db.Stock().Get(ctx, l.itemID, l.storageID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.Quantity)

	n, err := db.Documents().Count(ctx, repository.DocumentFilter{StoreID: l.storeID})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRun_ChequeoDeCantidadNoNegativa(t *testing.T) {
	db := memory.New()
	ctx := context.Background()
	l := seed(t, db)

	err := db.Run(ctx, func(repos inventory.Repos) error {
		sl, err := repos.Stock.GetForUpdate(ctx, l.storeID, l.itemID, l.storageID)
		if err != nil {
			return err
		}
		sl.Quantity = -1
		return repos.Stock.SetQuantity(ctx, sl)
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestRun_TimeoutEsperandoLock(t *testing.T) {
	db := memory.New(memory.WithTxTimeout(50 * time.Millisecond))
	ctx := context.Background()
	l := seed(t, db)

	holding := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- db.Run(ctx, func(repos inventory.Repos) error {
			close(holding)
			time.Sleep(120 * time.Millisecond)
			return addStock(ctx, repos, l, 1)
		})
	}()
	<-holding

	err := db.Run(ctx, func(repos inventory.Repos) error { return addStock(ctx, repos, l, 1) })
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)

	// la primera también vence: nada se confirma
	assert.ErrorIs(t, <-done, domain.ErrConcurrencyConflict)
	got, err := db.Stock().Get(ctx, l.itemID, l.storageID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Quantity)
}

func TestRun_ContextoCanceladoNoConfirma(t *testing.T) {
	db := memory.New()
	l := seed(t, db)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := db.Run(ctx, func(repos inventory.Repos) error { return addStock(context.Background(), repos, l, 3) })
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)

	got, err := db.Stock().Get(context.Background(), l.itemID, l.storageID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Quantity)
}

// ─── Repositorios ──────────────────────────────────────────────────────────────

func TestDocuments_ClaveDeIdempotenciaUnica(t *testing.T) {
	db := memory.New()
	ctx := context.Background()
	l := seed(t, db)

	doc := func() *entity.StockDocument {
		return &entity.StockDocument{
			StoreID: l.storeID, ItemID: l.itemID, StorageID: l.storageID,
			Kind: entity.DocumentKindReceipt, Amount: 1, IdempotencyKey: "k-1",
		}
	}
	first := doc()
	require.NoError(t, db.Documents().Create(ctx, first))
	assert.Equal(t, int64(1), first.ID)
	assert.ErrorIs(t, db.Documents().Create(ctx, doc()), domain.ErrConcurrencyConflict)

	zero := doc()
	zero.IdempotencyKey = ""
	zero.Amount = 0
	assert.ErrorIs(t, db.Documents().Create(ctx, zero), domain.ErrInvalidInput)
}

func TestRegistry_RestriccionesReferenciales(t *testing.T) {
	db := memory.New()
	ctx := context.Background()
	l := seed(t, db)

	err := db.Storages().Create(ctx, &entity.Storage{ID: uuid.New().String(), StoreID: uuid.New().String(), Name: "Huérfano"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = db.Stores().Create(ctx, &entity.Store{ID: uuid.New().String(), Name: "Tienda " + l.storeID[:6]})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// el almacén es el por defecto de un item
	assert.ErrorIs(t, db.Storages().Delete(ctx, l.storageID), domain.ErrConflict)
}
