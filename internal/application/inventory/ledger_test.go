package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/marketplace-api/internal/application/inventory"
	"github.com/jhoicas/marketplace-api/internal/domain"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
)

// ─── Entradas y salidas ────────────────────────────────────────────────────────

func TestLedger_EntradaYSalidas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.main

	res := f.receive(t, m, m.itemID, 50)
	assert.Equal(t, int64(50), res.Line.Quantity)
	assert.Equal(t, entity.DocumentKindReceipt, res.Document.Kind)
	assert.Equal(t, int64(50), res.Document.Amount)
	assert.NotZero(t, res.Document.ID)
	assert.False(t, res.Replayed)

	out, err := f.writeOffs.Register(ctx, inventory.WriteOffInput{
		StoreID: m.storeID, UserID: f.userID, ItemID: m.itemID, StorageID: m.storageID, Amount: 20, Reason: "merma",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(30), out.Line.Quantity)
	assert.Equal(t, int64(-20), out.Document.Amount)
	assert.Equal(t, entity.DocumentKindWriteOff, out.Document.Kind)

	_, err = f.writeOffs.Register(ctx, inventory.WriteOffInput{
		StoreID: m.storeID, UserID: f.userID, ItemID: m.itemID, StorageID: m.storageID, Amount: 40,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var short *domain.InsufficientStockError
	require.True(t, errors.As(err, &short))
	assert.Equal(t, int64(30), short.Available)
	assert.Equal(t, int64(40), short.Requested)
	assert.Equal(t, m.itemID, short.ItemID)

	assert.Equal(t, int64(30), f.quantity(t, m.itemID, m.storageID))
	assert.Equal(t, 2, f.documentCount(t, m.storeID), "la salida rechazada no deja documento")
}

func TestLedger_SalidaSinLineaPrevia(t *testing.T) {
	f := newFixture(t)
	m := f.main

	_, err := f.writeOffs.Register(context.Background(), inventory.WriteOffInput{
		StoreID: m.storeID, ItemID: m.itemID, StorageID: m.storageID, Amount: 1,
	})
	var short *domain.InsufficientStockError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, int64(0), short.Available)
	assert.Equal(t, 0, f.documentCount(t, m.storeID))
}

func TestLedger_SalidaExactaDejaCero(t *testing.T) {
	f := newFixture(t)
	m := f.main
	f.receive(t, m, m.itemID, 7)

	out, err := f.writeOffs.Register(context.Background(), inventory.WriteOffInput{
		StoreID: m.storeID, ItemID: m.itemID, StorageID: m.storageID, Amount: 7,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), out.Line.Quantity)
}

func TestLedger_EntradasInvalidas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.main

	tests := []struct {
		name string
		in   inventory.ReceiptInput
	}{
		{"cantidad cero", inventory.ReceiptInput{StoreID: m.storeID, ItemID: m.itemID, StorageID: m.storageID, Amount: 0}},
		{"cantidad negativa", inventory.ReceiptInput{StoreID: m.storeID, ItemID: m.itemID, StorageID: m.storageID, Amount: -3}},
		{"sin item", inventory.ReceiptInput{StoreID: m.storeID, StorageID: m.storageID, Amount: 3}},
		{"sin almacén", inventory.ReceiptInput{StoreID: m.storeID, ItemID: m.itemID, Amount: 3}},
		{"sin tienda", inventory.ReceiptInput{ItemID: m.itemID, StorageID: m.storageID, Amount: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.receipts.Register(ctx, tt.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	_, err := f.writeOffs.Register(ctx, inventory.WriteOffInput{StoreID: m.storeID, ItemID: m.itemID, StorageID: m.storageID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, f.documentCount(t, m.storeID))
}

func TestLedger_ApplyMovementCero(t *testing.T) {
	f := newFixture(t)
	m := f.main
	err := f.db.Run(context.Background(), func(repos inventory.Repos) error {
		_, err := f.ledger.ApplyMovement(context.Background(), repos,
			inventory.Scope{StoreID: m.storeID, ItemID: m.itemID, StorageID: m.storageID}, 0)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ─── Alcance por tienda ────────────────────────────────────────────────────────

func TestLedger_ItemDeOtraTienda(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m, o := f.main, f.other

	_, err := f.receipts.Register(ctx, inventory.ReceiptInput{StoreID: m.storeID, ItemID: o.itemID, StorageID: m.storageID, Amount: 5})
	assert.ErrorIs(t, err, domain.ErrScopeViolation)

	_, err = f.receipts.Register(ctx, inventory.ReceiptInput{StoreID: m.storeID, ItemID: m.itemID, StorageID: o.storageID, Amount: 5})
	assert.ErrorIs(t, err, domain.ErrScopeViolation)

	_, err = f.receipts.Register(ctx, inventory.ReceiptInput{StoreID: m.storeID, ItemID: uuid.New().String(), StorageID: m.storageID, Amount: 5})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.receipts.Register(ctx, inventory.ReceiptInput{StoreID: m.storeID, ItemID: "abc", StorageID: m.storageID, Amount: 5})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Equal(t, int64(0), f.quantity(t, m.itemID, o.storageID))
	assert.Equal(t, 0, f.documentCount(t, m.storeID))
	assert.Equal(t, 0, f.documentCount(t, o.storeID))
}

// ─── Atomicidad ────────────────────────────────────────────────────────────────

func TestLedger_FalloDespuesDelMovimientoNoDejaRastro(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.main
	f.receive(t, m, m.itemID, 10)

	boom := errors.New("fallo posterior")
	err := f.db.Run(ctx, func(repos inventory.Repos) error {
		doc := &entity.StockDocument{StoreID: m.storeID, ItemID: m.itemID, StorageID: m.storageID, Kind: entity.DocumentKindWriteOff, Amount: -4}
		if _, err := f.ledger.Post(ctx, repos, doc); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	assert.Equal(t, int64(10), f.quantity(t, m.itemID, m.storageID))
	assert.Equal(t, 1, f.documentCount(t, m.storeID))
}

// ─── Conservación ──────────────────────────────────────────────────────────────

func TestLedger_ConservacionEntradasMenosSalidas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.main

	ops := []int64{12, -5, 8, -20, -9, 3, -1, 40, -33}
	var expected int64
	for _, a := range ops {
		var err error
		if a > 0 {
			_, err = f.receipts.Register(ctx, inventory.ReceiptInput{StoreID: m.storeID, ItemID: m.itemID, StorageID: m.storageID, Amount: a})
		} else {
			_, err = f.writeOffs.Register(ctx, inventory.WriteOffInput{StoreID: m.storeID, ItemID: m.itemID, StorageID: m.storageID, Amount: -a})
		}
		if err == nil {
			expected += a
		} else {
			require.ErrorIs(t, err, domain.ErrInsufficientStock)
		}
		require.GreaterOrEqual(t, f.quantity(t, m.itemID, m.storageID), int64(0))
	}

	assert.Equal(t, expected, f.quantity(t, m.itemID, m.storageID))

	balances, err := f.db.Documents().SumByLine(ctx, m.storeID)
	require.NoError(t, err)
	require.Len(t, balances, 1)
	assert.Equal(t, expected, balances[0].Total)
}

// ─── Concurrencia ──────────────────────────────────────────────────────────────

func TestLedger_SalidasConcurrentes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.main

	const (
		stock   = 10
		amount  = 3
		workers = 12
	)
	f.receive(t, m, m.itemID, stock)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		shortages int
		others    []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.writeOffs.Register(ctx, inventory.WriteOffInput{
				StoreID: m.storeID, ItemID: m.itemID, StorageID: m.storageID, Amount: amount,
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, domain.ErrInsufficientStock):
				shortages++
			default:
				others = append(others, err)
			}
		}()
	}
	wg.Wait()

	require.Empty(t, others)
	assert.Equal(t, stock/amount, successes)
	assert.Equal(t, workers-stock/amount, shortages)
	assert.Equal(t, int64(stock%amount), f.quantity(t, m.itemID, m.storageID))
	assert.Equal(t, 1+stock/amount, f.documentCount(t, m.storeID))
}

// ─── Idempotencia ──────────────────────────────────────────────────────────────

func TestLedger_ClaveDeIdempotencia(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.main
	in := inventory.ReceiptInput{StoreID: m.storeID, ItemID: m.itemID, StorageID: m.storageID, Amount: 15, IdempotencyKey: "rec-001"}

	first, err := f.receipts.Register(ctx, in)
	require.NoError(t, err)
	assert.False(t, first.Replayed)

	again, err := f.receipts.Register(ctx, in)
	require.NoError(t, err)
	assert.True(t, again.Replayed)
	assert.Equal(t, first.Document.ID, again.Document.ID)
	assert.Equal(t, int64(15), again.Line.Quantity)
	assert.Equal(t, int64(15), f.quantity(t, m.itemID, m.storageID))
	assert.Equal(t, 1, f.documentCount(t, m.storeID))

	in.Amount = 16
	_, err = f.receipts.Register(ctx, in)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.writeOffs.Register(ctx, inventory.WriteOffInput{
		StoreID: m.storeID, ItemID: m.itemID, StorageID: m.storageID, Amount: 15, IdempotencyKey: "rec-001",
	})
	assert.ErrorIs(t, err, domain.ErrConflict, "misma clave con otro tipo de documento")

	// la clave es por tienda
	_, err = f.receipts.Register(ctx, inventory.ReceiptInput{
		StoreID: f.other.storeID, ItemID: f.other.itemID, StorageID: f.other.storageID, Amount: 2, IdempotencyKey: "rec-001",
	})
	assert.NoError(t, err)
}

func TestLedger_IdempotenciaSalidaRechazadaNoReservaClave(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.main
	in := inventory.WriteOffInput{StoreID: m.storeID, ItemID: m.itemID, StorageID: m.storageID, Amount: 5, IdempotencyKey: "wo-9"}

	_, err := f.writeOffs.Register(ctx, in)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	f.receive(t, m, m.itemID, 5)
	res, err := f.writeOffs.Register(ctx, in)
	require.NoError(t, err)
	assert.False(t, res.Replayed)
	assert.Equal(t, int64(0), res.Line.Quantity)
}
