package fulfillment_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/marketplace-api/internal/application/fulfillment"
	"github.com/jhoicas/marketplace-api/internal/application/inventory"
	"github.com/jhoicas/marketplace-api/internal/domain"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	"github.com/jhoicas/marketplace-api/internal/domain/repository"
	"github.com/jhoicas/marketplace-api/internal/infrastructure/memory"
)

type env struct {
	db        *memory.DB
	svc       *fulfillment.Service
	receipts  *inventory.ReceiptUseCase
	storeID   string
	storageID string
	itemA     string
	itemB     string
	sellerID  string
	buyerID   string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	db := memory.New()
	ledger := inventory.NewLedger()
	writeOffs := inventory.NewWriteOffUseCase(db, ledger, nil, zerolog.Nop())
	receipts := inventory.NewReceiptUseCase(db, ledger, nil, zerolog.Nop())

	e := &env{
		db:        db,
		svc:       fulfillment.NewService(db, writeOffs, receipts, nil, zerolog.Nop()),
		receipts:  receipts,
		storeID:   uuid.New().String(),
		storageID: uuid.New().String(),
		sellerID:  uuid.New().String(),
		buyerID:   uuid.New().String(),
	}
	require.NoError(t, db.Stores().Create(ctx, &entity.Store{ID: e.storeID, OwnerID: e.sellerID, Name: "Frutas del Valle"}))
	require.NoError(t, db.Storages().Create(ctx, &entity.Storage{ID: e.storageID, StoreID: e.storeID, Name: "Central"}))
	e.itemA = e.item(t, "Mango", 3000)
	e.itemB = e.item(t, "Piña", 4500)
	return e
}

func (e *env) item(t *testing.T, name string, price int64) string {
	t.Helper()
	id := uuid.New().String()
	require.NoError(t, e.db.Items().Create(context.Background(), &entity.Item{
		ID: id, StoreID: e.storeID, Name: name, UnitMeasure: "und",
		DefaultPrice: decimal.NewFromInt(price), DefaultStorageID: e.storageID, Active: true,
	}))
	return id
}

func (e *env) stock(t *testing.T, itemID string, amount int64) {
	t.Helper()
	_, err := e.receipts.Register(context.Background(), inventory.ReceiptInput{
		StoreID: e.storeID, ItemID: itemID, StorageID: e.storageID, Amount: amount,
	})
	require.NoError(t, err)
}

func (e *env) quantity(t *testing.T, itemID string) int64 {
	t.Helper()
	line, err := e.db.Stock().Get(context.Background(), itemID, e.storageID)
	require.NoError(t, err)
	return line.Quantity
}

func (e *env) order(t *testing.T, amounts map[string]int64) *entity.Order {
	t.Helper()
	o := &entity.Order{
		ID:          uuid.New().String(),
		StoreID:     e.storeID,
		UserID:      e.buyerID,
		OrderNumber: "ORD-" + uuid.New().String()[:8],
		Status:      entity.OrderStatusPending,
	}
	for itemID, a := range amounts {
		o.Lines = append(o.Lines, entity.OrderLine{ID: uuid.New().String(), OrderID: o.ID, ItemID: itemID, Amount: a})
	}
	require.NoError(t, e.db.Orders().Create(context.Background(), o))
	return o
}

func (e *env) orderDocuments(t *testing.T) []*entity.StockDocument {
	t.Helper()
	docs, err := e.db.Documents().List(context.Background(), repository.DocumentFilter{StoreID: e.storeID})
	require.NoError(t, err)
	var out []*entity.StockDocument
	for _, d := range docs {
		if d.OrderID != "" {
			out = append(out, d)
		}
	}
	return out
}

// ─── Confirmación con reserva ──────────────────────────────────────────────────

func TestConfirmAndReserve_DescuentaTodasLasLineas(t *testing.T) {
	e := newEnv(t)
	e.stock(t, e.itemA, 10)
	e.stock(t, e.itemB, 4)
	o := e.order(t, map[string]int64{e.itemA: 6, e.itemB: 4})

	got, err := e.svc.ConfirmAndReserve(context.Background(), e.storeID, e.sellerID, o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusConfirmed, got.Status)
	assert.Equal(t, int64(4), e.quantity(t, e.itemA))
	assert.Equal(t, int64(0), e.quantity(t, e.itemB))

	docs := e.orderDocuments(t)
	require.Len(t, docs, 2)
	for _, d := range docs {
		assert.Equal(t, entity.DocumentKindWriteOff, d.Kind)
		assert.Equal(t, o.ID, d.OrderID)
		assert.Equal(t, o.OrderNumber, d.DocumentNumber)
	}
}

func TestConfirmAndReserve_TodoONada(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.stock(t, e.itemA, 10)
	e.stock(t, e.itemB, 1)
	o := e.order(t, map[string]int64{e.itemA: 6, e.itemB: 3})

	_, err := e.svc.ConfirmAndReserve(ctx, e.storeID, e.sellerID, o.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var ferr *domain.FulfillmentError
	require.True(t, errors.As(err, &ferr))
	assert.Equal(t, o.ID, ferr.OrderID)
	require.Len(t, ferr.Shortages, 1)
	assert.Equal(t, e.itemB, ferr.Shortages[0].ItemID)
	assert.Equal(t, int64(1), ferr.Shortages[0].Available)
	assert.Equal(t, int64(3), ferr.Shortages[0].Requested)

	// la línea con stock tampoco se aplicó
	assert.Equal(t, int64(10), e.quantity(t, e.itemA))
	assert.Equal(t, int64(1), e.quantity(t, e.itemB))
	assert.Empty(t, e.orderDocuments(t))

	stored, err := e.db.Orders().GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPending, stored.Status)
}

func TestConfirmAndReserve_ListaTodosLosFaltantes(t *testing.T) {
	e := newEnv(t)
	o := e.order(t, map[string]int64{e.itemA: 2, e.itemB: 5})

	_, err := e.svc.ConfirmAndReserve(context.Background(), e.storeID, e.sellerID, o.ID)
	var ferr *domain.FulfillmentError
	require.ErrorAs(t, err, &ferr)
	assert.Len(t, ferr.Shortages, 2)
}

func TestConfirmAndReserve_EstadoYAlcance(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.stock(t, e.itemA, 5)
	o := e.order(t, map[string]int64{e.itemA: 1})

	_, err := e.svc.ConfirmAndReserve(ctx, uuid.New().String(), e.sellerID, o.ID)
	assert.ErrorIs(t, err, domain.ErrScopeViolation)

	_, err = e.svc.ConfirmAndReserve(ctx, e.storeID, e.sellerID, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = e.svc.ConfirmAndReserve(ctx, e.storeID, e.sellerID, o.ID)
	require.NoError(t, err)

	_, err = e.svc.ConfirmAndReserve(ctx, e.storeID, e.sellerID, o.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "confirmar dos veces no descuenta dos veces")
	assert.Equal(t, int64(4), e.quantity(t, e.itemA))
}

// ─── Transiciones con liberación ───────────────────────────────────────────────

func TestTransition_CancelarConfirmadoDevuelveStock(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.stock(t, e.itemA, 8)
	o := e.order(t, map[string]int64{e.itemA: 5})

	_, err := e.svc.Transition(ctx, e.storeID, e.sellerID, o.ID, entity.OrderStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, int64(3), e.quantity(t, e.itemA))

	got, err := e.svc.Transition(ctx, e.storeID, e.sellerID, o.ID, entity.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCancelled, got.Status)
	assert.Equal(t, int64(8), e.quantity(t, e.itemA))

	docs := e.orderDocuments(t)
	require.Len(t, docs, 2, "la salida original se conserva y se agrega una entrada compensatoria")
	assert.Equal(t, entity.DocumentKindReceipt, docs[0].Kind)
	assert.Equal(t, int64(5), docs[0].Amount)
	assert.Equal(t, entity.DocumentKindWriteOff, docs[1].Kind)
}

func TestTransition_CancelarDevuelveAlAlmacenDeOrigen(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.stock(t, e.itemA, 10)
	o := e.order(t, map[string]int64{e.itemA: 6})

	confirmed, err := e.svc.ConfirmAndReserve(ctx, e.storeID, e.sellerID, o.ID)
	require.NoError(t, err)
	require.Len(t, confirmed.Lines, 1)
	assert.Equal(t, e.storageID, confirmed.Lines[0].StorageID)

	stored, err := e.db.Orders().GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, e.storageID, stored.Lines[0].StorageID, "el almacén resuelto queda guardado en la línea")

	// el item cambia de almacén por defecto entre la confirmación y la cancelación
	norte := uuid.New().String()
	require.NoError(t, e.db.Storages().Create(ctx, &entity.Storage{ID: norte, StoreID: e.storeID, Name: "Norte"}))
	item, err := e.db.Items().GetByID(ctx, e.itemA)
	require.NoError(t, err)
	item.DefaultStorageID = norte
	require.NoError(t, e.db.Items().Update(ctx, item))

	_, err = e.svc.Transition(ctx, e.storeID, e.sellerID, o.ID, entity.OrderStatusCancelled)
	require.NoError(t, err)

	assert.Equal(t, int64(10), e.quantity(t, e.itemA))
	other, err := e.db.Stock().Get(ctx, e.itemA, norte)
	require.NoError(t, err)
	assert.Equal(t, int64(0), other.Quantity, "el almacén nuevo no recibe nada")
}

func TestTransition_CancelarPendienteNoTocaLibro(t *testing.T) {
	e := newEnv(t)
	e.stock(t, e.itemA, 2)
	o := e.order(t, map[string]int64{e.itemA: 2})

	got, err := e.svc.Transition(context.Background(), e.storeID, e.sellerID, o.ID, entity.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCancelled, got.Status)
	assert.Equal(t, int64(2), e.quantity(t, e.itemA))
	assert.Empty(t, e.orderDocuments(t))
}

func TestTransition_FlujoCompletoYDevolucion(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.stock(t, e.itemB, 3)
	o := e.order(t, map[string]int64{e.itemB: 3})

	for _, to := range []string{
		entity.OrderStatusConfirmed,
		entity.OrderStatusProcessing,
		entity.OrderStatusShipped,
		entity.OrderStatusDelivered,
	} {
		got, err := e.svc.Transition(ctx, e.storeID, e.sellerID, o.ID, to)
		require.NoError(t, err, to)
		assert.Equal(t, to, got.Status)
	}
	assert.Equal(t, int64(0), e.quantity(t, e.itemB))

	_, err := e.svc.Transition(ctx, e.storeID, e.sellerID, o.ID, entity.OrderStatusReturned)
	require.NoError(t, err)
	assert.Equal(t, int64(3), e.quantity(t, e.itemB))

	_, err = e.svc.Transition(ctx, e.storeID, e.sellerID, o.ID, entity.OrderStatusCancelled)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestTransition_SaltosNoPermitidos(t *testing.T) {
	e := newEnv(t)
	o := e.order(t, map[string]int64{e.itemA: 1})

	for _, to := range []string{entity.OrderStatusProcessing, entity.OrderStatusShipped, entity.OrderStatusDelivered, entity.OrderStatusReturned, "archivado"} {
		_, err := e.svc.Transition(context.Background(), e.storeID, e.sellerID, o.ID, to)
		assert.ErrorIs(t, err, domain.ErrInvalidState, to)
	}
}
