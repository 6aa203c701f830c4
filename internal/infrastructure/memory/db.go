// Package memory implementa los puertos de persistencia en memoria. Las transacciones se
// serializan y trabajan sobre una copia del estado: Commit la publica, Rollback la descarta.
// Se usa en tests de casos de uso y con DB_DRIVER=memory.
package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/marketplace-api/internal/application/auth"
	"github.com/jhoicas/marketplace-api/internal/application/inventory"
	"github.com/jhoicas/marketplace-api/internal/domain"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	"github.com/jhoicas/marketplace-api/internal/domain/repository"
)

var (
	_ inventory.TxRunner  = (*DB)(nil)
	_ auth.SignupTxRunner = (*DB)(nil)
)

type lineKey struct{ item, storage string }

type cartKey struct{ user, item string }

type state struct {
	stores    map[string]entity.Store
	users     map[string]entity.User
	storages  map[string]entity.Storage
	items     map[string]entity.Item
	stock     map[lineKey]entity.StockLine
	docs      []entity.StockDocument
	checks    map[string]entity.InventoryCheck
	carts     map[cartKey]entity.CartItem
	orders    map[string]entity.Order
	nextDocID int64
}

func newState() *state {
	return &state{
		stores:   map[string]entity.Store{},
		users:    map[string]entity.User{},
		storages: map[string]entity.Storage{},
		items:    map[string]entity.Item{},
		stock:    map[lineKey]entity.StockLine{},
		checks:   map[string]entity.InventoryCheck{},
		carts:    map[cartKey]entity.CartItem{},
		orders:   map[string]entity.Order{},
	}
}

func (s *state) clone() *state {
	c := &state{
		stores:    make(map[string]entity.Store, len(s.stores)),
		users:     make(map[string]entity.User, len(s.users)),
		storages:  make(map[string]entity.Storage, len(s.storages)),
		items:     make(map[string]entity.Item, len(s.items)),
		stock:     make(map[lineKey]entity.StockLine, len(s.stock)),
		docs:      append([]entity.StockDocument(nil), s.docs...),
		checks:    make(map[string]entity.InventoryCheck, len(s.checks)),
		carts:     make(map[cartKey]entity.CartItem, len(s.carts)),
		orders:    make(map[string]entity.Order, len(s.orders)),
		nextDocID: s.nextDocID,
	}
	for k, v := range s.stores {
		c.stores[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.storages {
		c.storages[k] = v
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	for k, v := range s.stock {
		c.stock[k] = v
	}
	for k, v := range s.checks {
		c.checks[k] = copyCheck(v)
	}
	for k, v := range s.carts {
		c.carts[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = copyOrder(v)
	}
	return c
}

func copyCheck(c entity.InventoryCheck) entity.InventoryCheck {
	c.Lines = append([]entity.InventoryCheckLine(nil), c.Lines...)
	if c.CompletedAt != nil {
		t := *c.CompletedAt
		c.CompletedAt = &t
	}
	return c
}

func copyOrder(o entity.Order) entity.Order {
	o.Lines = append([]entity.OrderLine(nil), o.Lines...)
	return o
}

// DB almacén en memoria. Un semáforo de capacidad 1 hace de lock global: las transacciones
// se ejecutan de a una, lo que equivale a bloquear cada fila que tocan.
type DB struct {
	sem       chan struct{}
	st        *state
	txTimeout time.Duration
}

// Option configura la DB.
type Option func(*DB)

// WithTxTimeout limita la duración de cada transacción (espera del lock incluida).
func WithTxTimeout(d time.Duration) Option {
	return func(db *DB) { db.txTimeout = d }
}

// New crea una DB vacía.
func New(opts ...Option) *DB {
	db := &DB{sem: make(chan struct{}, 1), st: newState()}
	for _, o := range opts {
		o(db)
	}
	return db
}

func (db *DB) acquire(ctx context.Context) error {
	select {
	case db.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("esperando lock: %w", domain.ErrConcurrencyConflict)
	}
}

func (db *DB) release() { <-db.sem }

// Run ejecuta fn con repos sobre una copia del estado. Si fn falla o vence el timeout se descarta la copia.
func (db *DB) Run(ctx context.Context, fn func(repos inventory.Repos) error) error {
	return db.tx(ctx, func(st *state) error {
		return fn(db.repos(st))
	})
}

// RunSignup ejecuta el alta de usuario y tienda en una transacción.
func (db *DB) RunSignup(ctx context.Context, fn func(users repository.UserRepository, stores repository.StoreRepository) error) error {
	return db.tx(ctx, func(st *state) error {
		h := handle{db: db, st: st}
		return fn(&UserRepo{h}, &StoreRepo{h})
	})
}

func (db *DB) tx(ctx context.Context, fn func(st *state) error) error {
	if db.txTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, db.txTimeout)
		defer cancel()
	}
	if err := db.acquire(ctx); err != nil {
		return err
	}
	defer db.release()

	work := db.st.clone()
	if err := fn(work); err != nil {
		return err
	}
	if ctx.Err() != nil {
		return fmt.Errorf("transacción vencida: %w", domain.ErrConcurrencyConflict)
	}
	db.st = work
	return nil
}

func (db *DB) repos(st *state) inventory.Repos {
	h := handle{db: db, st: st}
	return inventory.Repos{
		Stock:     &StockRepo{h},
		Documents: &DocumentRepo{h},
		Checks:    &CheckRepo{h},
		Orders:    &OrderRepo{h},
		Items:     &ItemRepo{h},
		Storages:  &StorageRepo{h},
		Carts:     &CartRepo{h},
	}
}

// Repos fuera de transacción (cada llamada toma el lock por su cuenta).

func (db *DB) Stores() *StoreRepo       { return &StoreRepo{handle{db: db}} }
func (db *DB) Users() *UserRepo         { return &UserRepo{handle{db: db}} }
func (db *DB) Storages() *StorageRepo   { return &StorageRepo{handle{db: db}} }
func (db *DB) Items() *ItemRepo         { return &ItemRepo{handle{db: db}} }
func (db *DB) Stock() *StockRepo        { return &StockRepo{handle{db: db}} }
func (db *DB) Documents() *DocumentRepo { return &DocumentRepo{handle{db: db}} }
func (db *DB) Checks() *CheckRepo       { return &CheckRepo{handle{db: db}} }
func (db *DB) Carts() *CartRepo         { return &CartRepo{handle{db: db}} }
func (db *DB) Orders() *OrderRepo       { return &OrderRepo{handle{db: db}} }

// handle resuelve sobre qué estado opera un repo: el de la tx en curso o el publicado (con lock).
type handle struct {
	db *DB
	st *state
}

func (h handle) read(ctx context.Context, fn func(st *state) error) error {
	if h.st != nil {
		return fn(h.st)
	}
	if err := h.db.acquire(ctx); err != nil {
		return err
	}
	defer h.db.release()
	return fn(h.db.st)
}

// write fuera de tx equivale a una transacción de una sola sentencia.
func (h handle) write(ctx context.Context, fn func(st *state) error) error {
	if h.st != nil {
		return fn(h.st)
	}
	return h.db.tx(ctx, fn)
}

// page aplica limit/offset; limit <= 0 no limita.
func page(n, limit, offset int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > n {
		offset = n
	}
	end := n
	if limit > 0 && offset+limit < n {
		end = offset + limit
	}
	return offset, end
}
