package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/marketplace-api/internal/application/auth"
	"github.com/jhoicas/marketplace-api/internal/application/inventory"
	"github.com/jhoicas/marketplace-api/internal/domain"
	"github.com/jhoicas/marketplace-api/internal/domain/repository"
)

// Ensure TxRunner implements inventory.TxRunner and auth.SignupTxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ auth.SignupTxRunner = (*TxRunner)(nil)

// TxOptions límites de cada transacción. Cero desactiva el límite.
type TxOptions struct {
	Timeout     time.Duration // deadline de toda la transacción
	LockTimeout time.Duration // SET LOCAL lock_timeout
}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
	opts TxOptions
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool, opts TxOptions) *TxRunner {
	return &TxRunner{pool: pool, opts: opts}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Un timeout se informa como ErrConcurrencyConflict sin nada confirmado.
func (r *TxRunner) Run(ctx context.Context, fn func(repos inventory.Repos) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(inventory.Repos{
			Stock:     NewStockRepository(tx),
			Documents: NewStockDocumentRepository(tx),
			Checks:    NewInventoryCheckRepository(tx),
			Orders:    NewOrderRepository(tx),
			Items:     NewItemRepository(tx),
			Storages:  NewStorageRepository(tx),
			Carts:     NewCartRepository(tx),
		})
	})
}

// RunSignup inicia una transacción con los repos de usuarios y tiendas.
func (r *TxRunner) RunSignup(ctx context.Context, fn func(users repository.UserRepository, stores repository.StoreRepository) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewUserRepository(tx), NewStoreRepository(tx))
	})
}

func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	if r.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.Timeout)
		defer cancel()
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return classify("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	if r.opts.LockTimeout > 0 {
		// SET no acepta parámetros: el valor se formatea como entero de milisegundos
		if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = %d", r.opts.LockTimeout.Milliseconds())); err != nil {
			return classify("set lock_timeout", err)
		}
	}

	if err := fn(tx); err != nil {
		if ctx.Err() != nil && !errors.Is(err, domain.ErrConcurrencyConflict) {
			return fmt.Errorf("%w: %v", domain.ErrConcurrencyConflict, err)
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return classify("commit transaction", err)
	}
	return nil
}
