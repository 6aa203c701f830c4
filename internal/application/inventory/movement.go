package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/marketplace-api/internal/domain"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
)

// MovementResult resultado de registrar una entrada o salida.
// Replayed indica que la clave de idempotencia ya existía y no se aplicó un segundo movimiento.
type MovementResult struct {
	Document *entity.StockDocument
	Line     *entity.StockLine
	Replayed bool
}

// poster comparte el flujo transaccional de entradas y salidas.
type poster struct {
	txRunner TxRunner
	ledger   *Ledger
	cache    StockCache
	log      zerolog.Logger
	now      func() time.Time
}

func newPoster(txRunner TxRunner, ledger *Ledger, cache StockCache, log zerolog.Logger) poster {
	if cache == nil {
		cache = NoopCache{}
	}
	return poster{txRunner: txRunner, ledger: ledger, cache: cache, log: log, now: time.Now}
}

// post registra doc en una transacción, respetando la clave de idempotencia si viene informada.
func (p poster) post(ctx context.Context, doc *entity.StockDocument) (*MovementResult, error) {
	var res MovementResult
	doc.CreatedAt = p.now()
	err := p.txRunner.Run(ctx, func(repos Repos) error {
		if doc.IdempotencyKey != "" {
			prev, err := repos.Documents.GetByIdempotencyKey(ctx, doc.StoreID, doc.IdempotencyKey)
			if err != nil {
				return err
			}
			if prev != nil {
				if !prev.SameMovement(doc) {
					return domain.ErrConflict
				}
				line, err := repos.Stock.Get(ctx, prev.ItemID, prev.StorageID)
				if err != nil {
					return err
				}
				res = MovementResult{Document: prev, Line: line, Replayed: true}
				return nil
			}
		}
		line, err := p.ledger.Post(ctx, repos, doc)
		if err != nil {
			return err
		}
		res = MovementResult{Document: doc, Line: line}
		return nil
	})
	if err != nil {
		p.logRejection(doc, err)
		return nil, err
	}
	if !res.Replayed {
		if err := p.cache.Invalidate(ctx, doc.StoreID); err != nil {
			p.log.Warn().Err(err).Str("store_id", doc.StoreID).Msg("no se pudo invalidar caché de stock")
		}
		p.log.Debug().
			Int64("document_id", doc.ID).
			Str("kind", doc.Kind).
			Str("item_id", doc.ItemID).
			Str("storage_id", doc.StorageID).
			Int64("amount", doc.Amount).
			Int64("quantity", res.Line.Quantity).
			Msg("documento contabilizado")
	}
	return &res, nil
}

func (p poster) logRejection(doc *entity.StockDocument, err error) {
	ev := p.log.Info()
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrScopeViolation), errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrConcurrencyConflict):
	default:
		ev = p.log.Error()
	}
	ev.Err(err).
		Str("kind", doc.Kind).
		Str("store_id", doc.StoreID).
		Str("item_id", doc.ItemID).
		Str("storage_id", doc.StorageID).
		Msg("movimiento rechazado")
}
