package inventory

import (
	"context"
	"math"

	"github.com/jhoicas/marketplace-api/internal/domain"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
)

// Scope identifica la línea del libro afectada por un movimiento.
type Scope struct {
	StoreID   string
	ItemID    string
	StorageID string
}

// Ledger es el primitivo de movimiento sobre StockLine. Siempre corre dentro de una
// transacción abierta por el caller; el documento se persiste en la misma tx.
type Ledger struct{}

// NewLedger construye el libro.
func NewLedger() *Ledger {
	return &Ledger{}
}

// ApplyMovement valida el alcance, bloquea (o crea en 0) la línea y aplica el monto con signo.
// Un decremento que dejaría la cantidad negativa falla con *domain.InsufficientStockError sin escribir nada.
func (l *Ledger) ApplyMovement(ctx context.Context, repos Repos, scope Scope, signedAmount int64) (*entity.StockLine, error) {
	if signedAmount == 0 {
		return nil, domain.ErrInvalidInput
	}
	if _, _, err := NewRegistry(repos.Items, repos.Storages).ResolveScope(ctx, scope); err != nil {
		return nil, err
	}

	// Bloquea la fila (SELECT FOR UPDATE): los movimientos sobre la misma línea quedan ordenados
	line, err := repos.Stock.GetForUpdate(ctx, scope.StoreID, scope.ItemID, scope.StorageID)
	if err != nil {
		return nil, err
	}
	if signedAmount < 0 && line.Quantity+signedAmount < 0 {
		return nil, &domain.InsufficientStockError{
			ItemID:    scope.ItemID,
			StorageID: scope.StorageID,
			Available: line.Quantity,
			Requested: -signedAmount,
		}
	}
	if signedAmount > 0 && line.Quantity > math.MaxInt64-signedAmount {
		return nil, domain.ErrInvalidInput
	}
	line.Quantity += signedAmount
	if err := repos.Stock.SetQuantity(ctx, line); err != nil {
		return nil, err
	}
	return line, nil
}

// Post aplica el movimiento del documento y lo persiste en la misma transacción.
func (l *Ledger) Post(ctx context.Context, repos Repos, doc *entity.StockDocument) (*entity.StockLine, error) {
	line, err := l.ApplyMovement(ctx, repos, Scope{StoreID: doc.StoreID, ItemID: doc.ItemID, StorageID: doc.StorageID}, doc.Amount)
	if err != nil {
		return nil, err
	}
	if err := repos.Documents.Create(ctx, doc); err != nil {
		return nil, err
	}
	return line, nil
}
