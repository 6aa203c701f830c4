package fulfillment

import (
	"context"

	"github.com/jhoicas/marketplace-api/internal/application/inventory"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
)

// StockIssuer registra salidas dentro de la transacción del caller.
// Si retorna error (ej: *domain.InsufficientStockError), el caller debe hacer rollback.
type StockIssuer interface {
	IssueInTx(ctx context.Context, repos inventory.Repos, in inventory.WriteOffInput) (*entity.StockDocument, error)
}

// StockReceiver registra entradas dentro de la transacción del caller.
type StockReceiver interface {
	ReceiveInTx(ctx context.Context, repos inventory.Repos, in inventory.ReceiptInput) (*entity.StockDocument, error)
}
