package inventory

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/marketplace-api/internal/domain"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
)

// WriteOffInput entrada para registrar una salida (baja) de mercancía.
type WriteOffInput struct {
	StoreID        string
	UserID         string
	ItemID         string
	StorageID      string
	Amount         int64
	DocumentNumber string
	Reason         string
	Notes          string
	IdempotencyKey string
	OrderID        string
}

// WriteOffUseCase registra salidas. Si el libro rechaza el decremento no se persiste el documento.
type WriteOffUseCase struct {
	poster
}

// NewWriteOffUseCase construye el caso de uso. cache puede ser nil.
func NewWriteOffUseCase(txRunner TxRunner, ledger *Ledger, cache StockCache, log zerolog.Logger) *WriteOffUseCase {
	return &WriteOffUseCase{poster: newPoster(txRunner, ledger, cache, log)}
}

// Register valida la entrada y contabiliza la salida en su propia transacción.
func (uc *WriteOffUseCase) Register(ctx context.Context, in WriteOffInput) (*MovementResult, error) {
	doc, err := writeOffDocument(in)
	if err != nil {
		return nil, err
	}
	return uc.post(ctx, doc)
}

// IssueInTx ejecuta una salida usando los repositorios proporcionados (misma transacción del caller).
// La usa la confirmación de pedidos para que todas las líneas se apliquen o ninguna.
func (uc *WriteOffUseCase) IssueInTx(ctx context.Context, repos Repos, in WriteOffInput) (*entity.StockDocument, error) {
	doc, err := writeOffDocument(in)
	if err != nil {
		return nil, err
	}
	doc.CreatedAt = uc.now()
	if _, err := uc.ledger.Post(ctx, repos, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func writeOffDocument(in WriteOffInput) (*entity.StockDocument, error) {
	if in.Amount <= 0 || in.ItemID == "" || in.StorageID == "" || in.StoreID == "" {
		return nil, domain.ErrInvalidInput
	}
	return &entity.StockDocument{
		StoreID:        in.StoreID,
		ItemID:         in.ItemID,
		StorageID:      in.StorageID,
		Kind:           entity.DocumentKindWriteOff,
		Amount:         -in.Amount,
		DocumentNumber: in.DocumentNumber,
		Reason:         in.Reason,
		Notes:          in.Notes,
		IdempotencyKey: in.IdempotencyKey,
		OrderID:        in.OrderID,
		CreatedBy:      in.UserID,
	}, nil
}
