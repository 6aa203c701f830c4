package inventory

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/marketplace-api/internal/domain"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
)

// ReceiptInput entrada para registrar una entrada de mercancía.
type ReceiptInput struct {
	StoreID        string
	UserID         string
	ItemID         string
	StorageID      string
	Amount         int64
	DocumentNumber string
	Supplier       string
	Notes          string
	IdempotencyKey string
	OrderID        string
}

// ReceiptUseCase registra entradas: suma al libro y persiste el documento en la misma transacción.
type ReceiptUseCase struct {
	poster
}

// NewReceiptUseCase construye el caso de uso. cache puede ser nil.
func NewReceiptUseCase(txRunner TxRunner, ledger *Ledger, cache StockCache, log zerolog.Logger) *ReceiptUseCase {
	return &ReceiptUseCase{poster: newPoster(txRunner, ledger, cache, log)}
}

// Register valida la entrada y contabiliza el documento. Amount debe ser > 0.
func (uc *ReceiptUseCase) Register(ctx context.Context, in ReceiptInput) (*MovementResult, error) {
	if in.Amount <= 0 || in.ItemID == "" || in.StorageID == "" || in.StoreID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.post(ctx, receiptDocument(in))
}

// ReceiveInTx ejecuta una entrada usando los repositorios proporcionados (misma transacción del caller).
// La usa la liberación de pedidos cancelados o devueltos.
func (uc *ReceiptUseCase) ReceiveInTx(ctx context.Context, repos Repos, in ReceiptInput) (*entity.StockDocument, error) {
	if in.Amount <= 0 || in.ItemID == "" || in.StorageID == "" || in.StoreID == "" {
		return nil, domain.ErrInvalidInput
	}
	doc := receiptDocument(in)
	doc.CreatedAt = uc.now()
	if _, err := uc.ledger.Post(ctx, repos, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func receiptDocument(in ReceiptInput) *entity.StockDocument {
	return &entity.StockDocument{
		StoreID:        in.StoreID,
		ItemID:         in.ItemID,
		StorageID:      in.StorageID,
		Kind:           entity.DocumentKindReceipt,
		Amount:         in.Amount,
		DocumentNumber: in.DocumentNumber,
		Supplier:       in.Supplier,
		Notes:          in.Notes,
		IdempotencyKey: in.IdempotencyKey,
		OrderID:        in.OrderID,
		CreatedBy:      in.UserID,
	}
}
