package http

import (
	"github.com/jhoicas/marketplace-api/internal/application/dto"
	"github.com/jhoicas/marketplace-api/internal/application/inventory"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
)

func toDocumentResponse(d *entity.StockDocument) dto.DocumentResponse {
	return dto.DocumentResponse{
		ID:               d.ID,
		Kind:             d.Kind,
		ItemID:           d.ItemID,
		StorageID:        d.StorageID,
		Amount:           d.Amount,
		DocumentNumber:   d.DocumentNumber,
		Supplier:         d.Supplier,
		Reason:           d.Reason,
		Notes:            d.Notes,
		InventoryCheckID: d.InventoryCheckID,
		OrderID:          d.OrderID,
		CreatedBy:        d.CreatedBy,
		CreatedAt:        d.CreatedAt,
	}
}

func toDocumentResponses(list []*entity.StockDocument) []dto.DocumentResponse {
	out := make([]dto.DocumentResponse, 0, len(list))
	for _, d := range list {
		out = append(out, toDocumentResponse(d))
	}
	return out
}

func toStockLineResponse(l *entity.StockLine) dto.StockLineResponse {
	return dto.StockLineResponse{ItemID: l.ItemID, StorageID: l.StorageID, Quantity: l.Quantity, UpdatedAt: l.UpdatedAt}
}

func toMovementResponse(r *inventory.MovementResult) dto.MovementResponse {
	return dto.MovementResponse{
		Document: toDocumentResponse(r.Document),
		Stock:    toStockLineResponse(r.Line),
		Replayed: r.Replayed,
	}
}

func toCheckResponse(c *entity.InventoryCheck) dto.CheckResponse {
	lines := make([]dto.CheckLineResponse, 0, len(c.Lines))
	for _, l := range c.Lines {
		lines = append(lines, dto.CheckLineResponse{
			ItemID:         l.ItemID,
			ExpectedAmount: l.ExpectedAmount,
			ActualAmount:   l.ActualAmount,
			Difference:     l.Difference(),
			Counted:        l.Counted,
		})
	}
	return dto.CheckResponse{
		ID:             c.ID,
		StorageID:      c.StorageID,
		DocumentNumber: c.DocumentNumber,
		Notes:          c.Notes,
		Status:         c.Status,
		CreatedBy:      c.CreatedBy,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
		CompletedAt:    c.CompletedAt,
		Lines:          lines,
	}
}
