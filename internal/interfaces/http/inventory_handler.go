package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/marketplace-api/internal/application/dto"
	"github.com/jhoicas/marketplace-api/internal/application/inventory"
)

// IdempotencyKeyHeader header opcional para reintentar entradas y salidas sin duplicarlas.
const IdempotencyKeyHeader = "Idempotency-Key"

// InventoryHandler maneja entradas, salidas, historial y lecturas de stock (protegido).
type InventoryHandler struct {
	receipts  *inventory.ReceiptUseCase
	writeOffs *inventory.WriteOffUseCase
	documents *inventory.DocumentsUseCase
	overview  *inventory.OverviewUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	receipts *inventory.ReceiptUseCase,
	writeOffs *inventory.WriteOffUseCase,
	documents *inventory.DocumentsUseCase,
	overview *inventory.OverviewUseCase,
) *InventoryHandler {
	return &InventoryHandler{receipts: receipts, writeOffs: writeOffs, documents: documents, overview: overview}
}

// RegisterReceipt godoc
// @Summary      Registrar entrada de mercancía
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string              false  "Clave para reintentos seguros"
// @Param        body             body    dto.ReceiptRequest  true   "item_id, storage_id, amount"
// @Success      201   {object}  dto.MovementResponse
// @Success      200   {object}  dto.MovementResponse  "reintento con la misma clave"
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/receipts [post]
func (h *InventoryHandler) RegisterReceipt(c *fiber.Ctx) error {
	var in dto.ReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.receipts.Register(c.UserContext(), inventory.ReceiptInput{
		StoreID:        GetStoreID(c),
		UserID:         GetUserID(c),
		ItemID:         in.ItemID,
		StorageID:      in.StorageID,
		Amount:         in.Amount,
		DocumentNumber: in.DocumentNumber,
		Supplier:       in.Supplier,
		Notes:          in.Notes,
		IdempotencyKey: c.Get(IdempotencyKeyHeader),
	})
	if err != nil {
		return writeError(c, err)
	}
	return movementCreated(c, res)
}

// RegisterWriteOff godoc
// @Summary      Registrar salida (baja) de mercancía
// @Description  Rechaza con 400 y el disponible actual si la salida dejaría el stock negativo.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string               false  "Clave para reintentos seguros"
// @Param        body             body    dto.WriteOffRequest  true   "item_id, storage_id, amount, reason"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.InsufficientStockResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/write-offs [post]
func (h *InventoryHandler) RegisterWriteOff(c *fiber.Ctx) error {
	var in dto.WriteOffRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.writeOffs.Register(c.UserContext(), inventory.WriteOffInput{
		StoreID:        GetStoreID(c),
		UserID:         GetUserID(c),
		ItemID:         in.ItemID,
		StorageID:      in.StorageID,
		Amount:         in.Amount,
		DocumentNumber: in.DocumentNumber,
		Reason:         in.Reason,
		Notes:          in.Notes,
		IdempotencyKey: c.Get(IdempotencyKeyHeader),
	})
	if err != nil {
		return writeError(c, err)
	}
	return movementCreated(c, res)
}

func movementCreated(c *fiber.Ctx, res *inventory.MovementResult) error {
	status := fiber.StatusCreated
	if res.Replayed {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(toMovementResponse(res))
}

// ListDocuments godoc
// @Summary      Historial de movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        storage_id  query  string  false  "Filtrar por almacén"
// @Param        item_id     query  string  false  "Filtrar por item"
// @Param        kind        query  string  false  "receipt | write_off | adjustment"
// @Param        limit       query  int     false  "Límite"  default(20)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.DocumentListResponse
// @Router       /api/inventory/documents [get]
func (h *InventoryHandler) ListDocuments(c *fiber.Ctx) error {
	p := page(c)
	docs, total, err := h.documents.List(c.UserContext(), inventory.DocumentQuery{
		StoreID:   GetStoreID(c),
		StorageID: c.Query("storage_id"),
		ItemID:    c.Query("item_id"),
		Kind:      c.Query("kind"),
		Limit:     p.Limit,
		Offset:    p.Offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.DocumentListResponse{
		Items: toDocumentResponses(docs),
		Page:  dto.PageResponse{Limit: p.Limit, Offset: p.Offset, Total: total},
	})
}

// GetDocument godoc
// @Summary      Obtener documento contabilizado
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del documento"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/documents/{id} [get]
func (h *InventoryHandler) GetDocument(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return fail(c, fiber.StatusBadRequest, "VALIDATION", "id inválido")
	}
	doc, err := h.documents.Get(c.UserContext(), GetStoreID(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toDocumentResponse(doc))
}

// GetStockLine godoc
// @Summary      Cantidad actual de un item en un almacén
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        item_id     path  string  true  "ID del item"
// @Param        storage_id  path  string  true  "ID del almacén"
// @Success      200  {object}  dto.StockLineResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock/{item_id}/{storage_id} [get]
func (h *InventoryHandler) GetStockLine(c *fiber.Ctx) error {
	line, err := h.documents.StockLine(c.UserContext(), GetStoreID(c), c.Params("item_id"), c.Params("storage_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toStockLineResponse(line))
}

// Overview godoc
// @Summary      Resumen de stock por item y almacén
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StockOverviewResponse
// @Router       /api/inventory/stock [get]
func (h *InventoryHandler) Overview(c *fiber.Ctx) error {
	out, err := h.overview.Overview(c.UserContext(), GetStoreID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Stats godoc
// @Summary      Métricas del almacén
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.WarehouseStatsResponse
// @Router       /api/inventory/stats [get]
func (h *InventoryHandler) Stats(c *fiber.Ctx) error {
	out, err := h.overview.Stats(c.UserContext(), GetStoreID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
