package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/marketplace-api/internal/application/dto"
	"github.com/jhoicas/marketplace-api/internal/application/inventory"
)

// CheckHandler maneja inventarizaciones: apertura, conteo, cierre y hoja imprimible (protegido).
type CheckHandler struct {
	uc     *inventory.ReconciliationUseCase
	sheets *inventory.CountSheetUseCase
}

// NewCheckHandler construye el handler.
func NewCheckHandler(uc *inventory.ReconciliationUseCase, sheets *inventory.CountSheetUseCase) *CheckHandler {
	return &CheckHandler{uc: uc, sheets: sheets}
}

// Create godoc
// @Summary      Abrir inventarización de un almacén
// @Description  Toma una foto de las cantidades actuales del almacén como cantidad esperada.
// @Tags         checks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCheckRequest  true  "storage_id"
// @Success      201   {object}  dto.CheckResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/checks [post]
func (h *CheckHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCheckRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	check, err := h.uc.Create(c.UserContext(), inventory.CreateCheckInput{
		StoreID:        GetStoreID(c),
		UserID:         GetUserID(c),
		StorageID:      in.StorageID,
		DocumentNumber: in.DocumentNumber,
		Notes:          in.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toCheckResponse(check))
}

// List godoc
// @Summary      Listar inventarizaciones
// @Tags         checks
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "draft | in_progress | completed | cancelled"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.CheckListResponse
// @Router       /api/inventory/checks [get]
func (h *CheckHandler) List(c *fiber.Ctx) error {
	p := page(c)
	list, err := h.uc.List(c.UserContext(), GetStoreID(c), c.Query("status"), p.Limit, p.Offset)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.CheckListResponse{Items: make([]dto.CheckResponse, 0, len(list)), Page: dto.PageResponse{Limit: p.Limit, Offset: p.Offset}}
	for _, ch := range list {
		out.Items = append(out.Items, toCheckResponse(ch))
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener inventarización con líneas
// @Tags         checks
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la inventarización"
// @Success      200  {object}  dto.CheckResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/checks/{id} [get]
func (h *CheckHandler) Get(c *fiber.Ctx) error {
	check, err := h.uc.Get(c.UserContext(), GetStoreID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toCheckResponse(check))
}

// RecordCount godoc
// @Summary      Registrar conteo físico de un item
// @Tags         checks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id       path  string                  true  "ID de la inventarización"
// @Param        item_id  path  string                  true  "ID del item"
// @Param        body     body  dto.RecordCountRequest  true  "actual_amount"
// @Success      200  {object}  dto.CheckResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/checks/{id}/lines/{item_id} [put]
func (h *CheckHandler) RecordCount(c *fiber.Ctx) error {
	var in dto.RecordCountRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.ActualAmount == nil {
		return fail(c, fiber.StatusBadRequest, "VALIDATION", "actual_amount es requerido")
	}
	check, err := h.uc.RecordCount(c.UserContext(), inventory.RecordCountInput{
		StoreID:      GetStoreID(c),
		CheckID:      c.Params("id"),
		ItemID:       c.Params("item_id"),
		ActualAmount: *in.ActualAmount,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toCheckResponse(check))
}

// Complete godoc
// @Summary      Completar inventarización
// @Description  Contabiliza un ajuste por cada línea con diferencia, en una sola transacción.
// @Tags         checks
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la inventarización"
// @Success      200  {object}  dto.CompleteCheckResponse
// @Failure      400  {object}  dto.InsufficientStockResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/checks/{id}/complete [post]
func (h *CheckHandler) Complete(c *fiber.Ctx) error {
	res, err := h.uc.Complete(c.UserContext(), GetStoreID(c), GetUserID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.CompleteCheckResponse{
		Check:       toCheckResponse(res.Check),
		Adjustments: toDocumentResponses(res.Adjustments),
	})
}

// Cancel godoc
// @Summary      Cancelar inventarización
// @Tags         checks
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la inventarización"
// @Success      200  {object}  dto.CheckResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/checks/{id}/cancel [post]
func (h *CheckHandler) Cancel(c *fiber.Ctx) error {
	check, err := h.uc.Cancel(c.UserContext(), GetStoreID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toCheckResponse(check))
}

// CountSheetPDF godoc
// @Summary      Hoja de conteo en PDF
// @Tags         checks
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la inventarización"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/checks/{id}/pdf [get]
func (h *CheckHandler) CountSheetPDF(c *fiber.Ctx) error {
	id := c.Params("id")
	b, err := h.sheets.Render(c.UserContext(), GetStoreID(c), id)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="inventario-%s.pdf"`, id))
	return c.Send(b)
}
