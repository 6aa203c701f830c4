package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/marketplace-api/internal/application/dto"
	"github.com/jhoicas/marketplace-api/internal/domain"
)

// writeError traduce errores de dominio a respuestas HTTP. Se distingue por errors.Is / errors.As,
// nunca por el texto. Un recurso de otra tienda responde igual que uno inexistente.
func writeError(c *fiber.Ctx, err error) error {
	var fe *domain.FulfillmentError
	if errors.As(err, &fe) {
		lines := make([]dto.InsufficientStockLine, 0, len(fe.Shortages))
		for _, s := range fe.Shortages {
			lines = append(lines, shortageLine(s))
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.InsufficientStockResponse{
			Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente para confirmar el pedido", Lines: lines,
		})
	}
	var ise *domain.InsufficientStockError
	if errors.As(err, &ise) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.InsufficientStockResponse{
			Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente", Lines: []dto.InsufficientStockLine{shortageLine(ise)},
		})
	}

	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return fail(c, fiber.StatusBadRequest, "INSUFFICIENT_STOCK", "stock insuficiente")
	case errors.Is(err, domain.ErrInvalidInput):
		return fail(c, fiber.StatusBadRequest, "VALIDATION", "datos inválidos")
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrScopeViolation), errors.Is(err, domain.ErrUserNotFound):
		return fail(c, fiber.StatusNotFound, "NOT_FOUND", "recurso no encontrado")
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return fail(c, fiber.StatusConflict, "CONCURRENCY_CONFLICT", "conflicto de concurrencia, reintente")
	case errors.Is(err, domain.ErrInvalidState):
		return fail(c, fiber.StatusConflict, "INVALID_STATE", "transición de estado no permitida")
	case errors.Is(err, domain.ErrConflict):
		return fail(c, fiber.StatusConflict, "CONFLICT", "conflicto con el estado actual")
	case errors.Is(err, domain.ErrDuplicate):
		return fail(c, fiber.StatusConflict, "DUPLICATE", "recurso duplicado")
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return fail(c, fiber.StatusConflict, "EMAIL_EXISTS", "el email ya está registrado")
	case errors.Is(err, domain.ErrUnauthorized):
		return fail(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "credenciales inválidas")
	case errors.Is(err, domain.ErrForbidden):
		return fail(c, fiber.StatusForbidden, "FORBIDDEN", "acceso denegado")
	}
	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
	return fail(c, fiber.StatusInternalServerError, "INTERNAL", "error interno")
}

func fail(c *fiber.Ctx, status int, code, msg string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func badBody(c *fiber.Ctx) error {
	return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
}

func shortageLine(s *domain.InsufficientStockError) dto.InsufficientStockLine {
	return dto.InsufficientStockLine{ItemID: s.ItemID, StorageID: s.StorageID, Available: s.Available, Requested: s.Requested}
}

// page lee limit/offset de la query con los límites de dto.PageRequest.
func page(c *fiber.Ctx) dto.PageRequest {
	p := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	p.DefaultPage()
	return p
}
