package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/marketplace-api/internal/domain"
)

// SQLSTATE usados para clasificar errores.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeRestrictViolation   = "23001"
	codeSerialization       = "40001"
	codeDeadlock            = "40P01"
	codeLockNotAvailable    = "55P03"
	codeQueryCanceled       = "57014"
	codeInvalidText         = "22P02"
)

const quantityCheckConstraint = "stock_lines_quantity_check"

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == codeUniqueViolation
	}
	return strings.Contains(err.Error(), codeUniqueViolation)
}

// classify traduce errores de PostgreSQL a errores de dominio. op describe la operación
// para el mensaje. Errores no reconocidos se envuelven tal cual (fatales para el caller).
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w: %v", op, domain.ErrConcurrencyConflict, err)
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %w", op, err)
	}
	switch pgErr.Code {
	case codeCheckViolation:
		if pgErr.ConstraintName == quantityCheckConstraint {
			// Última línea de defensa: el libro ya valida antes de escribir.
			return fmt.Errorf("%s: %w", op, domain.ErrInsufficientStock)
		}
		return fmt.Errorf("%s: %w: %s", op, domain.ErrInvalidInput, pgErr.Message)
	case codeSerialization, codeDeadlock, codeLockNotAvailable, codeQueryCanceled:
		return fmt.Errorf("%s: %w: %s", op, domain.ErrConcurrencyConflict, pgErr.Message)
	case codeForeignKeyViolation, codeRestrictViolation:
		return fmt.Errorf("%s: %w: %s", op, domain.ErrConflict, pgErr.Message)
	case codeUniqueViolation:
		return fmt.Errorf("%s: %w: %s", op, domain.ErrDuplicate, pgErr.Message)
	case codeInvalidText:
		// p. ej. un id que no es UUID
		return fmt.Errorf("%s: %w: %s", op, domain.ErrInvalidInput, pgErr.Message)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// nullable convierte "" en NULL para columnas opcionales.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
