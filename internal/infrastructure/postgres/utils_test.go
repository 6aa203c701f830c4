package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/marketplace-api/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"uuid mal formado", &pgconn.PgError{Code: codeInvalidText, Message: `invalid input syntax for type uuid: "abc"`}, domain.ErrInvalidInput},
		{"cantidad negativa", &pgconn.PgError{Code: codeCheckViolation, ConstraintName: quantityCheckConstraint}, domain.ErrInsufficientStock},
		{"otro check", &pgconn.PgError{Code: codeCheckViolation, ConstraintName: "cart_items_amount_check"}, domain.ErrInvalidInput},
		{"lock timeout", &pgconn.PgError{Code: codeLockNotAvailable}, domain.ErrConcurrencyConflict},
		{"deadlock", &pgconn.PgError{Code: codeDeadlock}, domain.ErrConcurrencyConflict},
		{"fk", &pgconn.PgError{Code: codeForeignKeyViolation}, domain.ErrConflict},
		{"único", &pgconn.PgError{Code: codeUniqueViolation}, domain.ErrDuplicate},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), domain.ErrConcurrencyConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, classify("op", tt.err), tt.want)
		})
	}

	raw := errors.New("conexión cerrada")
	got := classify("op", raw)
	assert.ErrorIs(t, got, raw)
	assert.NotErrorIs(t, got, domain.ErrInvalidInput)
}
