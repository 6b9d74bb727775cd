// AngelaMos | 2026
// pgerrors_test.go

package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestTranslatePgError(t *testing.T) {
	tests := []struct {
		name      string
		pgErr     *pgconn.PgError
		wantField string
	}{
		{
			name:      "table prefixed constraint",
			pgErr:     &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key", TableName: "users"},
			wantField: "email",
		},
		{
			name:      "multi word column",
			pgErr:     &pgconn.PgError{Code: "23505", ConstraintName: "users_employee_number_key", TableName: "users"},
			wantField: "employee_number",
		},
		{
			name:      "custom constraint name",
			pgErr:     &pgconn.PgError{Code: "23505", ConstraintName: "username"},
			wantField: "username",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fmt.Errorf("create user: %w", TranslatePgError(tt.pgErr))

			field, ok := DuplicateField(err)
			if !ok || field != tt.wantField {
				t.Errorf("DuplicateField = %q, %v, want %q", field, ok, tt.wantField)
			}
			if !errors.Is(err, ErrDuplicateKey) {
				t.Error("translated error does not match ErrDuplicateKey")
			}
		})
	}
}

func TestTranslatePgError_PassThrough(t *testing.T) {
	fk := &pgconn.PgError{Code: "23503"}
	if got := TranslatePgError(fk); got != error(fk) {
		t.Errorf("foreign key violation rewritten to %v", got)
	}
	if !IsForeignKeyViolation(fmt.Errorf("x: %w", fk)) {
		t.Error("IsForeignKeyViolation = false")
	}
	if !IsCheckViolation(&pgconn.PgError{Code: "23514"}) {
		t.Error("IsCheckViolation = false")
	}

	plain := errors.New("boom")
	if TranslatePgError(plain) != plain {
		t.Error("non pg error rewritten")
	}
	if _, ok := DuplicateField(plain); ok {
		t.Error("DuplicateField matched a plain error")
	}
}
