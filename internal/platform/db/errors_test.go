package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ridi/hms/internal/platform/apperr"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", pgx.ErrNoRows, apperr.ErrNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), apperr.ErrNotFound},
		{"unique", &pgconn.PgError{Code: "23505", ConstraintName: "patients_mobile_key"}, apperr.ErrValidation},
		{"foreign key", &pgconn.PgError{Code: "23503", ConstraintName: "appointments_patient_id_fkey"}, apperr.ErrValidation},
		{"check", &pgconn.PgError{Code: "23514", Message: "payments_amount_check"}, apperr.ErrValidation},
		{"other pg error", &pgconn.PgError{Code: "57014"}, apperr.ErrBackend},
		{"transport", errors.New("connection refused"), apperr.ErrBackend},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Translate(tt.err, "get", "patient")
			if !errors.Is(got, tt.want) {
				t.Errorf("Translate() = %v, want kind %v", got, tt.want)
			}
		})
	}
}

func TestTranslate_Nil(t *testing.T) {
	if err := Translate(nil, "get", "patient"); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}
