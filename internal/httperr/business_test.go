package httperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsBusinessUnwraps(t *testing.T) {
	err := fmt.Errorf("book: %w", ErrBusinessWith("professional_conflict", map[string]any{"x": 1}))

	if !IsBusiness(err, "professional_conflict") {
		t.Fatal("expected wrapped business error to match")
	}
	if IsBusiness(err, "customer_conflict") {
		t.Fatal("different code must not match")
	}

	be, ok := AsBusiness(err)
	if !ok || be.Meta["x"] != 1 {
		t.Fatalf("expected meta to survive wrapping, got %+v", be)
	}
}

func TestPostgresConflictCodes(t *testing.T) {
	exclusion := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23P01"})
	serialization := &pgconn.PgError{Code: "40001"}
	other := &pgconn.PgError{Code: "23505"}

	if !IsExclusionConflict(exclusion) {
		t.Fatal("expected exclusion violation")
	}
	if !IsSerializationFailure(serialization) {
		t.Fatal("expected serialization failure")
	}
	if IsExclusionConflict(other) || IsSerializationFailure(other) {
		t.Fatal("unique violation is not a scheduling conflict")
	}
	if IsExclusionConflict(errors.New("boom")) {
		t.Fatal("plain errors are not conflicts")
	}
}
