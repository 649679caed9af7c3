package db

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type execCall struct {
	sql  string
	args []any
}

// fakeSchema grava os comandos e devolve erro para o primeiro que contiver
// failOn (ou para a contagem, se failCount).
type fakeSchema struct {
	calls     []execCall
	failOn    string
	failCount bool
	existing  map[string]bool
}

func (f *fakeSchema) Exec(sql string, args ...any) error {
	f.calls = append(f.calls, execCall{sql: sql, args: args})
	if f.failOn != "" && strings.Contains(sql, f.failOn) {
		return errors.New("boom")
	}
	return nil
}

func (f *fakeSchema) Count(_ string, args ...any) (int64, error) {
	if f.failCount {
		return 0, errors.New("boom")
	}
	if f.existing[args[0].(string)] {
		return 1, nil
	}
	return 0, nil
}

func (f *fakeSchema) ran(fragment string) bool {
	for _, c := range f.calls {
		if strings.Contains(c.sql, fragment) {
			return true
		}
	}
	return false
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOverlapConstraintsBackfillUsesServiceDuration(t *testing.T) {
	f := &fakeSchema{}
	ensureOverlapConstraints(f, 45, discard())

	if len(f.calls) < 3 {
		t.Fatalf("expected extension and backfills, got %d calls", len(f.calls))
	}

	byService := f.calls[1]
	if byService.sql != backfillByServiceSQL {
		t.Fatalf("expected service backfill second, got %q", byService.sql)
	}
	if !strings.Contains(byService.sql, "s.duration_min") {
		t.Fatal("backfill must use the service duration")
	}
	if len(byService.args) != 1 || byService.args[0] != 45 {
		t.Fatalf("expected default duration 45 as fallback, got %v", byService.args)
	}

	if f.calls[2].sql != backfillDefaultSQL {
		t.Fatalf("expected default backfill third, got %q", f.calls[2].sql)
	}

	if !f.ran(models.ProfessionalOverlapConstraint) || !f.ran(models.CustomerOverlapConstraint) {
		t.Fatal("expected both constraints to be created")
	}
}

func TestOverlapConstraintsSkippedWhenBackfillFails(t *testing.T) {
	f := &fakeSchema{failOn: "UPDATE appointments"}
	ensureOverlapConstraints(f, 30, discard())

	if f.ran("ADD CONSTRAINT") {
		t.Fatal("constraints must not be created after a failed backfill")
	}
}

func TestOverlapConstraintsSkippedWhenLookupFails(t *testing.T) {
	f := &fakeSchema{failCount: true}
	ensureOverlapConstraints(f, 30, discard())

	if f.ran("ADD CONSTRAINT") {
		t.Fatal("constraint must not be created when its existence is unknown")
	}
}

func TestOverlapConstraintsKeepsExisting(t *testing.T) {
	f := &fakeSchema{existing: map[string]bool{models.ProfessionalOverlapConstraint: true}}
	ensureOverlapConstraints(f, 30, discard())

	if f.ran("ADD CONSTRAINT " + models.ProfessionalOverlapConstraint) {
		t.Fatal("existing constraint must not be recreated")
	}
	if !f.ran("ADD CONSTRAINT " + models.CustomerOverlapConstraint) {
		t.Fatal("missing constraint must be created")
	}
}

func TestOverlapConstraintsDefaultDuration(t *testing.T) {
	f := &fakeSchema{}
	ensureOverlapConstraints(f, 0, discard())

	if got := f.calls[1].args[0]; got != 30 {
		t.Fatalf("expected fallback 30, got %v", got)
	}
}
