package appointment

import (
	"testing"
	"time"
)

func TestBuildSequenceChainsServices(t *testing.T) {
	start := at(10, 0)

	slots := BuildSequence(start, []time.Duration{30 * time.Minute, 45 * time.Minute})

	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
	if !slots[0].Start.Equal(at(10, 0)) || !slots[0].End.Equal(at(10, 30)) {
		t.Fatalf("unexpected first slot %v", slots[0])
	}
	if !slots[1].Start.Equal(at(10, 30)) || !slots[1].End.Equal(at(11, 15)) {
		t.Fatalf("unexpected second slot %v", slots[1])
	}

	span := Span(slots)
	if !span.Start.Equal(at(10, 0)) || !span.End.Equal(at(11, 15)) {
		t.Fatalf("unexpected span %v", span)
	}
}

func TestSpanEmpty(t *testing.T) {
	if s := Span(nil); !s.Start.IsZero() || !s.End.IsZero() {
		t.Fatalf("expected zero span, got %v", s)
	}
}
