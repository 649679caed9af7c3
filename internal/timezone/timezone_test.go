package timezone

import (
	"testing"
	"time"
)

func mustLoadLoc(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return loc
}

func TestDayBoundsUsesSalonTimezone(t *testing.T) {
	loc := mustLoadLoc(t, "America/Sao_Paulo")

	// 01:30 UTC on the 15th is still the 14th in São Paulo (UTC-3).
	instant := time.Date(2026, 10, 15, 1, 30, 0, 0, time.UTC)
	start, end := DayBounds(instant, loc)

	if start.Day() != 14 || start.Hour() != 0 || start.Location() != loc {
		t.Fatalf("unexpected start %s", start)
	}
	if !end.Equal(start.AddDate(0, 0, 1)) {
		t.Fatalf("unexpected end %s", end)
	}
}

func TestParseDateTime(t *testing.T) {
	loc := mustLoadLoc(t, "America/Sao_Paulo")

	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "2026-10-20T14:00", want: time.Date(2026, 10, 20, 14, 0, 0, 0, loc)},
		{in: "2026-10-20 09:30", want: time.Date(2026, 10, 20, 9, 30, 0, 0, loc)},
		{in: "2026-10-20T17:00:00Z", want: time.Date(2026, 10, 20, 14, 0, 0, 0, loc)},
		{in: "", wantErr: true},
		{in: "amanhã", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseDateTime(tt.in, loc)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("%q: expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: unexpected error %v", tt.in, err)
		}
		if !got.Equal(tt.want) {
			t.Fatalf("%q: expected %s, got %s", tt.in, tt.want, got)
		}
	}
}

func TestAt(t *testing.T) {
	loc := mustLoadLoc(t, "UTC")
	day := time.Date(2026, 10, 20, 17, 45, 0, 0, loc)

	got := At(day, 8*time.Hour+30*time.Minute, loc)
	want := time.Date(2026, 10, 20, 8, 30, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestLocationFallsBack(t *testing.T) {
	if Location("Nowhere/Land").String() != DefaultTimezone {
		t.Fatalf("expected fallback to %s", DefaultTimezone)
	}
}
