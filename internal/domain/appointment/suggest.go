package appointment

import (
	"sort"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

const (
	DefaultSuggestionStep = 30 * time.Minute
	DefaultMaxSuggestions = 4
)

type SuggestOptions struct {
	// Expediente como deslocamento a partir da meia-noite (08:00 e 20:00 por padrão).
	WorkdayStart time.Duration
	WorkdayEnd   time.Duration
	Step         time.Duration
	Max          int
}

func DefaultSuggestOptions() SuggestOptions {
	return SuggestOptions{
		WorkdayStart: 8 * time.Hour,
		WorkdayEnd:   20 * time.Hour,
		Step:         DefaultSuggestionStep,
		Max:          DefaultMaxSuggestions,
	}
}

// SuggestSlots percorre os buracos livres entre os blocos, dentro do
// expediente, em passos fixos a partir do início de cada buraco, e devolve os
// horários mais próximos do pedido. Nunca sugere horário antes de now.
func SuggestSlots(
	blocks []Block,
	requested time.Time,
	duration time.Duration,
	dayStart time.Time,
	dayEnd time.Time,
	now time.Time,
	opts SuggestOptions,
) []time.Time {

	if duration <= 0 {
		return nil
	}
	if opts.Step <= 0 {
		opts.Step = DefaultSuggestionStep
	}
	if opts.Max <= 0 {
		opts.Max = DefaultMaxSuggestions
	}

	loc := dayStart.Location()
	winStart := laterOf(dayStart, timezone.At(dayStart, opts.WorkdayStart, loc))
	winEnd := earlierOf(dayEnd, timezone.At(dayStart, opts.WorkdayEnd, loc))
	if !winEnd.After(winStart) {
		return nil
	}

	sorted := make([]Block, len(blocks))
	copy(sorted, blocks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	// Cursor acumulado: blocos de profissionais diferentes podem se sobrepor.
	var gaps []Block
	cursor := winStart
	for _, b := range sorted {
		if b.Start.After(cursor) {
			gaps = append(gaps, Block{Start: cursor, End: earlierOf(b.Start, winEnd)})
		}
		cursor = laterOf(cursor, b.End)
		if !cursor.Before(winEnd) {
			break
		}
	}
	if cursor.Before(winEnd) {
		gaps = append(gaps, Block{Start: cursor, End: winEnd})
	}

	seen := make(map[int64]bool)
	var candidates []time.Time
	for _, g := range gaps {
		for t := g.Start; !t.Add(duration).After(g.End); t = t.Add(opts.Step) {
			if t.Before(now) {
				continue
			}
			key := t.UnixNano()
			if seen[key] {
				continue
			}
			seen[key] = true
			candidates = append(candidates, t)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return distance(candidates[i], requested) < distance(candidates[j], requested)
	})

	if len(candidates) > opts.Max {
		candidates = candidates[:opts.Max]
	}
	return candidates
}

func distance(a, b time.Time) time.Duration {
	d := a.Sub(b)
	if d < 0 {
		return -d
	}
	return d
}

func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earlierOf(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
