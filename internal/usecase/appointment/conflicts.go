package appointment

import (
	"time"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

// conflictCheck descreve uma verificação contra o conjunto do dia.
type conflictCheck struct {
	Day          []models.Appointment
	ExcludeID    uint
	Professional string
	CustomerID   uint
	Slots        []domain.Block
}

// detectConflict roda as duas passagens independentes: primeiro a agenda do
// profissional (ou o dia inteiro, para "qualquer profissional"), depois a
// agenda do próprio cliente, com qualquer profissional.
func (s *Scheduler) detectConflict(c conflictCheck) error {
	pool := domain.Excluding(domain.ActiveOnly(c.Day), c.ExcludeID)

	profSet := pool
	if c.Professional != "" {
		profSet = domain.ForProfessional(pool, c.Professional)
	}
	profBlocks := domain.ExtractBlocks(profSet, s.settings.DefaultDuration)

	var custBlocks []domain.Block
	if c.CustomerID != 0 {
		custBlocks = domain.ExtractBlocks(domain.ForCustomer(pool, c.CustomerID), s.settings.DefaultDuration)
	}

	for _, slot := range c.Slots {
		if b, ok := domain.FirstOverlap(slot.Start, slot.End, profBlocks); ok {
			return s.conflictError("professional_conflict", b, c.Slots, profBlocks, custBlocks)
		}
	}
	for _, slot := range c.Slots {
		if b, ok := domain.FirstOverlap(slot.Start, slot.End, custBlocks); ok {
			return s.conflictError("customer_conflict", b, c.Slots, profBlocks, custBlocks)
		}
	}
	return nil
}

func (s *Scheduler) conflictError(
	code string,
	hit domain.Block,
	slots []domain.Block,
	profBlocks []domain.Block,
	custBlocks []domain.Block,
) error {

	span := domain.Span(slots)
	blocks := make([]domain.Block, 0, len(profBlocks)+len(custBlocks))
	blocks = append(blocks, profBlocks...)
	blocks = append(blocks, custBlocks...)

	suggestions := s.suggestAround(blocks, span.Start, span.End.Sub(span.Start))

	return httperr.ErrBusinessWith(code, map[string]any{
		"conflict": map[string]string{
			"start": hit.Start.In(s.settings.Location).Format(time.RFC3339),
			"end":   hit.End.In(s.settings.Location).Format(time.RFC3339),
		},
		"suggestions": formatTimes(suggestions, s.settings.Location),
	})
}

func (s *Scheduler) suggestAround(blocks []domain.Block, requested time.Time, d time.Duration) []time.Time {
	dayStart, dayEnd := timezone.DayBounds(requested, s.settings.Location)
	return domain.SuggestSlots(blocks, requested, d, dayStart, dayEnd, s.now(), s.settings.Suggest)
}

// dayWindow cobre o dia local de start; sequências que passam da meia-noite
// estendem o fim.
func (s *Scheduler) dayWindow(slots []domain.Block) (time.Time, time.Time) {
	span := domain.Span(slots)
	from, to := timezone.DayBounds(span.Start, s.settings.Location)
	if span.End.After(to) {
		to = span.End
	}
	return from, to
}

func formatTimes(ts []time.Time, loc *time.Location) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.In(loc).Format(time.RFC3339))
	}
	return out
}
