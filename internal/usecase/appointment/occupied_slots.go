package appointment

import (
	"context"
	"strings"
	"time"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

// OccupiedSlots expõe os blocos ocupados do dia para o front montar a grade.
// Sem profissional, devolve o dia inteiro; excludeID ignora o agendamento em
// edição.
func (s *Scheduler) OccupiedSlots(
	ctx context.Context,
	day time.Time,
	professional string,
	excludeID uint,
) ([]domain.Block, error) {

	from, to := timezone.DayBounds(day, s.settings.Location)

	aps, err := s.repo.ListActiveAppointments(ctx, from, to)
	if err != nil {
		return nil, err
	}

	aps = domain.Excluding(domain.ActiveOnly(aps), excludeID)
	if p := strings.TrimSpace(professional); p != "" {
		aps = domain.ForProfessional(aps, p)
	}

	blocks := domain.ExtractBlocks(aps, s.settings.DefaultDuration)
	for i := range blocks {
		blocks[i].Start = blocks[i].Start.In(s.settings.Location)
		blocks[i].End = blocks[i].End.In(s.settings.Location)
	}
	return blocks, nil
}

type SuggestInput struct {
	Actor        domain.Actor
	Start        time.Time
	ServiceIDs   []uint
	Professional string
	CustomerID   uint
	ExcludeID    uint
}

// Suggest devolve horários livres próximos de Start para a sequência inteira.
func (s *Scheduler) Suggest(
	ctx context.Context,
	in SuggestInput,
) ([]time.Time, error) {

	if len(in.ServiceIDs) == 0 {
		return nil, httperr.ErrBusiness("missing_service")
	}
	if in.Start.IsZero() {
		return nil, httperr.ErrBusiness("missing_date")
	}
	if in.Actor.Kind == domain.ActorCustomer {
		in.CustomerID = in.Actor.CustomerID
	}
	in.Professional = strings.TrimSpace(in.Professional)

	services, durations, err := s.resolveDurations(ctx, in.Actor, in.ServiceIDs)
	if err != nil {
		return nil, err
	}
	if err := s.checkProfessional(ctx, in.Professional, services); err != nil {
		return nil, err
	}

	start := in.Start.In(s.settings.Location)
	slots := domain.BuildSequence(start, durations)
	from, to := s.dayWindow(slots)

	day, err := s.repo.ListActiveAppointments(ctx, from, to)
	if err != nil {
		return nil, err
	}
	pool := domain.Excluding(domain.ActiveOnly(day), in.ExcludeID)

	profSet := pool
	if in.Professional != "" {
		profSet = domain.ForProfessional(pool, in.Professional)
	}
	blocks := domain.ExtractBlocks(profSet, s.settings.DefaultDuration)
	if in.CustomerID != 0 {
		blocks = append(blocks, domain.ExtractBlocks(domain.ForCustomer(pool, in.CustomerID), s.settings.DefaultDuration)...)
	}

	span := domain.Span(slots)
	return s.suggestAround(blocks, start, span.End.Sub(span.Start)), nil
}
