package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

// ChangeServiceDuration altera a duração do serviço e recalcula o fim de
// todos os agendamentos em aberto dele a partir de hoje. Se algum passar a
// sobrepor outro do mesmo profissional ou do mesmo cliente, nada é gravado.
func (s *Scheduler) ChangeServiceDuration(
	ctx context.Context,
	actor domain.Actor,
	serviceID uint,
	minutes int,
) (*models.Service, error) {

	if actor.Kind != domain.ActorStaff {
		return nil, httperr.ErrBusiness("forbidden")
	}
	if minutes <= 0 {
		return nil, httperr.ErrBusiness("invalid_duration")
	}

	today, _ := timezone.DayBounds(s.now(), s.settings.Location)
	key := fmt.Sprintf("service:%d", serviceID)

	var (
		updated  models.Service
		previous int
		touched  int
	)

	err := s.repo.Transaction(ctx, func(tx domain.Repository) error {
		svc, err := tx.GetService(ctx, serviceID)
		if errors.Is(err, domain.ErrNotFound) {
			return httperr.ErrBusinessWith("service_not_found", map[string]any{"serviceId": serviceID})
		}
		if err != nil {
			return err
		}

		before := domain.ServiceDuration(*svc, s.settings.DefaultDuration)
		previous = svc.DurationMin
		svc.DurationMin = minutes
		after := domain.ServiceDuration(*svc, s.settings.DefaultDuration)

		affected, err := tx.ListServiceAppointments(ctx, serviceID, today)
		if err != nil {
			return err
		}

		days := map[time.Time][]models.Appointment{}
		for i := range affected {
			ap := &affected[i]
			block := domain.Block{Start: ap.Date, End: ap.Date.Add(after)}

			// encurtar nunca cria sobreposição
			if after > before {
				if err := s.checkExtension(ctx, tx, *ap, block, *svc, days); err != nil {
					return err
				}
			}

			ap.EndsAt = block.End
			ap.Service = *svc
			if err := tx.UpdateAppointment(ctx, ap); err != nil {
				return err
			}
		}

		if err := tx.UpdateService(ctx, svc); err != nil {
			return err
		}
		updated = *svc
		touched = len(affected)
		return nil
	})
	if err != nil {
		if httperr.IsExclusionConflict(err) {
			return nil, httperr.ErrBusinessWith("service_duration_conflict", map[string]any{
				"serviceId": serviceID,
			})
		}
		return nil, agendaError(ctx, key, err)
	}

	ev := auditActor(actor)
	ev.Action = "service_duration_changed"
	ev.Entity = "service"
	ev.EntityID = &updated.ID
	ev.Metadata = map[string]any{
		"from":         previous,
		"to":           minutes,
		"appointments": touched,
	}
	s.audit.Dispatch(ev)

	return &updated, nil
}

// checkExtension confere o bloco estendido de ap contra o dia, com os demais
// agendamentos do serviço já na duração nova. Segue as mesmas regras das
// constraints do banco: profissional nomeado e cliente.
func (s *Scheduler) checkExtension(
	ctx context.Context,
	tx domain.Repository,
	ap models.Appointment,
	block domain.Block,
	svc models.Service,
	days map[time.Time][]models.Appointment,
) error {

	from, to := s.dayWindow([]domain.Block{block})

	day, ok := days[from]
	if !ok {
		var err error
		day, err = tx.LockActiveAppointments(ctx, from, to)
		if err != nil {
			return err
		}
		for i := range day {
			if day[i].ServiceID == svc.ID {
				day[i].Service = svc
			}
		}
		days[from] = day
	}

	pool := domain.Excluding(domain.ActiveOnly(day), ap.ID)

	if ap.Professional != "" {
		blocks := domain.ExtractBlocks(domain.ForProfessional(pool, ap.Professional), s.settings.DefaultDuration)
		if b, hit := domain.FirstOverlap(block.Start, block.End, blocks); hit {
			return s.durationConflict(ap, "professional", b)
		}
	}

	blocks := domain.ExtractBlocks(domain.ForCustomer(pool, ap.CustomerID), s.settings.DefaultDuration)
	if b, hit := domain.FirstOverlap(block.Start, block.End, blocks); hit {
		return s.durationConflict(ap, "customer", b)
	}
	return nil
}

func (s *Scheduler) durationConflict(ap models.Appointment, with string, hit domain.Block) error {
	return httperr.ErrBusinessWith("service_duration_conflict", map[string]any{
		"serviceId":     ap.ServiceID,
		"appointmentId": ap.ID,
		"with":          with,
		"conflict": map[string]string{
			"start": hit.Start.In(s.settings.Location).Format(time.RFC3339),
			"end":   hit.End.In(s.settings.Location).Format(time.RFC3339),
		},
	})
}
