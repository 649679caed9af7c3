package appointment

import (
	"context"
	"errors"
	"strings"
	"time"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/notify"
)

// Campos nil permanecem como estão.
type RescheduleInput struct {
	Actor         domain.Actor
	AppointmentID uint

	Start        *time.Time
	ServiceID    *uint
	Professional *string
	Notes        *string

	Justification string
}

func (s *Scheduler) Reschedule(
	ctx context.Context,
	in RescheduleInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1️⃣ Agendamento + permissões
	// --------------------------------------------------
	current, err := s.loadForChange(ctx, in.Actor, in.AppointmentID, in.Justification)
	if err != nil {
		return nil, err
	}
	if err := domain.CanReschedule(domain.Status(current.Status)); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2️⃣ Novos valores
	// --------------------------------------------------
	start := current.Date.In(s.settings.Location)
	if in.Start != nil {
		start = in.Start.In(s.settings.Location)
	}
	serviceID := current.ServiceID
	if in.ServiceID != nil {
		serviceID = *in.ServiceID
	}
	professional := current.Professional
	if in.Professional != nil {
		professional = strings.TrimSpace(*in.Professional)
	}

	timeChanged := !start.Equal(current.Date)
	serviceChanged := serviceID != current.ServiceID
	professionalChanged := professional != current.Professional
	slotChanged := timeChanged || serviceChanged || professionalChanged

	// só barra o passado quando o horário mudou
	if timeChanged && start.Before(s.now()) {
		return nil, httperr.ErrBusiness("past_date")
	}

	services, durations, err := s.resolveDurations(ctx, in.Actor, []uint{serviceID})
	if err != nil {
		return nil, err
	}
	// qualquer mudança de horário revalida o profissional: ele pode ter sido
	// desativado ou perdido o serviço depois da reserva
	if slotChanged {
		if err := s.checkProfessional(ctx, professional, services); err != nil {
			return nil, err
		}
	}

	slots := domain.BuildSequence(start, durations)
	from, to := s.dayWindow(slots)

	// --------------------------------------------------
	// 3️⃣ Conflitos + gravação
	// --------------------------------------------------
	var updated models.Appointment

	err = s.inAgenda(ctx, start, func(ctx context.Context, tx domain.Repository) error {
		ap, err := tx.GetAppointment(ctx, in.AppointmentID)
		if errors.Is(err, domain.ErrNotFound) {
			return httperr.ErrBusiness("appointment_not_found")
		}
		if err != nil {
			return err
		}
		// pode ter mudado entre a leitura e o lock
		if err := domain.CanReschedule(domain.Status(ap.Status)); err != nil {
			return err
		}

		if slotChanged {
			day, err := tx.LockActiveAppointments(ctx, from, to)
			if err != nil {
				return err
			}
			if err := s.detectConflict(conflictCheck{
				Day:          day,
				ExcludeID:    ap.ID,
				Professional: professional,
				CustomerID:   ap.CustomerID,
				Slots:        slots,
			}); err != nil {
				return err
			}
		}

		// sem mudança de horário o bloco gravado fica como está
		if slotChanged {
			ap.Date = slots[0].Start
			ap.EndsAt = slots[0].End
			ap.ServiceID = services[0].ID
			ap.Service = services[0]
			ap.Professional = professional
		}
		if in.Notes != nil {
			ap.Notes = strings.TrimSpace(*in.Notes)
		}

		if err := tx.UpdateAppointment(ctx, ap); err != nil {
			return err
		}
		updated = *ap
		return nil
	})
	if err != nil {
		if be, ok := httperr.AsBusiness(err); ok && isConflict(be.Code) {
			s.record(in.Actor, "appointment_conflict", &current.ID, map[string]any{
				"code":         be.Code,
				"start":        start,
				"professional": professional,
			})
		}
		return nil, err
	}

	// --------------------------------------------------
	// 4️⃣ Auditoria + notificação
	// --------------------------------------------------
	s.record(in.Actor, "appointment_rescheduled", &updated.ID, map[string]any{
		"from":          current.Date,
		"to":            updated.Date,
		"professional":  updated.Professional,
		"serviceId":     updated.ServiceID,
		"justification": strings.TrimSpace(in.Justification),
	})
	if slotChanged {
		s.publish(notify.EventRescheduled, &updated)
	}

	return &updated, nil
}

// loadForChange aplica as regras comuns de alteração pós-criação: o ator
// precisa poder mexer no agendamento e o cliente precisa justificar.
func (s *Scheduler) loadForChange(
	ctx context.Context,
	actor domain.Actor,
	id uint,
	justification string,
) (*models.Appointment, error) {

	ap, err := s.repo.GetAppointment(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}
	if err != nil {
		return nil, err
	}

	if err := actor.CanModify(ap); err != nil {
		return nil, err
	}
	if actor.RequiresJustification() {
		if err := domain.ValidateJustification(justification); err != nil {
			return nil, err
		}
	}
	return ap, nil
}
