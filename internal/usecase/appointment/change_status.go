package appointment

import (
	"context"
	"errors"
	"strings"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/notify"
)

type StatusInput struct {
	Actor         domain.Actor
	AppointmentID uint
	Status        string

	// Motivo do cancelamento; para o cliente, justificativa obrigatória.
	Reason string
}

func (s *Scheduler) ChangeStatus(
	ctx context.Context,
	in StatusInput,
) (*models.Appointment, error) {

	to, ok := domain.ParseStatus(strings.TrimSpace(in.Status))
	if !ok {
		return nil, httperr.ErrBusiness("invalid_status")
	}

	current, err := s.loadForChange(ctx, in.Actor, in.AppointmentID, in.Reason)
	if err != nil {
		return nil, err
	}
	if err := in.Actor.CanApply(to); err != nil {
		return nil, err
	}

	reason := strings.TrimSpace(in.Reason)
	from := current.Status

	var updated models.Appointment
	err = s.repo.Transaction(ctx, func(tx domain.Repository) error {
		ap, err := tx.GetAppointment(ctx, in.AppointmentID)
		if errors.Is(err, domain.ErrNotFound) {
			return httperr.ErrBusiness("appointment_not_found")
		}
		if err != nil {
			return err
		}

		if err := domain.Transition(ap, to, s.now(), reason); err != nil {
			return err
		}
		if err := tx.UpdateAppointment(ctx, ap); err != nil {
			return err
		}
		updated = *ap
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.record(in.Actor, "appointment_status_changed", &updated.ID, map[string]any{
		"from":   from,
		"to":     updated.Status,
		"reason": reason,
	})
	s.publish(notify.EventStatus, &updated)

	return &updated, nil
}
