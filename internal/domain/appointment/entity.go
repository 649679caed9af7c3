package appointment

import (
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Transition aplica a mudança de status e carimba datas de cancelamento/conclusão.
func Transition(ap *models.Appointment, to Status, now time.Time, reason string) error {
	if err := CanTransition(Status(ap.Status), to); err != nil {
		return err
	}

	ap.Status = string(to)

	switch to {
	case StatusCancelled:
		ap.CancelledAt = &now
		ap.CancellationReason = reason
	case StatusCompleted:
		ap.CompletedAt = &now
	}
	return nil
}

func Cancel(ap *models.Appointment, now time.Time, reason string) error {
	return Transition(ap, StatusCancelled, now, reason)
}

func Complete(ap *models.Appointment, now time.Time) error {
	return Transition(ap, StatusCompleted, now, "")
}
