package notify

import (
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

const (
	EventBooked      = "appointment.booked"
	EventRescheduled = "appointment.rescheduled"
	EventStatus      = "appointment.status_changed"
)

// Event é o aviso publicado para quem envia lembretes (e-mail, WhatsApp).
type Event struct {
	ID            string    `json:"event_id"`
	Type          string    `json:"event_type"`
	AppointmentID uint      `json:"appointment_id"`
	CustomerID    uint      `json:"customer_id"`
	ServiceID     uint      `json:"service_id"`
	Professional  string    `json:"professional,omitempty"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	Status        string    `json:"status"`
	Reason        string    `json:"reason,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func NewEvent(kind string, ap *models.Appointment, end time.Time, now time.Time) Event {
	return Event{
		ID:            uuid.NewString(),
		Type:          kind,
		AppointmentID: ap.ID,
		CustomerID:    ap.CustomerID,
		ServiceID:     ap.ServiceID,
		Professional:  ap.Professional,
		Start:         ap.Date,
		End:           end,
		Status:        ap.Status,
		Reason:        ap.CancellationReason,
		OccurredAt:    now,
	}
}
