package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/dto"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

// ListCustomerAppointments lista a agenda do cliente a partir do início do
// dia de hoje (inclui cancelados, para o histórico recente).
type ListCustomerAppointments struct {
	repo     domain.Repository
	loc      *time.Location
	fallback time.Duration
	now      func() time.Time
}

func NewListCustomerAppointments(
	repo domain.Repository,
	loc *time.Location,
	fallback time.Duration,
	now func() time.Time,
) *ListCustomerAppointments {
	if now == nil {
		now = time.Now
	}
	return &ListCustomerAppointments{
		repo:     repo,
		loc:      loc,
		fallback: fallback,
		now:      now,
	}
}

func (uc *ListCustomerAppointments) Execute(
	ctx context.Context,
	customerID uint,
) ([]dto.AppointmentListDTO, error) {

	from, _ := timezone.DayBounds(uc.now(), uc.loc)

	appointments, err := uc.repo.ListCustomerAppointments(ctx, customerID, from)
	if err != nil {
		return nil, err
	}
	return toListDTO(appointments, uc.loc, uc.fallback), nil
}
