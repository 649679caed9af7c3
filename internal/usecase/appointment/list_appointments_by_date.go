package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/dto"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

type ListAppointmentsByDate struct {
	repo     domain.Repository
	loc      *time.Location
	fallback time.Duration
}

func NewListAppointmentsByDate(
	repo domain.Repository,
	loc *time.Location,
	fallback time.Duration,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{
		repo:     repo,
		loc:      loc,
		fallback: fallback,
	}
}

func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	date time.Time,
	professional string,
) ([]dto.AppointmentListDTO, error) {

	start, end := timezone.DayBounds(date, uc.loc)

	appointments, err := uc.repo.ListAppointmentsForPeriod(
		ctx,
		start,
		end,
		professional,
	)
	if err != nil {
		return nil, err
	}

	return toListDTO(appointments, uc.loc, uc.fallback), nil
}

func toListDTO(appointments []models.Appointment, loc *time.Location, fallback time.Duration) []dto.AppointmentListDTO {
	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		start := ap.Date.In(loc)
		out = append(out, dto.AppointmentListDTO{
			ID:            ap.ID,
			Start:         start,
			End:           start.Add(domain.ServiceDuration(ap.Service, fallback)),
			Status:        ap.Status,
			CustomerID:    ap.CustomerID,
			CustomerName:  ap.Customer.Name,
			CustomerPhone: ap.Customer.Phone,
			ServiceID:     ap.ServiceID,
			ServiceName:   ap.Service.Name,
			Professional:  ap.Professional,
			Notes:         ap.Notes,
		})
	}
	return out
}
