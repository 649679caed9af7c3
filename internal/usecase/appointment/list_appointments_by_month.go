package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/dto"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
)

type ListAppointmentsByMonth struct {
	repo     appointment.Repository
	loc      *time.Location
	fallback time.Duration
}

func NewListAppointmentsByMonth(
	repo appointment.Repository,
	loc *time.Location,
	fallback time.Duration,
) *ListAppointmentsByMonth {
	return &ListAppointmentsByMonth{
		repo:     repo,
		loc:      loc,
		fallback: fallback,
	}
}

func (uc *ListAppointmentsByMonth) Execute(
	ctx context.Context,
	year int,
	month int,
	professional string,
) ([]dto.AppointmentListDTO, error) {

	if month < 1 || month > 12 {
		return nil, httperr.ErrBusiness("invalid_month")
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, uc.loc)
	end := start.AddDate(0, 1, 0)

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
