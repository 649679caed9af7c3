package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/lock"
	"github.com/BruksfildServices01/salon-scheduler/internal/logging"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/notify"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

// ======================================================
// SETTINGS
// ======================================================

type Settings struct {
	Location        *time.Location
	DefaultDuration time.Duration
	Suggest         domain.SuggestOptions
	Now             func() time.Time
}

func (s Settings) withDefaults() Settings {
	if s.Location == nil {
		s.Location = timezone.Location("")
	}
	if s.DefaultDuration <= 0 {
		s.DefaultDuration = 30 * time.Minute
	}
	if s.Suggest.WorkdayEnd <= s.Suggest.WorkdayStart {
		s.Suggest = domain.DefaultSuggestOptions()
	}
	if s.Now == nil {
		s.Now = time.Now
	}
	return s
}

// ======================================================
// USE CASE
// ======================================================

// Scheduler concentra toda escrita na agenda: agendamento público, área do
// cliente e painel da equipe passam pelas mesmas verificações de conflito.
type Scheduler struct {
	repo     domain.Repository
	locker   lock.Locker
	audit    *audit.Dispatcher
	notifier *notify.Dispatcher
	settings Settings
}

func NewScheduler(
	repo domain.Repository,
	locker lock.Locker,
	audit *audit.Dispatcher,
	notifier *notify.Dispatcher,
	settings Settings,
) *Scheduler {
	return &Scheduler{
		repo:     repo,
		locker:   locker,
		audit:    audit,
		notifier: notifier,
		settings: settings.withDefaults(),
	}
}

func (s *Scheduler) now() time.Time {
	return s.settings.Now().In(s.settings.Location)
}

// inAgenda roda fn numa transação serializável, sob o lock do dia de start.
func (s *Scheduler) inAgenda(
	ctx context.Context,
	start time.Time,
	fn func(ctx context.Context, tx domain.Repository) error,
) error {

	key := lock.AgendaKey(start, s.settings.Location)

	err := s.locker.WithLock(ctx, key, func(ctx context.Context) error {
		return s.repo.Transaction(ctx, func(tx domain.Repository) error {
			return fn(ctx, tx)
		})
	})

	return agendaError(ctx, key, err)
}

// agendaError traduz as falhas de concorrência do banco em erros de negócio
// (409).
func agendaError(ctx context.Context, key string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, lock.ErrLockNotAcquired), httperr.IsSerializationFailure(err):
		logging.FromContext(ctx).Warn("agenda busy", "key", key, "err", err)
		return httperr.ErrBusiness("agenda_busy")
	case httperr.IsExclusionConflict(err):
		if httperr.ConstraintName(err) == models.CustomerOverlapConstraint {
			return httperr.ErrBusiness("customer_conflict")
		}
		return httperr.ErrBusiness("professional_conflict")
	}
	return err
}

// resolveDurations carrega os serviços na ordem pedida.
func (s *Scheduler) resolveDurations(
	ctx context.Context,
	actor domain.Actor,
	serviceIDs []uint,
) ([]models.Service, []time.Duration, error) {

	services := make([]models.Service, 0, len(serviceIDs))
	durations := make([]time.Duration, 0, len(serviceIDs))

	for _, id := range serviceIDs {
		svc, err := s.repo.GetService(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, httperr.ErrBusinessWith("service_not_found", map[string]any{"serviceId": id})
		}
		if err != nil {
			return nil, nil, err
		}
		// serviço desativado só pode ser usado pela equipe
		if !svc.Active && actor.Kind != domain.ActorStaff {
			return nil, nil, httperr.ErrBusinessWith("service_not_found", map[string]any{"serviceId": id})
		}

		services = append(services, *svc)
		durations = append(durations, domain.ServiceDuration(*svc, s.settings.DefaultDuration))
	}
	return services, durations, nil
}

// checkProfessional: existe, está ativo e faz todos os serviços pedidos.
func (s *Scheduler) checkProfessional(
	ctx context.Context,
	name string,
	services []models.Service,
) error {

	if name == "" {
		return nil
	}

	p, err := s.repo.GetProfessionalByName(ctx, name)
	if errors.Is(err, domain.ErrNotFound) {
		return httperr.ErrBusiness("professional_not_found")
	}
	if err != nil {
		return err
	}
	if !p.Active {
		return httperr.ErrBusiness("professional_not_found")
	}

	for _, svc := range services {
		if !p.Performs(svc.ID) {
			return httperr.ErrBusinessWith("professional_not_qualified", map[string]any{
				"professional": name,
				"serviceId":    svc.ID,
			})
		}
	}
	return nil
}

func auditActor(a domain.Actor) audit.Event {
	ev := audit.Event{ActorKind: string(a.Kind), UserID: a.UserID}
	if a.CustomerID != 0 {
		id := a.CustomerID
		ev.CustomerID = &id
	}
	return ev
}

func (s *Scheduler) record(a domain.Actor, action string, entityID *uint, meta any) {
	ev := auditActor(a)
	ev.Action = action
	ev.Entity = "appointment"
	ev.EntityID = entityID
	ev.Metadata = meta
	s.audit.Dispatch(ev)
}

func (s *Scheduler) publish(kind string, ap *models.Appointment) {
	end := ap.Date.Add(domain.ServiceDuration(ap.Service, s.settings.DefaultDuration))
	s.notifier.Dispatch(notify.NewEvent(kind, ap, end, s.now()))
}
