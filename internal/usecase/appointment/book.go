package appointment

import (
	"context"
	"errors"
	"strings"
	"time"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/logging"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/notify"
	"github.com/BruksfildServices01/salon-scheduler/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type BookInput struct {
	Actor domain.Actor

	// Cliente existente, ou telefone + nome para localizar/cadastrar.
	CustomerID    uint
	CustomerName  string
	CustomerPhone string
	CustomerEmail string

	// Serviços na ordem em que serão feitos, um após o outro.
	ServiceIDs []uint

	Start        time.Time
	Professional string
	Notes        string
}

// ======================================================
// EXECUTE
// ======================================================

// Book cria um agendamento por serviço, encadeados a partir de Start. Ou
// todos são gravados, ou nenhum.
func (s *Scheduler) Book(
	ctx context.Context,
	in BookInput,
) ([]models.Appointment, error) {

	// --------------------------------------------------
	// 1️⃣ Campos obrigatórios
	// --------------------------------------------------
	if in.Actor.Kind == domain.ActorCustomer {
		in.CustomerID = in.Actor.CustomerID
	}
	in.Professional = strings.TrimSpace(in.Professional)

	if len(in.ServiceIDs) == 0 {
		return nil, httperr.ErrBusiness("missing_service")
	}
	if in.Start.IsZero() {
		return nil, httperr.ErrBusiness("missing_date")
	}

	phone := ""
	if in.CustomerID == 0 {
		if strings.TrimSpace(in.CustomerPhone) == "" {
			return nil, httperr.ErrBusiness("missing_customer")
		}
		var ok bool
		if phone, ok = validators.NormalizePhone(in.CustomerPhone); !ok {
			return nil, httperr.ErrBusiness("invalid_phone")
		}
	}

	// --------------------------------------------------
	// 2️⃣ Passado
	// --------------------------------------------------
	start := in.Start.In(s.settings.Location)
	if start.Before(s.now()) {
		return nil, httperr.ErrBusiness("past_date")
	}

	// --------------------------------------------------
	// 3️⃣ Serviços + profissional
	// --------------------------------------------------
	services, durations, err := s.resolveDurations(ctx, in.Actor, in.ServiceIDs)
	if err != nil {
		return nil, err
	}
	if err := s.checkProfessional(ctx, in.Professional, services); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 4️⃣ Sequência
	// --------------------------------------------------
	slots := domain.BuildSequence(start, durations)
	from, to := s.dayWindow(slots)

	// --------------------------------------------------
	// 5️⃣–8️⃣ Conflitos + gravação (atômico)
	// --------------------------------------------------
	var created []models.Appointment

	err = s.inAgenda(ctx, start, func(ctx context.Context, tx domain.Repository) error {
		customer, err := s.resolveCustomer(ctx, tx, in, phone)
		if err != nil {
			return err
		}

		day, err := tx.LockActiveAppointments(ctx, from, to)
		if err != nil {
			return err
		}

		if err := s.detectConflict(conflictCheck{
			Day:          day,
			Professional: in.Professional,
			CustomerID:   customer.ID,
			Slots:        slots,
		}); err != nil {
			return err
		}

		created = make([]models.Appointment, 0, len(slots))
		for i, slot := range slots {
			ap := models.Appointment{
				CustomerID:   customer.ID,
				ServiceID:    services[i].ID,
				Date:         slot.Start,
				EndsAt:       slot.End,
				Status:       string(domain.InitialStatus()),
				Professional: in.Professional,
				Notes:        strings.TrimSpace(in.Notes),
			}
			if err := tx.CreateAppointment(ctx, &ap); err != nil {
				return err
			}
			ap.Customer = *customer
			ap.Service = services[i]
			created = append(created, ap)
		}
		return nil
	})

	if err != nil {
		if be, ok := httperr.AsBusiness(err); ok && isConflict(be.Code) {
			s.record(in.Actor, "appointment_conflict", nil, map[string]any{
				"code":         be.Code,
				"start":        start,
				"professional": in.Professional,
				"serviceIds":   in.ServiceIDs,
			})
			logging.FromContext(ctx).Info("booking conflict",
				"code", be.Code,
				"start", start,
				"professional", in.Professional,
			)
		}
		return nil, err
	}

	// --------------------------------------------------
	// 9️⃣ Auditoria + notificação
	// --------------------------------------------------
	for i := range created {
		ap := &created[i]
		s.record(in.Actor, "appointment_created", &ap.ID, map[string]any{
			"start":        ap.Date,
			"serviceId":    ap.ServiceID,
			"professional": ap.Professional,
		})
		s.publish(notify.EventBooked, ap)
	}

	return created, nil
}

// resolveCustomer busca o cliente pelo id ou pelo telefone, cadastrando-o
// quando o telefone ainda não existe. Roda dentro da transação.
func (s *Scheduler) resolveCustomer(
	ctx context.Context,
	tx domain.Repository,
	in BookInput,
	phone string,
) (*models.Customer, error) {

	if in.CustomerID != 0 {
		c, err := tx.GetCustomer(ctx, in.CustomerID)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrBusiness("customer_not_found")
		}
		return c, err
	}

	c, err := tx.FindCustomerByPhone(ctx, phone)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	name := strings.TrimSpace(in.CustomerName)
	if name == "" {
		return nil, httperr.ErrBusiness("missing_name")
	}

	c = &models.Customer{
		Name:  name,
		Phone: phone,
		Email: strings.ToLower(strings.TrimSpace(in.CustomerEmail)),
	}
	err = tx.CreateCustomer(ctx, c)
	if errors.Is(err, domain.ErrDuplicate) {
		// outra reserva cadastrou o mesmo telefone ao mesmo tempo
		return nil, httperr.ErrBusiness("agenda_busy")
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func isConflict(code string) bool {
	return code == "professional_conflict" || code == "customer_conflict"
}
