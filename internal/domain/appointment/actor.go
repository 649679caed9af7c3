package appointment

import (
	"strings"
	"unicode/utf8"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type ActorKind string

const (
	ActorStaff    ActorKind = "staff"
	ActorCustomer ActorKind = "customer"
	ActorPublic   ActorKind = "public"
)

const MinJustificationLen = 3

// Actor identifica quem está operando a agenda: equipe, cliente logado
// ou página pública de agendamento.
type Actor struct {
	Kind       ActorKind
	UserID     *uint
	CustomerID uint
}

func Staff(userID uint) Actor {
	return Actor{Kind: ActorStaff, UserID: &userID}
}

func Customer(customerID uint) Actor {
	return Actor{Kind: ActorCustomer, CustomerID: customerID}
}

func Public() Actor {
	return Actor{Kind: ActorPublic}
}

func (a Actor) RequiresJustification() bool {
	return a.Kind == ActorCustomer
}

// CanApply restringe o cliente a confirmar ou cancelar.
func (a Actor) CanApply(to Status) error {
	if a.Kind == ActorStaff {
		return nil
	}
	if to == StatusConfirmed || to == StatusCancelled {
		return nil
	}
	return httperr.ErrBusiness("forbidden_status_transition")
}

// CanModify verifica se o ator pode mexer no agendamento. Para o cliente,
// agendamento de outra pessoa é tratado como inexistente.
func (a Actor) CanModify(ap *models.Appointment) error {
	switch a.Kind {
	case ActorStaff:
		return nil
	case ActorCustomer:
		if ap.CustomerID != a.CustomerID {
			return httperr.ErrBusiness("appointment_not_found")
		}
		st := Status(ap.Status)
		if st != StatusScheduled && st != StatusConfirmed {
			return httperr.ErrBusiness("appointment_locked")
		}
		return nil
	default:
		return httperr.ErrBusiness("forbidden")
	}
}

func ValidateJustification(s string) error {
	if utf8.RuneCountInString(strings.TrimSpace(s)) < MinJustificationLen {
		return httperr.ErrBusiness("justification_required")
	}
	return nil
}
