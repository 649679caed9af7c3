package appointment

import "github.com/BruksfildServices01/salon-scheduler/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusScheduled Status = "agendado"
	StatusConfirmed Status = "confirmado"
	StatusCompleted Status = "concluido"
	StatusInvoiced  Status = "faturado"
	StatusCancelled Status = "cancelado"
)

var allStatuses = []Status{
	StatusScheduled,
	StatusConfirmed,
	StatusCompleted,
	StatusInvoiced,
	StatusCancelled,
}

// Transições permitidas para a equipe. faturado e cancelado são finais.
var staffTransitions = map[Status][]Status{
	StatusScheduled: {StatusConfirmed, StatusCompleted, StatusCancelled},
	StatusConfirmed: {StatusScheduled, StatusCompleted, StatusCancelled},
	StatusCompleted: {StatusInvoiced},
}

func ParseStatus(s string) (Status, bool) {
	for _, st := range allStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// IsActive indica se o agendamento ocupa a agenda.
func IsActive(s Status) bool {
	return s != StatusCancelled
}

// ===============================
// Validations
// ===============================

// CanTransition define se a mudança de status é válida
func CanTransition(from, to Status) error {
	for _, allowed := range staffTransitions[from] {
		if allowed == to {
			return nil
		}
	}
	return httperr.ErrBusiness("invalid_state")
}

// CanReschedule: só agendamentos ainda em aberto podem mudar de horário
func CanReschedule(current Status) error {
	if current != StatusScheduled && current != StatusConfirmed {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func InitialStatus() Status {
	return StatusScheduled
}
