package httperr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

type BusinessError struct {
	Code string
	Meta map[string]any
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

// ErrBusinessWith anexa detalhes (ex.: sugestões de horário) ao erro de negócio.
func ErrBusinessWith(code string, meta map[string]any) error {
	return BusinessError{Code: code, Meta: meta}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// AsBusiness extrai o erro de negócio, se houver.
func AsBusiness(err error) (BusinessError, bool) {
	var be BusinessError
	if errors.As(err, &be) {
		return be, true
	}
	return BusinessError{}, false
}

// --------------------------------------------------
// Postgres
// --------------------------------------------------

const (
	pgExclusionViolation   = "23P01"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// IsExclusionConflict detecta a violação da constraint de exclusão da agenda.
func IsExclusionConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation
}

// IsSerializationFailure detecta transações serializáveis que colidiram.
func IsSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected
}

// ConstraintName devolve a constraint violada, quando o erro vem do Postgres.
func ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}
