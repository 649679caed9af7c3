package account

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrRegistrationClosed = errors.New("registration closed")
)

// Repository guarda os usuários da equipe.
type Repository interface {
	FindUserByEmail(
		ctx context.Context,
		email string,
	) (*models.User, error)

	// CreateFirstUser grava user só se ainda não houver nenhum usuário;
	// senão devolve ErrRegistrationClosed. Cadastros simultâneos são
	// serializados: no máximo um passa.
	CreateFirstUser(
		ctx context.Context,
		user *models.User,
	) error
}
