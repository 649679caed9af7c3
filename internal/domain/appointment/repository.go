package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type Repository interface {
	// Transaction executa fn numa transação serializável; erro em fn desfaz tudo.
	Transaction(
		ctx context.Context,
		fn func(tx Repository) error,
	) error

	// -------- Service --------
	GetService(
		ctx context.Context,
		id uint,
	) (*models.Service, error)

	UpdateService(
		ctx context.Context,
		svc *models.Service,
	) error

	// -------- Professional --------
	GetProfessionalByName(
		ctx context.Context,
		name string,
	) (*models.Professional, error)

	// -------- Customer --------
	GetCustomer(
		ctx context.Context,
		id uint,
	) (*models.Customer, error)

	FindCustomerByPhone(
		ctx context.Context,
		phone string,
	) (*models.Customer, error)

	// CreateCustomer devolve ErrDuplicate se o telefone já estiver cadastrado.
	CreateCustomer(
		ctx context.Context,
		customer *models.Customer,
	) error

	// -------- Appointment --------
	GetAppointment(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// ListActiveAppointments devolve os não cancelados com início em [from, to),
	// com o serviço carregado, ordenados pelo início. Não trava nada.
	ListActiveAppointments(
		ctx context.Context,
		from time.Time,
		to time.Time,
	) ([]models.Appointment, error)

	// LockActiveAppointments é ListActiveAppointments com as linhas travadas
	// até o fim da transação. Só para caminhos de escrita.
	LockActiveAppointments(
		ctx context.Context,
		from time.Time,
		to time.Time,
	) ([]models.Appointment, error)

	// ListServiceAppointments devolve os não cancelados do serviço com início
	// a partir de from.
	ListServiceAppointments(
		ctx context.Context,
		serviceID uint,
		from time.Time,
	) ([]models.Appointment, error)

	// ListAppointmentsForPeriod devolve todos os status, com cliente e serviço.
	// professional vazio = todos.
	ListAppointmentsForPeriod(
		ctx context.Context,
		from time.Time,
		to time.Time,
		professional string,
	) ([]models.Appointment, error)

	ListCustomerAppointments(
		ctx context.Context,
		customerID uint,
		from time.Time,
	) ([]models.Appointment, error)
}
