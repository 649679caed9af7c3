package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

// --------------------------------------------------
// Transaction
// --------------------------------------------------

// Transaction roda fn em isolamento serializável. Duas reservas que leram o
// mesmo dia e gravaram em paralelo fazem uma delas falhar com 40001.
func (r *AppointmentGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AppointmentGormRepository{db: tx})
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	id uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).First(&svc, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &svc, nil
}

func (r *AppointmentGormRepository) UpdateService(
	ctx context.Context,
	svc *models.Service,
) error {
	if err := r.db.WithContext(ctx).Save(svc).Error; err != nil {
		return fmt.Errorf("update service: %w", err)
	}
	return nil
}

// --------------------------------------------------
// Professional
// --------------------------------------------------

func (r *AppointmentGormRepository) GetProfessionalByName(
	ctx context.Context,
	name string,
) (*models.Professional, error) {

	var p models.Professional
	if err := r.db.WithContext(ctx).
		Preload("Services").
		Where("name = ?", name).
		First(&p).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// --------------------------------------------------
// Customer
// --------------------------------------------------

func (r *AppointmentGormRepository) GetCustomer(
	ctx context.Context,
	id uint,
) (*models.Customer, error) {

	var c models.Customer
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *AppointmentGormRepository) FindCustomerByPhone(
	ctx context.Context,
	phone string,
) (*models.Customer, error) {

	var c models.Customer
	if err := r.db.WithContext(ctx).
		Where("phone = ?", phone).
		First(&c).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *AppointmentGormRepository) CreateCustomer(
	ctx context.Context,
	c *models.Customer,
) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create customer: %w", err)
	}
	return nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Service").
		First(&ap, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	if err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Create(ap).Error; err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}
	return nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	if err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Save(ap).Error; err != nil {
		return fmt.Errorf("update appointment: %w", err)
	}
	return nil
}

func (r *AppointmentGormRepository) ListActiveAppointments(
	ctx context.Context,
	from time.Time,
	to time.Time,
) ([]models.Appointment, error) {
	return r.activeAppointments(r.db.WithContext(ctx), from, to)
}

// LockActiveAppointments trava as linhas lidas; com a transação serializável,
// reservas concorrentes no mesmo dia não passam as duas.
func (r *AppointmentGormRepository) LockActiveAppointments(
	ctx context.Context,
	from time.Time,
	to time.Time,
) ([]models.Appointment, error) {
	return r.activeAppointments(
		r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}),
		from, to,
	)
}

func (r *AppointmentGormRepository) activeAppointments(
	q *gorm.DB,
	from time.Time,
	to time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := q.
		Preload("Service").
		Where(
			"status <> ? AND date >= ? AND date < ?",
			string(domain.StatusCancelled), from, to,
		).
		Order("date ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

func (r *AppointmentGormRepository) ListServiceAppointments(
	ctx context.Context,
	serviceID uint,
	from time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Service").
		Where(
			"service_id = ? AND status <> ? AND date >= ?",
			serviceID, string(domain.StatusCancelled), from,
		).
		Order("date ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

func (r *AppointmentGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	from time.Time,
	to time.Time,
	professional string,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Service").
		Where("date >= ? AND date < ?", from, to)

	if professional != "" {
		q = q.Where("professional = ?", professional)
	}

	var apps []models.Appointment
	if err := q.Order("date ASC").Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

func (r *AppointmentGormRepository) ListCustomerAppointments(
	ctx context.Context,
	customerID uint,
	from time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Service").
		Where("customer_id = ? AND date >= ?", customerID, from).
		Order("date ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
