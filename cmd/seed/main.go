package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/salon-scheduler/internal/db"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/lock"
	infraRepo "github.com/BruksfildServices01/salon-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/salon-scheduler/internal/logging"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/routes"
	ucAppointment "github.com/BruksfildServices01/salon-scheduler/internal/usecase/appointment"
)

const (
	professionalsCount = 4
	customersCount     = 40
	bookingAttempts    = 60
	seedDays           = 7
)

var catalog = []models.Service{
	{Name: "Corte feminino", DurationMin: 60, Price: 90, Category: "cabelo"},
	{Name: "Corte masculino", DurationMin: 30, Price: 50, Category: "cabelo"},
	{Name: "Escova", DurationMin: 30, Price: 60, Category: "cabelo"},
	{Name: "Coloração", DurationMin: 45, Price: 150, Category: "química"},
	{Name: "Manicure", DurationMin: 40, Price: 35, Category: "unhas"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	logger := logging.NewLogger("salon-seed", cfg.Env)
	ctx := logging.ContextWithLogger(context.Background(), logger)

	db, err := dbpkg.NewDB(cfg, logger)
	if err != nil {
		logger.Error("database unavailable", "err", err)
		os.Exit(1)
	}

	gofakeit.Seed(time.Now().UnixNano())

	if err := run(ctx, db, cfg); err != nil {
		logger.Error("seed failed", "err", err)
		os.Exit(1)
	}
	logger.Info("seed complete")
}

func run(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	log := logging.FromContext(ctx)

	admin, err := seedAdmin(ctx, db)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	services, err := seedServices(ctx, db)
	if err != nil {
		return fmt.Errorf("seed services: %w", err)
	}

	professionals, err := seedProfessionals(ctx, db, services)
	if err != nil {
		return fmt.Errorf("seed professionals: %w", err)
	}

	customers, err := seedCustomers(ctx, db)
	if err != nil {
		return fmt.Errorf("seed customers: %w", err)
	}

	// agendamentos passam pela agenda de verdade: conflitos são descartados
	settings := routes.SchedulerSettings(cfg)
	loc := settings.Location
	scheduler := ucAppointment.NewScheduler(
		infraRepo.NewAppointmentGormRepository(db),
		lock.NewLocalLocker(time.Second),
		nil,
		nil,
		settings,
	)

	booked, conflicts := 0, 0
	for i := 0; i < bookingAttempts; i++ {
		day := time.Now().In(loc).AddDate(0, 0, 1+gofakeit.Number(0, seedDays-1))
		start := time.Date(day.Year(), day.Month(), day.Day(), gofakeit.Number(8, 18), 30*gofakeit.Number(0, 1), 0, 0, loc)

		p := professionals[gofakeit.Number(0, len(professionals)-1)]
		svc := p.Services[gofakeit.Number(0, len(p.Services)-1)]
		customer := customers[gofakeit.Number(0, len(customers)-1)]

		_, err := scheduler.Book(ctx, ucAppointment.BookInput{
			Actor:        domain.Staff(admin.ID),
			CustomerID:   customer.ID,
			ServiceIDs:   []uint{svc.ID},
			Start:        start,
			Professional: p.Name,
		})
		var be httperr.BusinessError
		switch {
		case err == nil:
			booked++
		case errors.As(err, &be):
			conflicts++
		default:
			return fmt.Errorf("book: %w", err)
		}
	}

	log.Info("appointments seeded", "booked", booked, "skipped", conflicts)
	return nil
}

func seedAdmin(ctx context.Context, db *gorm.DB) (*models.User, error) {
	var user models.User
	err := db.WithContext(ctx).Where("email = ?", "admin@salon.local").First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user = models.User{
		Name:         "Administrador",
		Email:        "admin@salon.local",
		PasswordHash: string(hashed),
		Role:         "admin",
	}
	return &user, db.WithContext(ctx).Create(&user).Error
}

func seedServices(ctx context.Context, db *gorm.DB) ([]models.Service, error) {
	out := make([]models.Service, 0, len(catalog))
	for _, svc := range catalog {
		svc.Active = true
		if err := db.WithContext(ctx).
			Where(models.Service{Name: svc.Name}).
			FirstOrCreate(&svc).Error; err != nil {
			return nil, err
		}
		out = append(out, svc)
	}
	return out, nil
}

// seedProfessionals habilita cada profissional em um subconjunto do catálogo.
func seedProfessionals(ctx context.Context, db *gorm.DB, services []models.Service) ([]models.Professional, error) {
	out := make([]models.Professional, 0, professionalsCount)
	for i := 0; i < professionalsCount; i++ {
		first := gofakeit.Number(0, len(services)-1)
		qualified := []models.Service{services[first]}
		for j, svc := range services {
			if j != first && gofakeit.Number(0, 1) == 1 {
				qualified = append(qualified, svc)
			}
		}

		p := models.Professional{
			Name:     gofakeit.FirstName(),
			Phone:    gofakeit.Numerify("119########"),
			Active:   true,
			Services: qualified,
		}
		err := db.WithContext(ctx).Create(&p).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil, errors.New("no professionals created")
	}
	return out, nil
}

func seedCustomers(ctx context.Context, db *gorm.DB) ([]models.Customer, error) {
	out := make([]models.Customer, 0, customersCount)
	for i := 0; i < customersCount; i++ {
		c := models.Customer{
			Name:  gofakeit.Name(),
			Phone: gofakeit.Numerify("119########"),
			Email: gofakeit.Email(),
		}
		err := db.WithContext(ctx).Create(&c).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
