package routes

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	"github.com/BruksfildServices01/salon-scheduler/internal/config"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/handlers"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/lock"
	infraRepo "github.com/BruksfildServices01/salon-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	"github.com/BruksfildServices01/salon-scheduler/internal/notify"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/salon-scheduler/internal/usecase/appointment"
)

// Deps são as peças de infraestrutura montadas no main.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Logger   *slog.Logger
	Locker   lock.Locker
	Audit    *audit.Dispatcher
	Notifier *notify.Dispatcher
}

// SchedulerSettings converte a configuração nas regras da agenda.
func SchedulerSettings(cfg *config.Config) ucAppointment.Settings {
	opts := domain.DefaultSuggestOptions()
	if start, err := config.ParseClock(cfg.WorkdayStart); err == nil {
		opts.WorkdayStart = start
	}
	if end, err := config.ParseClock(cfg.WorkdayEnd); err == nil {
		opts.WorkdayEnd = end
	}
	opts.Step = cfg.SuggestionStep
	opts.Max = cfg.MaxSuggestions

	return ucAppointment.Settings{
		Location:        timezone.Location(cfg.SalonTimezone),
		DefaultDuration: cfg.DefaultServiceDuration,
		Suggest:         opts,
		Now:             time.Now,
	}
}

func RegisterRoutes(r *gin.Engine, deps Deps) {
	db := deps.DB
	cfg := deps.Config

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.CORSMiddleware(cfg.CorsOrigins))

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	userRepo := infraRepo.NewUserGormRepository(db)
	settings := SchedulerSettings(cfg)
	loc := settings.Location

	// ======================================================
	// 🧠 USE CASES: AGENDA
	// ======================================================
	scheduler := ucAppointment.NewScheduler(
		appointmentRepo,
		deps.Locker,
		deps.Audit,
		deps.Notifier,
		settings,
	)

	listAppointmentsByDateUC := ucAppointment.NewListAppointmentsByDate(
		appointmentRepo,
		loc,
		settings.DefaultDuration,
	)

	listAppointmentsByMonthUC := ucAppointment.NewListAppointmentsByMonth(
		appointmentRepo,
		loc,
		settings.DefaultDuration,
	)

	listCustomerAppointmentsUC := ucAppointment.NewListCustomerAppointments(
		appointmentRepo,
		loc,
		settings.DefaultDuration,
		settings.Now,
	)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(userRepo, cfg)
	clientAuthHandler := handlers.NewClientAuthHandler(appointmentRepo, cfg)
	meHandler := handlers.NewMeHandler(db)
	settingsHandler := handlers.NewSettingsHandler(cfg)

	serviceHandler := handlers.NewServiceHandler(db, scheduler)
	professionalHandler := handlers.NewProfessionalHandler(db)
	customerHandler := handlers.NewCustomerHandler(db)
	auditLogsHandler := handlers.NewAuditLogsHandler(db, loc)

	appointmentHandler := handlers.NewAppointmentHandler(
		db,
		scheduler,
		listAppointmentsByDateUC,
		listAppointmentsByMonthUC,
		loc,
	)
	publicHandler := handlers.NewPublicHandler(db, scheduler, loc)
	clientPortalHandler := handlers.NewClientPortalHandler(
		scheduler,
		listCustomerAppointmentsUC,
		loc,
	)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		api.GET("/settings", settingsHandler.Get)

		// ------------------------------
		// 🌐 API PÚBLICA
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/services", publicHandler.ListServices)
			publicAPI.GET("/professionals", publicHandler.ListProfessionals)
			publicAPI.GET("/slots", publicHandler.Slots)
			publicAPI.GET("/suggestions", publicHandler.Suggestions)
			publicAPI.POST("/appointments", publicHandler.CreateAppointment)
		}

		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		api.POST("/client/register", clientAuthHandler.Register)
		api.POST("/client/login", clientAuthHandler.Login)

		// ------------------------------
		// 👤 ÁREA DO CLIENTE
		// ------------------------------
		client := api.Group("/client")
		client.Use(middleware.CustomerAuthMiddleware(cfg))
		{
			client.GET("/appointments", clientPortalHandler.List)
			client.POST("/appointments", clientPortalHandler.Create)
			client.PATCH("/appointments/:id", clientPortalHandler.Update)
			client.PATCH("/appointments/:id/status", clientPortalHandler.ChangeStatus)
			client.GET("/suggestions", clientPortalHandler.Suggestions)
		}

		// ------------------------------
		// 🔐 PAINEL DA EQUIPE
		// ------------------------------
		api.GET("/me", middleware.AuthMiddleware(cfg), meHandler.GetMe)

		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(cfg))
		{
			admin.POST("/appointments", appointmentHandler.Create)
			admin.GET("/appointments", appointmentHandler.ListByDate)
			admin.GET("/appointments/month", appointmentHandler.ListByMonth)
			admin.GET("/appointments/:id", appointmentHandler.Get)
			admin.PUT("/appointments/:id", appointmentHandler.Update)
			admin.PATCH("/appointments/:id/status", appointmentHandler.ChangeStatus)

			admin.GET("/slots", appointmentHandler.Slots)
			admin.GET("/suggestions", appointmentHandler.Suggestions)

			admin.GET("/services", serviceHandler.List)
			admin.POST("/services", serviceHandler.Create)
			admin.PATCH("/services/:id", serviceHandler.Update)

			admin.GET("/professionals", professionalHandler.List)
			admin.POST("/professionals", professionalHandler.Create)
			admin.PATCH("/professionals/:id", professionalHandler.Update)

			admin.GET("/customers", customerHandler.List)
			admin.PUT("/customers/:id/password", customerHandler.SetPassword)

			admin.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
