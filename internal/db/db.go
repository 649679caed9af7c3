package db

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/salon-scheduler/internal/config"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

func NewDB(cfg *config.Config, log *slog.Logger) (*gorm.DB, error) {
	gormLog := logger.Default.LogMode(logger.Warn)
	if cfg.Env == "dev" {
		gormLog = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
		Logger:         gormLog,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Service{},
		&models.Professional{},
		&models.Customer{},
		&models.Appointment{},
		&models.AuditLog{},
	); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	ensureOverlapConstraints(
		gormSchema{db: db},
		int(cfg.DefaultServiceDuration/time.Minute),
		log,
	)

	return db, nil
}

// schema é o que ensureOverlapConstraints precisa do banco.
type schema interface {
	Exec(sql string, args ...any) error
	Count(sql string, args ...any) (int64, error)
}

type gormSchema struct {
	db *gorm.DB
}

func (g gormSchema) Exec(sql string, args ...any) error {
	return g.db.Exec(sql, args...).Error
}

func (g gormSchema) Count(sql string, args ...any) (int64, error) {
	var n int64
	err := g.db.Raw(sql, args...).Scan(&n).Error
	return n, err
}

// Linhas gravadas antes da coluna ends_at recebem o fim pela duração do
// serviço; sem serviço (ou duração zerada), pela duração padrão.
const (
	backfillByServiceSQL = `UPDATE appointments a
		SET ends_at = a.date + make_interval(mins => CASE WHEN s.duration_min > 0 THEN s.duration_min ELSE ? END)
		FROM services s
		WHERE s.id = a.service_id AND (a.ends_at IS NULL OR a.ends_at <= a.date)`
	backfillDefaultSQL = `UPDATE appointments
		SET ends_at = date + make_interval(mins => ?)
		WHERE ends_at IS NULL OR ends_at <= date`
	constraintExistsSQL = `SELECT COUNT(*) FROM pg_constraint WHERE conname = ?`
)

// ensureOverlapConstraints cria as constraints de exclusão que impedem, no
// banco, dois agendamentos ativos sobrepostos para o mesmo profissional ou
// cliente. Sem btree_gist a agenda continua protegida pela transação.
// Qualquer falha no preenchimento de ends_at cancela a criação.
func ensureOverlapConstraints(db schema, defaultMin int, log *slog.Logger) {
	if defaultMin <= 0 {
		defaultMin = config.DefaultServiceDurationMin
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`); err != nil {
		log.Warn("btree_gist unavailable, skipping overlap constraints", "err", err)
		return
	}

	if err := db.Exec(backfillByServiceSQL, defaultMin); err != nil {
		log.Warn("ends_at backfill failed, skipping overlap constraints", "err", err)
		return
	}
	if err := db.Exec(backfillDefaultSQL, defaultMin); err != nil {
		log.Warn("ends_at backfill failed, skipping overlap constraints", "err", err)
		return
	}

	stmts := []struct {
		name string
		sql  string
	}{
		{
			name: models.ProfessionalOverlapConstraint,
			sql: `ALTER TABLE appointments ADD CONSTRAINT ` + models.ProfessionalOverlapConstraint + `
				EXCLUDE USING gist (professional WITH =, tstzrange(date, ends_at, '[)') WITH &&)
				WHERE (status <> 'cancelado' AND professional <> '')`,
		},
		{
			name: models.CustomerOverlapConstraint,
			sql: `ALTER TABLE appointments ADD CONSTRAINT ` + models.CustomerOverlapConstraint + `
				EXCLUDE USING gist (customer_id WITH =, tstzrange(date, ends_at, '[)') WITH &&)
				WHERE (status <> 'cancelado')`,
		},
	}

	for _, st := range stmts {
		exists, err := db.Count(constraintExistsSQL, st.name)
		if err != nil {
			log.Warn("could not check overlap constraint", "constraint", st.name, "err", err)
			continue
		}
		if exists > 0 {
			continue
		}
		if err := db.Exec(st.sql); err != nil {
			log.Warn("could not create overlap constraint", "constraint", st.name, "err", err)
		}
	}
}
