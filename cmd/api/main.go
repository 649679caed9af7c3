package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	"github.com/BruksfildServices01/salon-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/salon-scheduler/internal/db"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/lock"
	"github.com/BruksfildServices01/salon-scheduler/internal/logging"
	"github.com/BruksfildServices01/salon-scheduler/internal/notify"
	"github.com/BruksfildServices01/salon-scheduler/internal/routes"
)

const (
	lockWait        = 3 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	logger := logging.NewLogger("salon-scheduler", cfg.Env)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := dbpkg.NewDB(cfg, logger)
	if err != nil {
		logger.Error("database unavailable", "err", err)
		os.Exit(1)
	}

	// --------------------------------------------------
	// Lock da agenda: Redis quando configurado
	// --------------------------------------------------
	var locker lock.Locker = lock.NewLocalLocker(lockWait)
	if cfg.RedisURL != "" {
		client, err := lock.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("redis unavailable", "err", err)
			os.Exit(1)
		}
		defer client.Close()
		locker = lock.NewRedisLocker(client, cfg.LockTTL, lockWait)
		logger.Info("agenda lock", "backend", "redis")
	} else {
		logger.Info("agenda lock", "backend", "memory")
	}

	// --------------------------------------------------
	// Eventos: Kafka quando configurado
	// --------------------------------------------------
	var publisher notify.Publisher = notify.NewLogPublisher(logger)
	if len(cfg.KafkaBrokers) > 0 {
		publisher = notify.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		logger.Info("notifications", "backend", "kafka", "topic", cfg.KafkaTopic)
	}

	notifier := notify.NewDispatcher(publisher, logger)
	auditDispatcher := audit.NewDispatcher(audit.New(db), logger)

	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, routes.Deps{
		DB:       db,
		Config:   cfg,
		Logger:   logger,
		Locker:   locker,
		Audit:    auditDispatcher,
		Notifier: notifier,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("server running", "addr", cfg.Addr(), "timezone", cfg.SalonTimezone)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
	}

	// eventos pendentes ainda são entregues antes de sair
	if err := notifier.Close(); err != nil {
		logger.Error("close notifier", "err", err)
	}
	auditDispatcher.Close()
}
