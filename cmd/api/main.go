package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"moveops_backend/internal/activity"
	activityrepo "moveops_backend/internal/activity/repository"
	"moveops_backend/internal/adapters"
	"moveops_backend/internal/bookings"
	bookingrepo "moveops_backend/internal/bookings/repository"
	"moveops_backend/internal/calendar"
	"moveops_backend/internal/dashboard"
	dashboardrepo "moveops_backend/internal/dashboard/repository"
	"moveops_backend/internal/events"
	"moveops_backend/internal/geo"
	apphttp "moveops_backend/internal/http"
	"moveops_backend/internal/http/router"
	"moveops_backend/internal/leads"
	leadrepo "moveops_backend/internal/leads/repository"
	"moveops_backend/internal/merchants"
	merchantrepo "moveops_backend/internal/merchants/repository"
	"moveops_backend/internal/notification"
	"moveops_backend/internal/payments"
	paymentrepo "moveops_backend/internal/payments/repository"
	"moveops_backend/internal/scheduler"
	"moveops_backend/internal/webhook"
	"moveops_backend/migrations"
	"moveops_backend/platform/config"
	"moveops_backend/platform/db"
	"moveops_backend/platform/logger"
	"moveops_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	reminderScheduler, closeScheduler := initReminderScheduler(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}

	var sender notification.Sender = notification.NoopSender{}
	if cfg.IsEmailEnabled() {
		sender = notification.NewSMTPSender(cfg)
		log.Info("email sender initialized", "host", cfg.SMTPHost)
	} else {
		log.Warn("SMTP not configured; merchant emails disabled")
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	activityModule := activity.NewModule(activityrepo.New(pool), log)
	merchantsModule := merchants.NewModule(merchantrepo.New(pool), cfg, log, val)
	leadsModule := leads.NewModule(leadrepo.New(pool), eventBus, log, val)

	distance := geo.NewStaticEstimator(cfg.GetDefaultDistanceKm())
	bookingsModule := bookings.NewModule(
		bookingrepo.New(pool),
		adapters.LeadReader{Leads: leadsModule.Service},
		merchantsModule.Service,
		distance,
		eventBus,
		log,
		val,
	)
	if reminderScheduler != nil {
		bookingsModule.Service.SetReminderScheduler(reminderScheduler)
	}

	paymentsModule := payments.NewModule(paymentrepo.New(pool), eventBus, log, val)
	dashboardModule := dashboard.NewModule(dashboardrepo.New(pool), log)

	calendarModule, err := calendar.NewModule(bookingsModule.Service, log)
	if err != nil {
		log.Error("failed to initialize calendar module", "error", err)
		panic("failed to initialize calendar module: " + err.Error())
	}

	webhookModule := webhook.NewModule(merchantsModule.Service, leadsModule.Service, log, val)

	// Notification module subscribes to domain events (not HTTP-facing)
	notificationModule := notification.NewModule(sender, merchantsModule.Service, log)
	notificationModule.Subscribe(eventBus)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			merchantsModule,
			leadsModule,
			bookingsModule,
			paymentsModule,
			dashboardModule,
			calendarModule,
			activityModule,
			webhookModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initReminderScheduler(cfg config.SchedulerConfig, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; move-day reminders disabled")
		return nil, nil
	}

	reminderClient, err := scheduler.NewClient(cfg, log)
	if err != nil {
		log.Error("failed to initialize reminder scheduler client", "error", err)
		return nil, nil
	}

	return reminderClient, func() {
		_ = reminderClient.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
