package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"moveops_backend/internal/adapters"
	bookingrepo "moveops_backend/internal/bookings/repository"
	bookingsvc "moveops_backend/internal/bookings/service"
	"moveops_backend/internal/events"
	"moveops_backend/internal/geo"
	leadrepo "moveops_backend/internal/leads/repository"
	leadsvc "moveops_backend/internal/leads/service"
	merchantrepo "moveops_backend/internal/merchants/repository"
	merchantsvc "moveops_backend/internal/merchants/service"
	"moveops_backend/internal/notification"
	"moveops_backend/internal/scheduler"
	"moveops_backend/platform/config"
	"moveops_backend/platform/db"
	"moveops_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler worker", "env", cfg.Env)

	if cfg.RedisURL == "" {
		panic("REDIS_URL is required for the scheduler worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	eventBus := events.NewInMemoryBus(log)

	var sender notification.Sender = notification.NoopSender{}
	if cfg.IsEmailEnabled() {
		sender = notification.NewSMTPSender(cfg)
	} else {
		log.Warn("SMTP not configured; reminder emails disabled")
	}

	// Worker-side read models (no HTTP handlers required).
	merchantService := merchantsvc.NewService(merchantrepo.New(pool), cfg, log)
	leadService := leadsvc.NewService(leadrepo.New(pool), eventBus, log)
	bookingService := bookingsvc.NewService(
		bookingrepo.New(pool),
		adapters.LeadReader{Leads: leadService},
		merchantService,
		geo.NewStaticEstimator(cfg.GetDefaultDistanceKm()),
		eventBus,
		log,
	)

	worker, err := scheduler.NewWorker(cfg, bookingService, merchantService, sender, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	go func() {
		<-ctx.Done()
		log.Info("shutdown signal received, stopping worker")
		worker.Shutdown()
	}()

	if err := worker.Run(); err != nil {
		log.Error("scheduler worker stopped", "error", err)
		panic("scheduler worker stopped: " + err.Error())
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
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
