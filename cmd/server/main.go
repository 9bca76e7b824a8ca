package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tuneuplab/tuneup-booking-backend/internal/app"
	"github.com/tuneuplab/tuneup-booking-backend/internal/config"
	"github.com/tuneuplab/tuneup-booking-backend/internal/db"
	"github.com/tuneuplab/tuneup-booking-backend/internal/expiry"
	"github.com/tuneuplab/tuneup-booking-backend/internal/notify"
	"github.com/tuneuplab/tuneup-booking-backend/internal/pkg/logger"
	"github.com/tuneuplab/tuneup-booking-backend/internal/pkg/metrics"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.New()
	defer log.Sync()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config", "error", err)
	}

	// Connect DB
	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		log.Fatal("failed to connect to db", "error", err)
	}
	defer pool.Close()

	// Notification publisher is optional: without an AMQP URL the service
	// runs and simply skips event publishing.
	var publisher notify.Publisher
	if cfg.AMQPURL != "" {
		amqpPublisher, err := notify.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Fatal("failed to connect to message queue", "error", err)
		}
		defer amqpPublisher.Close()
		publisher = amqpPublisher
	} else {
		log.Warn("AMQP_URL not set, notification events disabled")
	}

	m := metrics.New("tuneup_booking")

	// Assemble modules
	container, err := app.NewContainer(app.Config{
		Cfg:       cfg,
		DBPool:    pool,
		Publisher: publisher,
		Logger:    log,
		Metrics:   m,
	})
	if err != nil {
		log.Fatal("failed to initialize application", "error", err)
	}

	// Background sweep for stale pending bookings
	sweeper := expiry.NewSweeper(container.BookingService, cfg.PendingTTL, cfg.SweepInterval, log)
	if err := sweeper.Start(); err != nil {
		log.Fatal("failed to start expiry sweeper", "error", err)
	}
	defer sweeper.Stop()

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: container.Router,
	}

	// Run server in separate goroutine
	go func() {
		log.Info("server running", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", "error", err)
		}
	}()

	// Wait for Ctrl+C
	<-ctx.Done()
	log.Info("shutdown signal received")

	// Create a shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}

	log.Info("server exited gracefully")
}
