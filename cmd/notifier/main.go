package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/tuneuplab/tuneup-booking-backend/internal/config"
	"github.com/tuneuplab/tuneup-booking-backend/internal/notify"
	"github.com/tuneuplab/tuneup-booking-backend/internal/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.New()
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config", "error", err)
	}
	if cfg.AMQPURL == "" {
		log.Fatal("AMQP_URL is required for the notifier worker")
	}

	consumer, err := notify.NewConsumer(cfg.AMQPURL, cfg.AMQPExchange, "tuneup.notifier", []string{
		notify.KeyBookingCreated,
		notify.KeyBookingConfirmed,
		notify.KeyBookingCancelled,
	})
	if err != nil {
		log.Fatal("failed to connect to message queue", "error", err)
	}
	defer consumer.Close()

	// Without an SMTP relay the worker logs notifications instead of
	// sending them, which keeps dev environments mail-free.
	var notifier notify.Notifier
	if cfg.SMTPAddr != "" {
		notifier = notify.NewSMTPNotifier(cfg.SMTPAddr, cfg.SMTPFrom)
	} else {
		log.Warn("SMTP_ADDR not set, logging notifications to console")
		notifier = notify.NewConsoleNotifier(log)
	}

	worker := notify.NewWorker(consumer, notifier, cfg.AdminEmail, log)

	log.Info("notifier worker running", "exchange", cfg.AMQPExchange)
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal("worker stopped", "error", err)
	}
	log.Info("notifier worker exited gracefully")
}
