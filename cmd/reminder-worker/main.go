package main

import (
	"context"
	"os"
	"time"

	"kassa/internal/amqp"
	"kassa/internal/cli"
	"kassa/internal/log"
	"kassa/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentReminder)
	cfg := cli.LoadAndValidateConfig(logger)

	logger.Info("Starting reminder-worker")

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the reminder worker")
		os.Exit(1)
	}

	ctx := context.Background()
	result := cli.InitBackend(ctx, logger, cfg)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}

	scanner := worker.NewReminderScanner(result.Persistence, amqpClient, cfg.ReminderWindow)

	runCtx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		if err := amqpClient.Close(); err != nil {
			logger.Error("AMQP close error", "error", err)
		}
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup error", "error", err)
			}
		}
	})

	logger.Info("Bill reminder scanner configured",
		"interval", cfg.ReminderInterval, "window", cfg.ReminderWindow)

	ticker := time.NewTicker(cfg.ReminderInterval)
	defer ticker.Stop()

	// Run an initial scan on startup, then on every tick.
	if count, err := scanner.Scan(runCtx, time.Now()); err != nil {
		logger.Error("Initial reminder scan failed", "error", err)
	} else {
		logger.Info("Initial reminder scan complete", "reminders_published", count)
	}

	for {
		select {
		case <-runCtx.Done():
			cli.WaitForShutdown(runCtx, done)
			logger.Info("Reminder-worker shutdown complete")
			return
		case now := <-ticker.C:
			count, err := scanner.Scan(runCtx, now)
			if err != nil {
				logger.Error("Reminder scan failed", "error", err)
				continue
			}
			logger.Info("Reminder scan complete",
				"reminders_published", count,
				"next_check", now.Add(cfg.ReminderInterval).Format("15:04:05"))
		}
	}
}
