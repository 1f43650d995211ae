package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"kassa/internal/amqp"
	"kassa/internal/cli"
	apphttp "kassa/internal/http"
	"kassa/internal/identity"
	"kassa/internal/log"
	"kassa/internal/middleware/ratelimit"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	ctx := context.Background()
	result := cli.InitBackend(ctx, logger, cfg)

	// AMQP is optional: without it, transactions simply are not mirrored
	// to the export queue.
	var publisher apphttp.TransactionPublisher
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without export",
				"error", err)
		} else {
			publisher = amqpClient
			logger.Info("AMQP client initialized - transactions will be exported")
		}
	} else {
		logger.Info("AMQP disabled - transactions will not be exported")
	}

	srv := apphttp.NewServer(":"+cfg.Port, result.Persistence, apphttp.Options{
		Identity: identity.HeaderProvider{
			Header:   cfg.UserHeader,
			Fallback: cfg.DefaultUser,
		},
		Publisher: publisher,
		RateLimit: ratelimit.Config{RequestsPerMinute: cfg.RequestsPerMinute},
	})

	shutdownCtx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Error("AMQP close error", "error", err)
			}
		}
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup error", "error", err)
			}
		}
	})

	logger.Info("Starting kassa server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(shutdownCtx, done)
	logger.Info("Server stopped gracefully")
}
