package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"kassa/internal/amqp"
	"kassa/internal/cli"
	"kassa/internal/export/sheets"
	"kassa/internal/log"
	"kassa/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentExport)
	cfg := cli.LoadAndValidateConfig(logger)

	logger.Info("Starting kassa-worker")

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the export worker")
		os.Exit(1)
	}
	if cfg.GoogleSpreadsheetID == "" {
		logger.Error("GOOGLE_SPREADSHEET_ID is required for the export worker")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sheetsClient, err := sheets.NewFromEnv(ctx)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized",
		"spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleSheetName)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	exportWorker := worker.NewExportWorker(sheetsClient)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqpClient.ConsumeTransactions(gctx, exportWorker.HandleTransactionMessage)
	})

	logger.Info("Consuming transaction messages", "queue", cfg.AMQPQueue)
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}
