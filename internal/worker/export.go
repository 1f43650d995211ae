// Package worker contains the background processes: spreadsheet export and
// bill-due reminders.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"kassa/internal/amqp"
)

// TransactionAppender is the export target; satisfied by the Google Sheets
// client.
type TransactionAppender interface {
	AppendTransaction(ctx context.Context, msg *amqp.TransactionCreatedMessage) (string, error)
}

// ExportWorker mirrors created transactions into the export target.
type ExportWorker struct {
	appender TransactionAppender
}

func NewExportWorker(appender TransactionAppender) *ExportWorker {
	return &ExportWorker{appender: appender}
}

// HandleTransactionMessage processes a single export message from AMQP.
// Returning an error requeues the message.
func (w *ExportWorker) HandleTransactionMessage(ctx context.Context, msg *amqp.TransactionCreatedMessage) error {
	ref, err := w.appender.AppendTransaction(ctx, msg)
	if err != nil {
		return fmt.Errorf("append transaction %s: %w", msg.TransactionID, err)
	}

	slog.InfoContext(ctx, "Transaction export complete",
		"transaction_id", msg.TransactionID,
		"user", msg.UserID,
		"board_name", msg.BoardName,
		"ref", ref)
	return nil
}
