package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"kassa/internal/amqp"
	"kassa/internal/store"
)

// DuePublisher publishes bill-due reminders; satisfied by the AMQP client.
type DuePublisher interface {
	PublishBillDue(ctx context.Context, msg *amqp.BillDueMessage) error
}

// ReminderScanner periodically walks every user's bills and publishes a
// reminder for each unpaid bill due within the configured window.
type ReminderScanner struct {
	bills     store.BillPersistence
	publisher DuePublisher
	window    time.Duration
}

func NewReminderScanner(bills store.BillPersistence, publisher DuePublisher, window time.Duration) *ReminderScanner {
	return &ReminderScanner{bills: bills, publisher: publisher, window: window}
}

// Scan runs one pass over all users and returns the number of reminders
// published. A failing user does not stop the pass; the error is logged and
// the scan moves on.
func (s *ReminderScanner) Scan(ctx context.Context, now time.Time) (int, error) {
	users, err := s.bills.Users(ctx)
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}

	cutoff := now.Add(s.window)
	published := 0
	for _, user := range users {
		bills, err := s.bills.LoadBills(ctx, user)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to load bills for reminder scan",
				"user", user, "error", err)
			continue
		}
		for _, b := range bills {
			if b.IsPaid || !b.DueDate.Before(cutoff) {
				continue
			}
			msg := amqp.NewBillDueMessage(user, b.ID, b.Title, b.AmountCents, b.DueDate)
			if err := s.publisher.PublishBillDue(ctx, msg); err != nil {
				slog.ErrorContext(ctx, "Failed to publish bill due message",
					"user", user, "bill_id", b.ID, "error", err)
				continue
			}
			published++
		}
	}

	slog.InfoContext(ctx, "Reminder scan complete",
		"users", len(users), "published", published)
	return published, nil
}
