package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"kassa/internal/amqp"
	"kassa/internal/core"
)

type fakeBillPersistence struct {
	bills   map[string][]core.Bill
	loadErr map[string]error
}

func (f *fakeBillPersistence) LoadBills(ctx context.Context, userID string) ([]core.Bill, error) {
	if err := f.loadErr[userID]; err != nil {
		return nil, err
	}
	return f.bills[userID], nil
}

func (f *fakeBillPersistence) SaveBills(ctx context.Context, userID string, bills []core.Bill) error {
	f.bills[userID] = bills
	return nil
}

func (f *fakeBillPersistence) Users(ctx context.Context) ([]string, error) {
	users := make([]string, 0, len(f.bills))
	for u := range f.bills {
		users = append(users, u)
	}
	return users, nil
}

type fakePublisher struct {
	published []*amqp.BillDueMessage
	err       error
}

func (f *fakePublisher) PublishBillDue(ctx context.Context, msg *amqp.BillDueMessage) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, msg)
	return nil
}

func TestScanPublishesDueBills(t *testing.T) {
	now := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	paid := now.Add(-time.Hour)
	persist := &fakeBillPersistence{bills: map[string][]core.Bill{
		"anna@example.com": {
			{ID: "b1", Title: "Hyra", AmountCents: 850000, DueDate: now.Add(24 * time.Hour)},
			{ID: "b2", Title: "El", AmountCents: 89900, DueDate: now.Add(-2 * time.Hour)}, // overdue
			{ID: "b3", Title: "Bredband", AmountCents: 39900, DueDate: now.Add(200 * time.Hour)},
			{ID: "b4", Title: "Försäkring", AmountCents: 12900, DueDate: now.Add(12 * time.Hour), IsPaid: true, PaidDate: &paid},
		},
	}}
	pub := &fakePublisher{}

	count, err := NewReminderScanner(persist, pub, 72*time.Hour).Scan(context.Background(), now)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if count != 2 || len(pub.published) != 2 {
		t.Fatalf("expected 2 reminders, got count=%d published=%d", count, len(pub.published))
	}
	for _, msg := range pub.published {
		if msg.BillID != "b1" && msg.BillID != "b2" {
			t.Fatalf("unexpected reminder for %s", msg.BillID)
		}
		if msg.UserID != "anna@example.com" {
			t.Fatalf("wrong user on message: %+v", msg)
		}
	}
}

func TestScanSkipsFailingUser(t *testing.T) {
	now := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	persist := &fakeBillPersistence{
		bills: map[string][]core.Bill{
			"broken@example.com": {},
			"anna@example.com": {
				{ID: "b1", Title: "Hyra", AmountCents: 850000, DueDate: now},
			},
		},
		loadErr: map[string]error{"broken@example.com": errors.New("corrupt record")},
	}
	pub := &fakePublisher{}

	count, err := NewReminderScanner(persist, pub, 72*time.Hour).Scan(context.Background(), now)
	if err != nil {
		t.Fatalf("a failing user must not abort the scan: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 reminder, got %d", count)
	}
}

func TestScanToleratesPublishFailure(t *testing.T) {
	now := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	persist := &fakeBillPersistence{bills: map[string][]core.Bill{
		"anna@example.com": {
			{ID: "b1", Title: "Hyra", AmountCents: 850000, DueDate: now},
		},
	}}
	pub := &fakePublisher{err: errors.New("broker down")}

	count, err := NewReminderScanner(persist, pub, 72*time.Hour).Scan(context.Background(), now)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if count != 0 {
		t.Fatalf("failed publishes must not be counted, got %d", count)
	}
}

type fakeAppender struct {
	refs []string
	err  error
}

func (f *fakeAppender) AppendTransaction(ctx context.Context, msg *amqp.TransactionCreatedMessage) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.refs = append(f.refs, msg.TransactionID)
	return "Transaktioner!A5:G5", nil
}

func TestHandleTransactionMessage(t *testing.T) {
	app := &fakeAppender{}
	w := NewExportWorker(app)
	msg := amqp.NewTransactionCreatedMessage(
		"anna@example.com", "b1", "Min budget", "t1", "ICA", "Mat", "", 4500, time.Now())

	if err := w.HandleTransactionMessage(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(app.refs) != 1 || app.refs[0] != "t1" {
		t.Fatalf("append not called: %v", app.refs)
	}

	app.err = errors.New("quota exceeded")
	if err := w.HandleTransactionMessage(context.Background(), msg); err == nil {
		t.Fatalf("expected error to requeue the message")
	}
}
