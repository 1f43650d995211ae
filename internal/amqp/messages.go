package amqp

import (
	"encoding/json"
	"time"
)

// TransactionCreatedMessage carries everything the export worker needs to
// append one ledger entry to the spreadsheet. The payload is self-contained
// so the worker never has to reach back into a user's store.
type TransactionCreatedMessage struct {
	UserID        string    `json:"user_id"`
	BoardID       string    `json:"board_id"`
	BoardName     string    `json:"board_name"`
	TransactionID string    `json:"transaction_id"`
	Title         string    `json:"title"`
	AmountCents   int64     `json:"amount_cents"`
	Date          time.Time `json:"date"`
	Category      string    `json:"category"`
	Description   string    `json:"description,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewTransactionCreatedMessage(userID, boardID, boardName, transactionID, title, category, description string, amountCents int64, date time.Time) *TransactionCreatedMessage {
	return &TransactionCreatedMessage{
		UserID:        userID,
		BoardID:       boardID,
		BoardName:     boardName,
		TransactionID: transactionID,
		Title:         title,
		AmountCents:   amountCents,
		Date:          date,
		Category:      category,
		Description:   description,
		Timestamp:     time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionCreatedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionCreatedMessageFromJSON creates a message from JSON bytes
func TransactionCreatedMessageFromJSON(data []byte) (*TransactionCreatedMessage, error) {
	var msg TransactionCreatedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// BillDueMessage announces an unpaid bill approaching (or past) its due
// date. Downstream consumers turn these into user notifications.
type BillDueMessage struct {
	UserID      string    `json:"user_id"`
	BillID      string    `json:"bill_id"`
	Title       string    `json:"title"`
	AmountCents int64     `json:"amount_cents"`
	DueDate     time.Time `json:"due_date"`
	Timestamp   time.Time `json:"timestamp"`
}

func NewBillDueMessage(userID, billID, title string, amountCents int64, dueDate time.Time) *BillDueMessage {
	return &BillDueMessage{
		UserID:      userID,
		BillID:      billID,
		Title:       title,
		AmountCents: amountCents,
		DueDate:     dueDate,
		Timestamp:   time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *BillDueMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// BillDueMessageFromJSON creates a message from JSON bytes
func BillDueMessageFromJSON(data []byte) (*BillDueMessage, error) {
	var msg BillDueMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
