// Package sheets appends exported ledger transactions to a Google Sheet.
// The sheet is a mirror for reporting, never a source of truth.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"kassa/internal/amqp"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// NewFromEnv creates a Sheets client from environment variables.
// Required: GOOGLE_SPREADSHEET_ID. Optional: GOOGLE_SHEET_NAME
// (default "Transaktioner") and service-account credentials via
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	sheetName := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if sheetName == "" {
		sheetName = "Transaktioner"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// newSheetsService initializes a Sheets service using service-account
// credentials from the environment.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return service, nil
}

// AppendTransaction appends one exported transaction as a row:
// date, user, board, title, category, amount in kronor, description.
func (c *Client) AppendTransaction(ctx context.Context, msg *amqp.TransactionCreatedMessage) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	kronor := float64(msg.AmountCents) / 100.0
	row := []any{
		msg.Date.Format("2006-01-02"),
		msg.UserID,
		msg.BoardName,
		msg.Title,
		msg.Category,
		kronor,
		msg.Description,
	}

	rng := fmt.Sprintf("%s!A:G", c.sheetName)
	cctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, &gsheet.ValueRange{
		Values: [][]any{row},
	}).ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(cctx).Do()
	if err != nil {
		return "", fmt.Errorf("append row: %w", err)
	}

	ref := ""
	if resp.Updates != nil {
		ref = resp.Updates.UpdatedRange
	}
	slog.InfoContext(ctx, "Transaction exported to sheet",
		"transaction_id", msg.TransactionID,
		"sheet", c.sheetName,
		"range", ref)
	return ref, nil
}
