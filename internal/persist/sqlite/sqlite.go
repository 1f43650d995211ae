// Package sqlite persists store documents in a SQLite database, one
// snapshot row per user and record kind. The schema is managed by embedded
// migrations.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"kassa/internal/core"
	"kassa/internal/store"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// LoadBoards implements store.BoardPersistence.
func (s *Store) LoadBoards(ctx context.Context, userID string) (*store.BoardDocument, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM board_documents WHERE user_id = ?`, userID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select board document: %w", err)
	}
	var doc store.BoardDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("decode board document: %w", err)
	}
	return &doc, nil
}

// SaveBoards implements store.BoardPersistence.
func (s *Store) SaveBoards(ctx context.Context, userID string, doc *store.BoardDocument) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode board document: %w", err)
	}
	return s.upsert(ctx, "board_documents", userID, payload)
}

// LoadBills implements store.BillPersistence.
func (s *Store) LoadBills(ctx context.Context, userID string) ([]core.Bill, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM bill_documents WHERE user_id = ?`, userID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select bill document: %w", err)
	}
	var bills []core.Bill
	if err := json.Unmarshal(payload, &bills); err != nil {
		return nil, fmt.Errorf("decode bill document: %w", err)
	}
	return bills, nil
}

// SaveBills implements store.BillPersistence.
func (s *Store) SaveBills(ctx context.Context, userID string, bills []core.Bill) error {
	if bills == nil {
		bills = []core.Bill{}
	}
	payload, err := json.Marshal(bills)
	if err != nil {
		return fmt.Errorf("encode bill document: %w", err)
	}
	return s.upsert(ctx, "bill_documents", userID, payload)
}

// Users lists every user with a persisted bill record.
func (s *Store) Users(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT user_id FROM bill_documents ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("select bill users: %w", err)
	}
	defer rows.Close()
	var users []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bill users: %w", err)
	}
	return users, nil
}

func (s *Store) upsert(ctx context.Context, table, userID string, payload []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO `+table+` (user_id, payload, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		userID, payload, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("upsert %s: %w", table, err)
	}
	return nil
}
