// Package file persists store documents as per-user JSON files. It is the
// default backend: data/<user>/boards.json and data/<user>/bills.json.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"kassa/internal/core"
	"kassa/internal/store"
)

const (
	boardsFile = "boards.json"
	billsFile  = "bills.json"
)

type Store struct {
	base string
}

func New(base string) *Store {
	return &Store{base: base}
}

// LoadBoards implements store.BoardPersistence.
func (s *Store) LoadBoards(ctx context.Context, userID string) (*store.BoardDocument, error) {
	var doc store.BoardDocument
	ok, err := s.readJSON(userID, boardsFile, &doc)
	if err != nil || !ok {
		return nil, err
	}
	return &doc, nil
}

// SaveBoards implements store.BoardPersistence.
func (s *Store) SaveBoards(ctx context.Context, userID string, doc *store.BoardDocument) error {
	return s.writeJSON(ctx, userID, boardsFile, doc)
}

// LoadBills implements store.BillPersistence.
func (s *Store) LoadBills(ctx context.Context, userID string) ([]core.Bill, error) {
	var bills []core.Bill
	ok, err := s.readJSON(userID, billsFile, &bills)
	if err != nil || !ok {
		return nil, err
	}
	return bills, nil
}

// SaveBills implements store.BillPersistence.
func (s *Store) SaveBills(ctx context.Context, userID string, bills []core.Bill) error {
	if bills == nil {
		bills = []core.Bill{}
	}
	return s.writeJSON(ctx, userID, billsFile, bills)
}

// Users lists every user directory holding a bill record.
func (s *Store) Users(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.base)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read data directory: %w", err)
	}
	var users []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(s.base, e.Name(), billsFile)); err == nil {
			users = append(users, e.Name())
		}
	}
	return users, nil
}

func (s *Store) readJSON(userID, name string, dst any) (bool, error) {
	data, err := os.ReadFile(filepath.Join(s.base, userKey(userID), name))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", name, err)
	}
	return true, nil
}

// writeJSON writes via a temp file and rename so a crash mid-write never
// leaves a truncated document behind.
func (s *Store) writeJSON(ctx context.Context, userID, name string, v any) error {
	dir := filepath.Join(s.base, userKey(userID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create user directory: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	tmp, err := os.CreateTemp(dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(dir, name)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", name, err)
	}
	slog.DebugContext(ctx, "Document persisted", "user", userID, "file", name, "bytes", len(data))
	return nil
}

// userKey maps a user id (usually an email) onto a safe directory name.
func userKey(userID string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '@' || r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, userID)
}
