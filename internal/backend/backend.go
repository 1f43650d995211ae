// Package backend selects and constructs the persistence backend the stores
// run on.
package backend

import (
	"context"

	"kassa/internal/store"
)

// Persistence bundles both persistence ports; every backend implements both.
type Persistence interface {
	store.BoardPersistence
	store.BillPersistence
}

// CleanupFunc releases backend resources on shutdown.
type CleanupFunc func() error

// Result contains the backend instance and an optional cleanup function.
type Result struct {
	Persistence Persistence
	Cleanup     CleanupFunc
}

// Factory creates backends based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for backend creation.
type Config struct {
	Type Type

	// File backend
	DataDir string

	// SQLite backend
	SQLiteDBPath string
}

// Type identifies a persistence backend.
type Type string

const (
	FileBackend   Type = "file"
	SQLiteBackend Type = "sqlite"
)

// String implements fmt.Stringer.
func (t Type) String() string {
	return string(t)
}

// IsValid returns true for a known backend type.
func (t Type) IsValid() bool {
	switch t {
	case FileBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}
