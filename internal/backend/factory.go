package backend

import (
	"context"
	"fmt"
	"log/slog"

	"kassa/internal/persist/file"
	"kassa/internal/persist/sqlite"
)

// DefaultFactory implements the Factory interface.
type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateBackend implements Factory.CreateBackend.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		repo, err := sqlite.New(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite backend: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
		return &Result{Persistence: repo, Cleanup: repo.Close}, nil

	case FileBackend:
		dataDir := config.DataDir
		if dataDir == "" {
			dataDir = "data"
		}
		f.logger.Info("Initialized file backend", "data_dir", dataDir)
		return &Result{Persistence: file.New(dataDir)}, nil

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}
