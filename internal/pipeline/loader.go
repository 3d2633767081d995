package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/carlog/internal/model"

	"go.uber.org/zap"
)

// Snapshotter is the persistence the loader reads from.
type Snapshotter interface {
	Load(ctx context.Context) (model.Data, error)
	UpdatedAt(ctx context.Context) (time.Time, error)
}

// LoadResult holds the loaded state plus how it was obtained.
type LoadResult struct {
	Data      model.Data
	UpdatedAt time.Time
	// Recovered is set when the stored snapshot was corrupt and the result
	// holds defaults instead.
	Recovered bool
}

// DataDir returns the XDG-compliant data directory.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "carlog")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "carlog")
}

// DataPath returns the default database path.
func DataPath() string {
	return filepath.Join(DataDir(), "carlog.db")
}

// Load reads the snapshot. A corrupt snapshot is logged and replaced by empty
// defaults. Other read errors are returned.
func Load(ctx context.Context, src Snapshotter, logger *zap.Logger) (*LoadResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	data, err := src.Load(ctx)
	result := &LoadResult{Data: data}
	switch {
	case errors.Is(err, model.ErrCorruptState):
		logger.Warn("stored data is unreadable, starting from empty state", zap.Error(err))
		result.Recovered = true
	case err != nil:
		return nil, err
	}

	if ts, err := src.UpdatedAt(ctx); err == nil {
		result.UpdatedAt = ts
	} else {
		logger.Debug("reading snapshot timestamp", zap.Error(err))
	}

	logger.Debug("loaded snapshot",
		zap.Int("fuel", len(data.FuelEntries)),
		zap.Int("maintenance", len(data.MaintenanceEntries)),
		zap.Int("reminders", len(data.Reminders)),
	)
	return result, nil
}
