// Package store persists the vehicle snapshot in a local SQLite file.
// The whole snapshot lives in one row and every save replaces it.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/carlog/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Store is a single-key snapshot store.
type Store struct {
	db  *sql.DB
	key string
	now func() time.Time
}

// Open opens or creates the database at dbPath.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening data db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, key: model.StorageKey, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// LoadRaw returns the stored snapshot bytes, or nil if nothing was saved yet.
func (s *Store) LoadRaw(ctx context.Context) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM app_state WHERE key = ?", s.key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	return []byte(value), nil
}

// Load decodes the stored snapshot. With nothing stored it returns empty
// data with default settings. A corrupt snapshot yields the same defaults
// and an error wrapping model.ErrCorruptState.
func (s *Store) Load(ctx context.Context) (model.Data, error) {
	raw, err := s.LoadRaw(ctx)
	if err != nil {
		return model.NewData(), err
	}
	if raw == nil {
		return model.NewData(), nil
	}
	return model.DecodeData(raw)
}

// Save overwrites the snapshot.
func (s *Store) Save(ctx context.Context, d model.Data) error {
	raw, err := model.EncodeData(d)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return s.SaveRaw(ctx, raw)
}

// SaveRaw overwrites the snapshot with already-encoded bytes.
func (s *Store) SaveRaw(ctx context.Context, raw []byte) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		"INSERT OR REPLACE INTO app_state (key, value, updated_at) VALUES (?, ?, ?)",
		s.key, string(raw), s.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return tx.Commit()
}

// UpdatedAt returns when the snapshot was last saved, or the zero time.
func (s *Store) UpdatedAt(ctx context.Context) (time.Time, error) {
	var updated sql.NullString
	err := s.db.QueryRowContext(ctx, "SELECT updated_at FROM app_state WHERE key = ?", s.key).Scan(&updated)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	if !updated.Valid {
		return time.Time{}, nil
	}
	t, _ := time.Parse(time.RFC3339Nano, updated.String)
	return t, nil
}
