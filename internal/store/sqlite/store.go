// Package sqlite keeps a storage area in a local SQLite database. Changes are
// only visible to listeners inside the same process.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/glebarez/go-sqlite"

	"github.com/DougFavaretto/mockdata-browser-extension/internal/store"
	"github.com/DougFavaretto/mockdata-browser-extension/internal/utils"
)

// Store is a SQLite-backed storage area.
type Store struct {
	store.Broadcaster

	db   *sql.DB
	name string

	// Serializes read-old/write-new so each Change carries the value it replaced.
	writeMu sync.Mutex
}

// Open opens (or creates) the database at path and prepares the kv table.
func Open(path, area string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			utils.Close(db)
			return nil, fmt.Errorf("failed to set pragma %s: %w", pragma, err)
		}
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS kv (
			area TEXT NOT NULL,
			key TEXT NOT NULL,
			value BLOB NOT NULL,
			updated_at INTEGER NOT NULL,
			PRIMARY KEY (area, key)
		);
	`)
	if err != nil {
		utils.Close(db)
		return nil, fmt.Errorf("failed to create kv table: %w", err)
	}

	return &Store{db: db, name: area}, nil
}

// Name returns the area name.
func (s *Store) Name() string { return s.name }

// Get returns the stored value, or nil when absent.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM kv WHERE area = ? AND key = ?", s.name, key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, nil
}

// Set upserts value and notifies listeners once the transaction commits.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var old []byte
	err = tx.QueryRowContext(ctx,
		"SELECT value FROM kv WHERE area = ? AND key = ?", s.name, key,
	).Scan(&old)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to read previous %s: %w", key, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO kv (area, key, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(area, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.name, key, value, time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s: %w", key, err)
	}

	s.Publish(store.Change{
		Key:      key,
		OldValue: old,
		NewValue: value,
		Area:     s.name,
	})
	return nil
}

// Ping checks the database handle.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
