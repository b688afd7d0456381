package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLite is a [Slot] backed by one row of a SQLite key-value table. It
// suits desktop clients that already carry a local database.
type SQLite struct {
	db  *sql.DB
	key string
}

// OpenSQLite creates or opens the database at path and prepares the
// session table. key names the row holding the snapshot.
func OpenSQLite(path, key string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("storage: opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	const migration = `CREATE TABLE IF NOT EXISTS session (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL
	)`
	if _, err := db.Exec(migration); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migrating database: %w", err)
	}
	return &SQLite{db: db, key: key}, nil
}

// Load reads the snapshot row. A missing row is [ErrSlotEmpty].
func (s *SQLite) Load(ctx context.Context) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM session WHERE key = ?`, s.key).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSlotEmpty
		}
		return nil, fmt.Errorf("storage: reading session row: %w", err)
	}
	return data, nil
}

// Save upserts the snapshot row.
func (s *SQLite) Save(ctx context.Context, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO session (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		s.key, data)
	if err != nil {
		return fmt.Errorf("storage: writing session row: %w", err)
	}
	return nil
}

// Clear deletes the snapshot row.
func (s *SQLite) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session WHERE key = ?`, s.key); err != nil {
		return fmt.Errorf("storage: deleting session row: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
