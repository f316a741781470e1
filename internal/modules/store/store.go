// Package store gives mods durable key/value state, namespaced by mod
// slug and backed by SQLite.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store is the mod data store. Safe for concurrent use; database/sql
// serializes access to the single SQLite connection.
type Store struct {
	db *sql.DB
}

// Migration is one schema step. Versions run in order, once.
type Migration struct {
	Version     int
	Description string
	Up          func(db *sql.DB) error
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "mod key/value table",
		Up: func(db *sql.DB) error {
			_, err := db.Exec(`
				CREATE TABLE IF NOT EXISTS mod_data (
					namespace TEXT NOT NULL,
					key       TEXT NOT NULL,
					value     TEXT NOT NULL,
					updated_at INTEGER NOT NULL DEFAULT (unixepoch()),
					PRIMARY KEY (namespace, key)
				)`)
			return err
		},
	},
}

// Open opens (and creates) the store at path. ":memory:" works for
// tests.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate store: %w", err)
	}
	return &Store{db: db}, nil
}

func migrate(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER PRIMARY KEY)`); err != nil {
		return err
	}
	var current int
	if err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return err
	}
	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		if err := m.Up(db); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}
		if _, err := db.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, m.Version); err != nil {
			return err
		}
	}
	return nil
}

// Get reads a value, comma-ok style.
func (s *Store) Get(namespace, key string) (string, bool, error) {
	var v string
	err := s.db.QueryRow(
		`SELECT value FROM mod_data WHERE namespace = ? AND key = ?`, namespace, key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// Put writes a value, replacing any previous one.
func (s *Store) Put(namespace, key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO mod_data (namespace, key, value, updated_at)
		VALUES (?, ?, ?, unixepoch())
		ON CONFLICT (namespace, key) DO UPDATE SET value = excluded.value, updated_at = unixepoch()`,
		namespace, key, value)
	return err
}

// Delete removes a key. Deleting a missing key is not an error.
func (s *Store) Delete(namespace, key string) error {
	_, err := s.db.Exec(`DELETE FROM mod_data WHERE namespace = ? AND key = ?`, namespace, key)
	return err
}

// Keys lists the keys in a namespace, sorted.
func (s *Store) Keys(namespace string) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT key FROM mod_data WHERE namespace = ? ORDER BY key`, namespace)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
