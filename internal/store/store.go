// Package store persists user preferences in a key-value settings table on
// SQLite or PostgreSQL.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by Get for a key that was never set.
var ErrNotFound = errors.New("setting not found")

// Store provides access to the settings table.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

const upsertSQL = `INSERT INTO settings (name, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT (name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

// New opens the database and creates the settings table.
func New(dsn string) (*Store, error) {
	db, dialect, err := OpenDB(dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(schemaFor(dialect)); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db, dialect: dialect}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Dialect reports the backend in use.
func (s *Store) Dialect() Dialect {
	return s.dialect
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(Rebind(s.dialect, `SELECT value FROM settings WHERE name = ?`), key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return "", fmt.Errorf("query setting %s: %w", key, err)
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(key, value string) error {
	if _, err := s.db.Exec(Rebind(s.dialect, upsertSQL), key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("save setting %s: %w", key, err)
	}
	return nil
}

// SetMany stores several keys in one transaction.
func (s *Store) SetMany(values map[string]string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	query := Rebind(s.dialect, upsertSQL)
	for key, value := range values {
		if _, err := tx.Exec(query, key, value, now); err != nil {
			return fmt.Errorf("save setting %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit settings: %w", err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec(Rebind(s.dialect, `DELETE FROM settings WHERE name = ?`), key); err != nil {
		return fmt.Errorf("delete setting %s: %w", key, err)
	}
	return nil
}

// Keys lists every stored key in name order.
func (s *Store) Keys() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM settings ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query settings: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
