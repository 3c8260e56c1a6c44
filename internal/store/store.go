// Package store is the local SQLite logbook: entries, their items, and the
// tag/person/issue-ref metadata hanging off each item. Everything remote is
// ephemeral; this is the only durable state the app owns.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store wraps the SQLite handle.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the logbook database at path and applies the
// schema. Use ":memory:" for tests.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening logbook database: %w", err)
	}
	// Single-user local app; one connection also keeps ":memory:" databases
	// from splitting across pool connections.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{db: db}
	if err := s.init(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) init(ctx context.Context) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS entries (
			id TEXT PRIMARY KEY,
			timestamp TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS entry_items (
			id TEXT PRIMARY KEY,
			entry_id TEXT NOT NULL,
			item_type TEXT NOT NULL,
			content TEXT NOT NULL,
			project TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			FOREIGN KEY (entry_id) REFERENCES entries (id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS tags (
			id TEXT PRIMARY KEY,
			name TEXT UNIQUE NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS people (
			id TEXT PRIMARY KEY,
			name TEXT UNIQUE NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS issue_refs (
			id TEXT PRIMARY KEY,
			entry_item_id TEXT NOT NULL,
			issue_key TEXT NOT NULL,
			created_at TEXT NOT NULL,
			FOREIGN KEY (entry_item_id) REFERENCES entry_items (id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS item_tags (
			entry_item_id TEXT NOT NULL,
			tag_id TEXT NOT NULL,
			PRIMARY KEY (entry_item_id, tag_id),
			FOREIGN KEY (entry_item_id) REFERENCES entry_items (id) ON DELETE CASCADE,
			FOREIGN KEY (tag_id) REFERENCES tags (id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS item_people (
			entry_item_id TEXT NOT NULL,
			person_id TEXT NOT NULL,
			PRIMARY KEY (entry_item_id, person_id),
			FOREIGN KEY (entry_item_id) REFERENCES entry_items (id) ON DELETE CASCADE,
			FOREIGN KEY (person_id) REFERENCES people (id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS projects (
			id TEXT PRIMARY KEY,
			name TEXT UNIQUE NOT NULL,
			description TEXT,
			color TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS meetings (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT,
			start_time TEXT,
			end_time TEXT,
			location TEXT,
			meeting_type TEXT NOT NULL,
			status TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS meeting_attendees (
			id TEXT PRIMARY KEY,
			meeting_id TEXT NOT NULL,
			name TEXT NOT NULL,
			email TEXT,
			role TEXT NOT NULL,
			status TEXT NOT NULL,
			created_at TEXT NOT NULL,
			FOREIGN KEY (meeting_id) REFERENCES meetings (id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS meeting_actions (
			id TEXT PRIMARY KEY,
			meeting_id TEXT NOT NULL,
			entry_item_id TEXT,
			title TEXT NOT NULL,
			description TEXT,
			assignee TEXT,
			due_date TEXT,
			status TEXT NOT NULL,
			priority TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			FOREIGN KEY (meeting_id) REFERENCES meetings (id) ON DELETE CASCADE
		)`,
	}

	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	return nil
}
