// Package storage persists injection history and aggregates for the
// dashboard. Rows record counts and outcomes only, never the typed text.
package storage

import (
	"database/sql"
	"fmt"
	"path/filepath"

	_ "modernc.org/sqlite"
)

type DB struct {
	conn *sql.DB
}

// Open opens the database and initializes the schema.
func Open(configDir string) (*DB, error) {
	return OpenPath(filepath.Join(configDir, "overtype.db"))
}

// OpenPath opens the database at an explicit path.
func OpenPath(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL keeps the agent's writes from blocking dashboard reads.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS injections (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		session_id TEXT NOT NULL,

		-- Size of what was typed
		character_count INTEGER NOT NULL,
		code_unit_count INTEGER NOT NULL,

		-- Delivery accounting
		events_expected INTEGER NOT NULL,
		events_accepted INTEGER NOT NULL,
		attempts INTEGER NOT NULL,
		success BOOLEAN NOT NULL,

		-- Session outcome
		focus_restored BOOLEAN NOT NULL,
		capture_duration_ms INTEGER NOT NULL,
		injection_latency_ms INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_injections_timestamp ON injections(timestamp);
	CREATE INDEX IF NOT EXISTS idx_injections_success ON injections(success);
	`

	_, err := db.conn.Exec(schema)
	return err
}
