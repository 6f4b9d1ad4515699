package storage

import (
	"fmt"
	"time"
)

// Injection is one completed capture-and-type session.
type Injection struct {
	ID                 int64
	Timestamp          time.Time
	SessionID          string
	CharacterCount     int
	CodeUnitCount      int
	EventsExpected     int
	EventsAccepted     int
	Attempts           int
	Success            bool
	FocusRestored      bool
	CaptureDurationMs  int64
	InjectionLatencyMs int64
}

// SaveInjection records a completed session.
func (db *DB) SaveInjection(inj *Injection) error {
	query := `
		INSERT INTO injections (
			session_id, character_count, code_unit_count,
			events_expected, events_accepted, attempts, success,
			focus_restored, capture_duration_ms, injection_latency_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := db.conn.Exec(query,
		inj.SessionID, inj.CharacterCount, inj.CodeUnitCount,
		inj.EventsExpected, inj.EventsAccepted, inj.Attempts, inj.Success,
		inj.FocusRestored, inj.CaptureDurationMs, inj.InjectionLatencyMs,
	)
	if err != nil {
		return fmt.Errorf("failed to save injection: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}
	inj.ID = id
	return nil
}

// GetInjections retrieves history with pagination, newest first.
func (db *DB) GetInjections(limit, offset int) ([]Injection, error) {
	query := `
		SELECT
			id, timestamp, session_id, character_count, code_unit_count,
			events_expected, events_accepted, attempts, success,
			focus_restored, capture_duration_ms, injection_latency_ms
		FROM injections
		ORDER BY timestamp DESC, id DESC
		LIMIT ? OFFSET ?
	`

	rows, err := db.conn.Query(query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query injections: %w", err)
	}
	defer rows.Close()

	var injections []Injection
	for rows.Next() {
		var inj Injection
		err := rows.Scan(
			&inj.ID, &inj.Timestamp, &inj.SessionID, &inj.CharacterCount, &inj.CodeUnitCount,
			&inj.EventsExpected, &inj.EventsAccepted, &inj.Attempts, &inj.Success,
			&inj.FocusRestored, &inj.CaptureDurationMs, &inj.InjectionLatencyMs,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan injection: %w", err)
		}
		injections = append(injections, inj)
	}
	return injections, rows.Err()
}

// DeleteInjection deletes a history row by ID.
func (db *DB) DeleteInjection(id int64) error {
	result, err := db.conn.Exec(`DELETE FROM injections WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete injection: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("injection not found")
	}
	return nil
}

// GetInjectionCount returns the total number of history rows.
func (db *DB) GetInjectionCount() (int, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM injections").Scan(&count)
	return count, err
}
