package storage

import "fmt"

// DailyStats aggregates one day of injection history.
type DailyStats struct {
	Date            string
	TotalInjections int
	TotalCharacters int
	SuccessCount    int
	FailureCount    int
}

// OverallStats aggregates the whole window the dashboard asks for.
type OverallStats struct {
	TotalInjections      int
	TotalCharacters      int
	TotalEventsExpected  int
	TotalEventsAccepted  int
	SuccessCount         int
	FailureCount         int
	AvgAttempts          float64
	AvgInjectionMs       float64
	FocusRestoreFailures int
}

// GetDailyStats aggregates by date over the last N days.
func (db *DB) GetDailyStats(days int) ([]DailyStats, error) {
	query := `
		SELECT
			DATE(timestamp) as date,
			COUNT(*) as total_injections,
			COALESCE(SUM(character_count), 0) as total_characters,
			SUM(CASE WHEN success = 1 THEN 1 ELSE 0 END) as success_count,
			SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END) as failure_count
		FROM injections
		WHERE timestamp >= datetime('now', '-' || ? || ' days')
		GROUP BY DATE(timestamp)
		ORDER BY date DESC
	`

	rows, err := db.conn.Query(query, days)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily stats: %w", err)
	}
	defer rows.Close()

	var stats []DailyStats
	for rows.Next() {
		var s DailyStats
		err := rows.Scan(&s.Date, &s.TotalInjections, &s.TotalCharacters, &s.SuccessCount, &s.FailureCount)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily stats: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// GetOverallStats aggregates everything over the last N days.
func (db *DB) GetOverallStats(days int) (*OverallStats, error) {
	query := `
		SELECT
			COUNT(*) as total_injections,
			COALESCE(SUM(character_count), 0) as total_characters,
			COALESCE(SUM(events_expected), 0) as total_events_expected,
			COALESCE(SUM(events_accepted), 0) as total_events_accepted,
			COALESCE(SUM(CASE WHEN success = 1 THEN 1 ELSE 0 END), 0) as success_count,
			COALESCE(SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END), 0) as failure_count,
			COALESCE(AVG(attempts), 0) as avg_attempts,
			COALESCE(AVG(injection_latency_ms), 0) as avg_injection_ms,
			COALESCE(SUM(CASE WHEN focus_restored = 0 THEN 1 ELSE 0 END), 0) as focus_restore_failures
		FROM injections
		WHERE timestamp >= datetime('now', '-' || ? || ' days')
	`

	var stats OverallStats
	err := db.conn.QueryRow(query, days).Scan(
		&stats.TotalInjections,
		&stats.TotalCharacters,
		&stats.TotalEventsExpected,
		&stats.TotalEventsAccepted,
		&stats.SuccessCount,
		&stats.FailureCount,
		&stats.AvgAttempts,
		&stats.AvgInjectionMs,
		&stats.FocusRestoreFailures,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query overall stats: %w", err)
	}
	return &stats, nil
}
