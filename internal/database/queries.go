package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// Helper Functions
// =============================================================================

// parseTimestamp parses a timestamp from SQLite TEXT format.
// Tries multiple formats and returns nil if parsing fails.
func parseTimestamp(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}

	// Try RFC3339 format first (with timezone)
	t, err := time.Parse(time.RFC3339, ns.String)
	if err == nil {
		return &t
	}

	// Try SQLite datetime format (no timezone)
	t, err = time.Parse("2006-01-02 15:04:05", ns.String)
	if err == nil {
		return &t
	}

	return nil
}

// boolToInt converts a bool to the 0/1 SQLite stores.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// =============================================================================
// Snapshot Queries
// =============================================================================

// GetSnapshot retrieves a cached snapshot.
// Returns ErrNotFound if nothing is cached for the key.
func (db *DB) GetSnapshot(ctx context.Context, key SnapshotKey) (*SnapshotRow, error) {
	query := `
		SELECT time_zone, sunrise, sunset, solar_noon, computed_at
		FROM zmanim_snapshots
		WHERE date = ? AND latitude = ? AND longitude = ? AND mode = ?
	`

	row := SnapshotRow{SnapshotKey: key}
	var solarNoon, computedAt sql.NullString

	err := db.QueryRowContext(ctx, query, key.Date, key.Latitude, key.Longitude, key.Mode).Scan(
		&row.TimeZone,
		&row.Sunrise,
		&row.Sunset,
		&solarNoon,
		&computedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query snapshot: %w", err)
	}

	if solarNoon.Valid {
		row.SolarNoon = &solarNoon.String
	}
	if t := parseTimestamp(computedAt); t != nil {
		row.ComputedAt = *t
	}

	return &row, nil
}

// UpsertSnapshot inserts or replaces a cached snapshot.
//
// Idempotent: a second call with the same key overwrites the first.
func (db *DB) UpsertSnapshot(ctx context.Context, row *SnapshotRow) error {
	query := `
		INSERT INTO zmanim_snapshots (
			date, latitude, longitude, mode,
			time_zone, sunrise, sunset, solar_noon, computed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, datetime('now'))
		ON CONFLICT(date, latitude, longitude, mode) DO UPDATE SET
			time_zone = excluded.time_zone,
			sunrise = excluded.sunrise,
			sunset = excluded.sunset,
			solar_noon = excluded.solar_noon,
			computed_at = datetime('now')
	`

	_, err := db.ExecContext(ctx, query,
		row.Date,
		row.Latitude,
		row.Longitude,
		row.Mode,
		row.TimeZone,
		row.Sunrise,
		row.Sunset,
		row.SolarNoon,
	)
	if err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}

	return nil
}

// =============================================================================
// Reading Queries
// =============================================================================

// GetReading retrieves the cached reading index for a date.
// Returns ErrNotFound if nothing is cached.
func (db *DB) GetReading(ctx context.Context, date string, inIsrael bool) (*ReadingRow, error) {
	query := `
		SELECT parsha, computed_at
		FROM weekly_readings
		WHERE date = ? AND in_israel = ?
	`

	row := ReadingRow{Date: date, InIsrael: inIsrael}
	var computedAt sql.NullString

	err := db.QueryRowContext(ctx, query, date, boolToInt(inIsrael)).Scan(&row.Parsha, &computedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query reading: %w", err)
	}

	if t := parseTimestamp(computedAt); t != nil {
		row.ComputedAt = *t
	}

	return &row, nil
}

// UpsertReading inserts or replaces a cached reading index.
func (db *DB) UpsertReading(ctx context.Context, row *ReadingRow) error {
	query := `
		INSERT INTO weekly_readings (date, in_israel, parsha, computed_at)
		VALUES (?, ?, ?, datetime('now'))
		ON CONFLICT(date, in_israel) DO UPDATE SET
			parsha = excluded.parsha,
			computed_at = datetime('now')
	`

	if _, err := db.ExecContext(ctx, query, row.Date, boolToInt(row.InIsrael), row.Parsha); err != nil {
		return fmt.Errorf("upsert reading: %w", err)
	}

	return nil
}

// =============================================================================
// Maintenance
// =============================================================================

// GetCacheStats returns row counts and the date span of cached snapshots.
func (db *DB) GetCacheStats(ctx context.Context) (*CacheStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM zmanim_snapshots),
			(SELECT COUNT(*) FROM weekly_readings),
			COALESCE((SELECT MIN(date) FROM zmanim_snapshots), ''),
			COALESCE((SELECT MAX(date) FROM zmanim_snapshots), '')
	`

	var stats CacheStats
	err := db.QueryRowContext(ctx, query).Scan(
		&stats.Snapshots,
		&stats.Readings,
		&stats.EarliestDate,
		&stats.LatestDate,
	)
	if err != nil {
		return nil, fmt.Errorf("query cache stats: %w", err)
	}

	return &stats, nil
}

// PurgeSnapshots deletes every cached snapshot for dates before the given
// YYYY-MM-DD date and returns the number of rows removed.
func (db *DB) PurgeSnapshots(ctx context.Context, before string) (int64, error) {
	var removed int64

	err := db.WithTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM zmanim_snapshots WHERE date < ?`, before)
		if err != nil {
			return fmt.Errorf("delete snapshots: %w", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("check rows affected: %w", err)
		}
		removed = n

		if _, err := tx.ExecContext(ctx, `DELETE FROM weekly_readings WHERE date < ?`, before); err != nil {
			return fmt.Errorf("delete readings: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return removed, nil
}
