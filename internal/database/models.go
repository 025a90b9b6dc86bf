package database

import (
	"time"
)

// SnapshotKey identifies a cached snapshot: the same date computed for a
// different location or mode is a different row.
type SnapshotKey struct {
	Date      string  // ISO 8601 format: YYYY-MM-DD
	Latitude  float64 // degrees north
	Longitude float64 // degrees east
	Mode      string  // basic, extended
}

// SnapshotRow is a cached astronomy snapshot.
// Instants are stored as RFC 3339 strings and parsed by the caller.
type SnapshotRow struct {
	SnapshotKey
	TimeZone   string  // IANA zone id, e.g. America/New_York
	Sunrise    string  // RFC 3339
	Sunset     string  // RFC 3339
	SolarNoon  *string // nullable; extended mode only
	ComputedAt time.Time
}

// ReadingRow is a cached weekly reading index for a Sabbath date.
type ReadingRow struct {
	Date       string // YYYY-MM-DD
	InIsrael   bool   // Israel and the diaspora diverge some weeks
	Parsha     int    // index into the reading name table
	ComputedAt time.Time
}

// CacheStats summarizes what the cache holds.
type CacheStats struct {
	Snapshots    int    `json:"snapshots"`
	Readings     int    `json:"readings"`
	EarliestDate string `json:"earliest_date"`
	LatestDate   string `json:"latest_date"`
}
