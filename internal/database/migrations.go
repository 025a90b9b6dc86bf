package database

// migrationsSQL contains all database migrations.
// Migrations are applied in order by version number.
var migrationsSQL = map[int]string{
	1: migrationV1ZmanimSnapshots,
	2: migrationV2WeeklyReadings,
}

// migrationV1ZmanimSnapshots creates the astronomy cache.
//
// Instants are TEXT in RFC 3339 with the local offset, exactly as the
// astronomy service produced them, so a cached row reads back identically
// regardless of the process time zone.
const migrationV1ZmanimSnapshots = `
-- Migration 001: zmanim snapshot cache

CREATE TABLE IF NOT EXISTS zmanim_snapshots (
    date TEXT NOT NULL,
    latitude REAL NOT NULL,
    longitude REAL NOT NULL,
    mode TEXT NOT NULL CHECK (mode IN ('basic', 'extended')),

    time_zone TEXT NOT NULL,
    sunrise TEXT NOT NULL,
    sunset TEXT NOT NULL,
    solar_noon TEXT,

    computed_at TEXT NOT NULL DEFAULT (datetime('now')),

    PRIMARY KEY (date, latitude, longitude, mode)
);

CREATE INDEX IF NOT EXISTS idx_zmanim_snapshots_date
    ON zmanim_snapshots(date);
`

// migrationV2WeeklyReadings creates the weekly reading cache.
// parsha is an index into the static reading name table.
const migrationV2WeeklyReadings = `
-- Migration 002: weekly reading cache

CREATE TABLE IF NOT EXISTS weekly_readings (
    date TEXT NOT NULL,
    in_israel INTEGER NOT NULL DEFAULT 0 CHECK (in_israel IN (0, 1)),
    parsha INTEGER NOT NULL CHECK (parsha >= 0),
    computed_at TEXT NOT NULL DEFAULT (datetime('now')),

    PRIMARY KEY (date, in_israel)
);
`
