// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

// sqlitePragmas are appended to SQLite DSNs that carry no query string.
const sqlitePragmas = "_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)&_pragma=journal_mode(wal)"

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know about
	sqlx.BindDriver(TypeSQLite, sqlx.QUESTION)
}

// Open connects to the configured database and verifies the connection.
// Queries are written with ? placeholders and rebound per driver.
func Open(dbType, url string) (*sqlx.DB, error) {
	var (
		conn *sqlx.DB
		err  error
	)

	switch dbType {
	case TypeSQLite:
		conn, err = sqlx.Open(TypeSQLite, sqliteDSN(url))
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		// SQLite serialises writers anyway; one connection avoids SQLITE_BUSY
		conn.SetMaxOpenConns(1)
	case TypePostgres:
		conn, err = sqlx.Open(TypePostgres, url)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres database: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return conn, nil
}

func sqliteDSN(url string) string {
	url = strings.TrimPrefix(url, "sqlite://")
	if strings.Contains(url, "?") {
		return url
	}
	return url + "?" + sqlitePragmas
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sqlx.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Progress: one row per user, created at login
CREATE TABLE IF NOT EXISTS progress (
    user_id TEXT PRIMARY KEY,
    created_at TIMESTAMP NOT NULL
);

-- Played set: songs a user has rated, at most once each
CREATE TABLE IF NOT EXISTS progress_song (
    user_id TEXT NOT NULL REFERENCES progress(user_id) ON DELETE CASCADE,
    song_id TEXT NOT NULL,
    rated_at TIMESTAMP NOT NULL,
    PRIMARY KEY (user_id, song_id)
);

-- Responses: append-only rating log
CREATE TABLE IF NOT EXISTS response (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    song_id TEXT NOT NULL,
    feature1 TEXT NOT NULL,
    feature2 TEXT,
    feature3 TEXT,
    description TEXT NOT NULL,
    rating INTEGER CHECK (rating IS NULL OR (rating >= 1 AND rating <= 5)),
    alt_rating INTEGER CHECK (alt_rating IS NULL OR (alt_rating >= 1 AND alt_rating <= 5)),
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_response_song_id ON response(song_id);
CREATE INDEX IF NOT EXISTS idx_response_user_id ON response(user_id);
`
