// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Connecting

Open picks the driver from the configured type:

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

  - sqlite: modernc.org/sqlite, pure Go; DATABASE_URL is a file path.
    Foreign keys, WAL and a busy timeout are enabled unless the DSN
    already has a query string. The pool is capped at one connection.
  - postgres: github.com/lib/pq; DATABASE_URL is a postgres:// URL.

Both return a *sqlx.DB. Queries are written with ? placeholders and
passed through Rebind, so the same text runs on either driver.

# Schema Creation

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - progress: one row per user that has logged in
  - progress_song: songs a user has rated, primary key (user_id, song_id)
  - response: append-only rating records

# Relationships

	progress 1──* progress_song

Responses are deliberately not tied to progress: in login-required mode
a response from a user without progress is still recorded.
*/
package db
