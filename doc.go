// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the tune-survey API server.

tune-survey serves short audio clips to study participants and collects
feature tags, free-text descriptions and ratings for each clip. Every
participant rates a clip at most once, and a clip is retired once a
configurable number of distinct participants have responded.

# Starting the Server

Defaults run against a local SQLite file:

	go run main.go

Or with flags:

	go run main.go -p 3318 -t postgres -d "postgres://..." -audio-dir static/audio

# Configuration

Every setting has a default; see package cliparse for the full list.

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - DATABASE_URL (-d): Connection string or SQLite path (default: survey.db)
  - AUDIO_DIR (-audio-dir): Audio clip directory (default: static/audio)
  - DESCRIPTION_FILES (-descriptions): Up to two description CSV files
  - RESPONSE_CAP (-cap): Distinct responders per clip (default: 3)
  - PROGRESS_MODE (-progress-mode): login-required or auto-create
  - ALLOW_LIST (-allow): Permitted participant ids
  - SURVEY_CONFIG (-survey): TOML survey policy file

A .env file in the working directory is loaded when present.

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (session, survey) and song assignment
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, rate limiting, JSON helpers
  - models: Request/response types
  - auth: Allow list and participant id checks
  - catalog: Audio directory listing and description tables
  - db: Connection and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
