// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the survey API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - SessionHandler: Login and progress lookup
  - SurveyHandler: Song assignment, response submission, feature vocabulary

Handlers are created via constructor functions that accept *sqlx.DB and Config:

	sessionHandler := handlers.NewSessionHandler(db, cfg)
	surveyHandler := handlers.NewSurveyHandler(db, cfg, descs, holds)

# Survey Flow

	POST /login      → Login (creates progress, idempotent)
	GET  /next-song  → NextSong (random eligible song or {"complete": true})
	POST /submit     → Submit (stores response, marks song played)
	GET  /progress   → Progress
	GET  /features   → Features

Bodies may be JSON or form encoded (urlencoded or multipart).

# Assignment

A song is eligible for a user when the user has not rated it and fewer
than ResponseCap distinct users have responded to it (0 disables the cap):

	eligible := AvailableSongs(all, played, counts, held, cfg.ResponseCap)

Reservations hands out songs and holds each pick for ReservationTTL, so a
song being listened to counts toward its cap until the hold is released
by Submit or expires. All picks go through one mutex.

# Storage

Query helpers in store.go take sqlx.ExtContext so they run against either
the *sqlx.DB or a transaction. Submit writes the response row and the
progress row in a single transaction; marking a song played is idempotent.

# Allow List

When cfg.AllowList is non-empty, Login, NextSong and Progress reject
other user ids with 403.
*/
package handlers
