// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the survey API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, descs)

# Endpoints

Health:

	GET /health

Session:

	POST /login                 - Create progress for user_id (form or JSON)
	GET  /progress?user_id=...  - Songs the user has rated

Survey:

	GET  /next-song?user_id=... - Next unrated song, or {"complete": true}
	POST /submit                - Record a rating and mark the song played
	GET  /features              - Feature tag vocabulary

Assets:

	GET /audio/{file}           - Audio clip from the audio directory

# Handler Initialization

	sessionHandler := handlers.NewSessionHandler(db, cfg)
	surveyHandler := handlers.NewSurveyHandler(db, cfg, descs, handlers.NewReservations(cfg.ReservationTTL))

API routes are wrapped with request logging and the per-client rate
limiter (a no-op unless RATE_LIMIT is set). CORS is applied around the
whole mux in main.
*/
package router
