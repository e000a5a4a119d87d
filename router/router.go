// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"io/fs"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/tune-survey/catalog"
	"github.com/danielhkuo/tune-survey/cliparse"
	"github.com/danielhkuo/tune-survey/handlers"
	"github.com/danielhkuo/tune-survey/middleware"
	"github.com/danielhkuo/tune-survey/models"
)

func NewRouter(db *sqlx.DB, cfg cliparse.Config, descs *catalog.Descriptions) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(db, cfg)
	surveyHandler := handlers.NewSurveyHandler(db, cfg, descs, handlers.NewReservations(cfg.ReservationTTL))
	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst, cfg.TrustedProxies)

	api := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(limiter.Wrap(h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		middleware.JSONResponse(w, http.StatusOK, models.StatusResponse{Status: models.StatusOK})
	})

	// Session
	mux.HandleFunc("POST /login", api(sessionHandler.Login))
	mux.HandleFunc("GET /progress", api(sessionHandler.Progress))

	// Survey
	mux.HandleFunc("GET /next-song", api(surveyHandler.NextSong))
	mux.HandleFunc("POST /submit", api(surveyHandler.Submit))
	mux.HandleFunc("GET /features", api(surveyHandler.Features))

	// Audio clips
	mux.Handle("GET /audio/", http.StripPrefix("/audio/", http.FileServer(clipsOnly{http.Dir(cfg.AudioDir)})))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("tune-survey API v1"))
	})

	return mux
}

// clipsOnly serves files but reports directories as missing, so the audio
// directory is never listed
type clipsOnly struct {
	root http.FileSystem
}

func (c clipsOnly) Open(name string) (http.File, error) {
	f, err := c.root.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, fs.ErrNotExist
	}
	return f, nil
}
