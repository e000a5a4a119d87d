// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/tune-survey/auth"
	"github.com/danielhkuo/tune-survey/catalog"
	"github.com/danielhkuo/tune-survey/cliparse"
	"github.com/danielhkuo/tune-survey/middleware"
	"github.com/danielhkuo/tune-survey/models"
)

type SessionHandler struct {
	db   *sqlx.DB
	cfg  cliparse.Config
	gate *auth.AllowList
}

func NewSessionHandler(db *sqlx.DB, cfg cliparse.Config) *SessionHandler {
	return &SessionHandler{db: db, cfg: cfg, gate: auth.NewAllowList(cfg.AllowList)}
}

// Login handles POST /login
// Creates the progress record on first login; later logins are no-ops
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := decodeLogin(w, r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID, err := auth.NormalizeUserID(req.UserID)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "user_id is required")
		return
	}

	if err := h.gate.Check(userID); err != nil {
		slog.Warn("login rejected", "user_id", userID)
		middleware.ErrorResponse(w, http.StatusForbidden, "User is not permitted to take this survey")
		return
	}

	created, err := createProgress(r.Context(), h.db, userID, time.Now().UTC())
	if err != nil {
		slog.Error("failed to create progress", "error", err, "user_id", userID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("login", "user_id", userID, "new_user", created)

	middleware.JSONResponse(w, http.StatusOK, models.StatusResponse{Status: models.StatusOK})
}

// Progress handles GET /progress?user_id=
func (h *SessionHandler) Progress(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.NormalizeUserID(r.URL.Query().Get("user_id"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "user_id is required")
		return
	}

	if err := h.gate.Check(userID); err != nil {
		middleware.ErrorResponse(w, http.StatusForbidden, "User is not permitted to take this survey")
		return
	}

	ctx := r.Context()
	err = ensureProgress(ctx, h.db, userID, h.cfg.ProgressMode)
	if errors.Is(err, ErrUserNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		slog.Error("failed to load progress", "error", err, "user_id", userID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	played, err := playedSongs(ctx, h.db, userID)
	if err != nil {
		slog.Error("failed to query played songs", "error", err, "user_id", userID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if played == nil {
		played = []string{}
	}

	songs, err := catalog.ListSongs(h.cfg.AudioDir, h.cfg.AudioExt)
	if err != nil {
		slog.Error("failed to list songs", "error", err, "dir", h.cfg.AudioDir)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to list songs")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ProgressResponse{
		UserID:         userID,
		Completed:      played,
		CompletedCount: len(played),
		TotalSongs:     len(songs),
	})
}
