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

type SurveyHandler struct {
	db    *sqlx.DB
	cfg   cliparse.Config
	gate  *auth.AllowList
	descs *catalog.Descriptions
	holds *Reservations
}

func NewSurveyHandler(db *sqlx.DB, cfg cliparse.Config, descs *catalog.Descriptions, holds *Reservations) *SurveyHandler {
	if descs == nil {
		descs = catalog.NewDescriptions()
	}
	if holds == nil {
		holds = NewReservations(cfg.ReservationTTL)
	}
	return &SurveyHandler{
		db:    db,
		cfg:   cfg,
		gate:  auth.NewAllowList(cfg.AllowList),
		descs: descs,
		holds: holds,
	}
}

// NextSong handles GET /next-song?user_id=
func (h *SurveyHandler) NextSong(w http.ResponseWriter, r *http.Request) {
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
		middleware.ErrorResponse(w, http.StatusBadRequest, "User not found")
		return
	}
	if err != nil {
		slog.Error("failed to load progress", "error", err, "user_id", userID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	songs, err := catalog.ListSongs(h.cfg.AudioDir, h.cfg.AudioExt)
	if err != nil {
		slog.Error("failed to list songs", "error", err, "dir", h.cfg.AudioDir)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to list songs")
		return
	}

	played, err := playedSongs(ctx, h.db, userID)
	if err != nil {
		slog.Error("failed to query played songs", "error", err, "user_id", userID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	counts, err := responderCounts(ctx, h.db)
	if err != nil {
		slog.Error("failed to count responses", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	song, ok := h.holds.Assign(userID, songs, played, counts, h.cfg.ResponseCap)
	if !ok {
		slog.Info("survey complete", "user_id", userID, "played", len(played))
		middleware.JSONResponse(w, http.StatusOK, models.NextSongResponse{Complete: true})
		return
	}

	resp := models.NextSongResponse{
		SongID:   song,
		SongFile: song,
		Complete: false,
	}
	desc := h.descs.Lookup(0, song)
	resp.Description = &desc
	if h.descs.Sources() > 1 {
		alt := h.descs.Lookup(1, song)
		resp.AltDescription = &alt
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// Submit handles POST /submit
func (h *SurveyHandler) Submit(w http.ResponseWriter, r *http.Request) {
	req, err := decodeSubmit(w, r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	if msg := validateSubmit(&req, h.cfg.Features); msg != "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)
		return
	}

	features := req.Features()
	now := time.Now().UTC()
	resp := models.Response{
		ID:          auth.NewResponseID(),
		UserID:      req.UserID,
		SongID:      req.SongID,
		Feature1:    features[0],
		Description: req.Description,
		Rating:      optionalInt64(req.Rating),
		AltRating:   optionalInt64(req.AltRating),
		CreatedAt:   now,
	}
	if len(features) > 1 {
		resp.Feature2 = optionalString(features[1])
	}
	if len(features) > 2 {
		resp.Feature3 = optionalString(features[2])
	}

	ctx := r.Context()
	tx, err := h.db.BeginTxx(ctx, nil)
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	// The response is logged unconditionally
	if err := insertResponse(ctx, tx, resp); err != nil {
		slog.Error("failed to insert response", "error", err, "user_id", req.UserID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save response")
		return
	}

	hasProgress := true
	if h.cfg.ProgressMode == models.ProgressAutoCreate {
		_, err = createProgress(ctx, tx, req.UserID, now)
	} else {
		hasProgress, err = progressExists(ctx, tx, req.UserID)
	}
	if err != nil {
		slog.Error("failed to load progress", "error", err, "user_id", req.UserID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if hasProgress {
		if err := markPlayed(ctx, tx, req.UserID, req.SongID, now); err != nil {
			slog.Error("failed to update progress", "error", err, "user_id", req.UserID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save response")
			return
		}
	} else {
		slog.Warn("response from user without progress", "user_id", req.UserID, "song_id", req.SongID)
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save response")
		return
	}

	h.holds.Release(req.UserID, req.SongID)

	slog.Info("response submitted", "response_id", resp.ID, "user_id", req.UserID, "song_id", req.SongID)

	middleware.JSONResponse(w, http.StatusOK, models.StatusResponse{Status: models.StatusSubmitted})
}

// Features handles GET /features
func (h *SurveyHandler) Features(w http.ResponseWriter, r *http.Request) {
	features := h.cfg.Features
	if features == nil {
		features = []string{}
	}
	middleware.JSONResponse(w, http.StatusOK, models.FeaturesResponse{Features: features})
}
