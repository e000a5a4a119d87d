// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/danielhkuo/tune-survey/auth"
	"github.com/danielhkuo/tune-survey/middleware"
	"github.com/danielhkuo/tune-survey/models"
)

const (
	maxBodyBytes      = 1 << 20
	maxSongIDLen      = 255
	maxDescriptionLen = 5000
)

var errInvalidBody = errors.New("invalid request body")

// parseForm reads url-encoded and multipart bodies alike
func parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseMultipartForm(maxBodyBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return errInvalidBody
	}
	return nil
}

func decodeLogin(w http.ResponseWriter, r *http.Request) (models.LoginRequest, error) {
	var req models.LoginRequest
	if middleware.IsJSON(r) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := middleware.ParseJSONBody(r, &req); err != nil {
			return req, errInvalidBody
		}
		return req, nil
	}

	if err := parseForm(w, r); err != nil {
		return req, err
	}
	req.UserID = r.PostFormValue("user_id")
	return req, nil
}

func decodeSubmit(w http.ResponseWriter, r *http.Request) (models.SubmitRequest, error) {
	var req models.SubmitRequest
	if middleware.IsJSON(r) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := middleware.ParseJSONBody(r, &req); err != nil {
			return req, errInvalidBody
		}
		return req, nil
	}

	if err := parseForm(w, r); err != nil {
		return req, err
	}
	req.UserID = r.PostFormValue("user_id")
	req.SongID = r.PostFormValue("song_id")
	req.Feature1 = r.PostFormValue("feature1")
	req.Feature2 = r.PostFormValue("feature2")
	req.Feature3 = r.PostFormValue("feature3")
	req.Description = r.PostFormValue("description")

	var err error
	if req.Rating, err = optionalInt(r.PostFormValue("rating")); err != nil {
		return req, fmt.Errorf("rating: %w", err)
	}
	if req.AltRating, err = optionalInt(r.PostFormValue("alt_rating")); err != nil {
		return req, fmt.Errorf("alt_rating: %w", err)
	}
	return req, nil
}

func optionalInt(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, errors.New("must be an integer")
	}
	return &n, nil
}

// validateSubmit normalises req in place and returns a client-facing
// message for the first problem found, or "".
func validateSubmit(req *models.SubmitRequest, vocabulary []string) string {
	userID, err := auth.NormalizeUserID(req.UserID)
	if err != nil {
		return "user_id is required"
	}
	req.UserID = userID

	req.SongID = strings.TrimSpace(req.SongID)
	if req.SongID == "" {
		return "song_id is required"
	}
	if len(req.SongID) > maxSongIDLen {
		return "song_id is too long"
	}

	req.Feature1 = strings.TrimSpace(req.Feature1)
	req.Feature2 = strings.TrimSpace(req.Feature2)
	req.Feature3 = strings.TrimSpace(req.Feature3)
	if req.Feature1 == "" {
		return "feature1 is required"
	}
	features := req.Features()
	for i, f := range features {
		if slices.Contains(features[:i], f) {
			return "features must be distinct"
		}
		if len(vocabulary) > 0 && !slices.Contains(vocabulary, f) {
			return "unknown feature: " + f
		}
	}

	req.Description = strings.TrimSpace(req.Description)
	if req.Description == "" {
		return "description is required"
	}
	if len(req.Description) > maxDescriptionLen {
		return fmt.Sprintf("description must be at most %d characters", maxDescriptionLen)
	}

	ratings := []struct {
		name  string
		value *int
	}{{"rating", req.Rating}, {"alt_rating", req.AltRating}}
	for _, rt := range ratings {
		if rt.value != nil && (*rt.value < models.MinRating || *rt.value > models.MaxRating) {
			return fmt.Sprintf("%s must be between %d and %d", rt.name, models.MinRating, models.MaxRating)
		}
	}

	return ""
}

// optionalString maps "" to NULL
func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optionalInt64(n *int) *int64 {
	if n == nil {
		return nil
	}
	v := int64(*n)
	return &v
}
