// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// ProgressMode controls when a progress record is created for a user.
type ProgressMode string

const (
	// ProgressLoginRequired only creates progress on POST /login.
	ProgressLoginRequired ProgressMode = "login-required"
	// ProgressAutoCreate creates progress on the first request that touches a user.
	ProgressAutoCreate ProgressMode = "auto-create"
)

// Valid reports whether m is a known mode.
func (m ProgressMode) Valid() bool {
	return m == ProgressLoginRequired || m == ProgressAutoCreate
}

// Response status constants
const (
	StatusOK        = "ok"
	StatusSubmitted = "submitted"
)

// Rating bounds for rating and alt_rating
const (
	MinRating = 1
	MaxRating = 5
)

// DefaultFeatures is the tag vocabulary offered by the survey front end.
var DefaultFeatures = []string{
	"Soothing", "Stimulating", "Grounding", "Playful", "Focusing", "Transitional", "Interactive",
	"Motivating", "Anxiety-Reducing", "Task-Oriented", "Self Expressive", "Sensory-Calming",
	"Attention-Shifting", "Rhythmic Synchronizing", "Confidence-Building",
}

// Request types

type LoginRequest struct {
	UserID string `json:"user_id"`
}

// SubmitRequest is the canonical rating payload. Feature2, Feature3 and both
// ratings are optional.
type SubmitRequest struct {
	UserID      string `json:"user_id"`
	SongID      string `json:"song_id"`
	Feature1    string `json:"feature1"`
	Feature2    string `json:"feature2"`
	Feature3    string `json:"feature3"`
	Description string `json:"description"`
	Rating      *int   `json:"rating,omitempty"`
	AltRating   *int   `json:"alt_rating,omitempty"`
}

// Features returns the non-empty feature tags in order.
func (r SubmitRequest) Features() []string {
	out := make([]string, 0, 3)
	for _, f := range []string{r.Feature1, r.Feature2, r.Feature3} {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Response types

type StatusResponse struct {
	Status string `json:"status"`
}

// NextSongResponse is either a song pick or {complete: true}.
type NextSongResponse struct {
	SongID         string  `json:"song_id,omitempty"`
	SongFile       string  `json:"song_file,omitempty"`
	Description    *string `json:"description,omitempty"`
	AltDescription *string `json:"alt_description,omitempty"`
	Complete       bool    `json:"complete"`
}

type ProgressResponse struct {
	UserID         string   `json:"user_id"`
	Completed      []string `json:"completed"`
	CompletedCount int      `json:"completed_count"`
	TotalSongs     int      `json:"total_songs"`
}

type FeaturesResponse struct {
	Features []string `json:"features"`
}

// Domain types

// Response is one append-only rating event.
type Response struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	SongID      string    `json:"song_id" db:"song_id"`
	Feature1    string    `json:"feature1" db:"feature1"`
	Feature2    *string   `json:"feature2,omitempty" db:"feature2"`
	Feature3    *string   `json:"feature3,omitempty" db:"feature3"`
	Description string    `json:"description" db:"description"`
	Rating      *int64    `json:"rating,omitempty" db:"rating"`
	AltRating   *int64    `json:"alt_rating,omitempty" db:"alt_rating"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// SongCount is the number of distinct users who responded to a song.
type SongCount struct {
	SongID string `db:"song_id"`
	Users  int    `db:"users"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
