// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming form or JSON bodies:

  - LoginRequest: user_id
  - SubmitRequest: user_id, song_id, feature1..feature3, description, rating, alt_rating

# Response Types

  - StatusResponse: status ("ok" or "submitted")
  - NextSongResponse: song_id, song_file, description, alt_description, complete
  - ProgressResponse: user_id, completed, completed_count, total_songs
  - FeaturesResponse: features
  - ErrorResponse: error, message

# Domain Types

  - Response: append-only rating record
  - SongCount: distinct responders per song

# Constants

Progress modes:

	ProgressLoginRequired = "login-required"
	ProgressAutoCreate    = "auto-create"

Ratings are integers between MinRating and MaxRating.
*/
package models
