// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/tune-survey/models"
)

var ErrUserNotFound = errors.New("user not found")

// The helpers below take sqlx.ExtContext so they run against either the
// pool or an open transaction.

// createProgress inserts a progress row if none exists and reports whether it did
func createProgress(ctx context.Context, q sqlx.ExtContext, userID string, now time.Time) (bool, error) {
	res, err := q.ExecContext(ctx, q.Rebind(`
		INSERT INTO progress (user_id, created_at) VALUES (?, ?)
		ON CONFLICT (user_id) DO NOTHING
	`), userID, now)
	if err != nil {
		return false, fmt.Errorf("failed to create progress: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

func progressExists(ctx context.Context, q sqlx.ExtContext, userID string) (bool, error) {
	var exists bool
	err := sqlx.GetContext(ctx, q, &exists, q.Rebind(`
		SELECT EXISTS(SELECT 1 FROM progress WHERE user_id = ?)
	`), userID)
	if err != nil {
		return false, fmt.Errorf("failed to check progress: %w", err)
	}
	return exists, nil
}

// ensureProgress makes sure userID has a progress record, creating it in
// auto-create mode and returning ErrUserNotFound otherwise.
func ensureProgress(ctx context.Context, q sqlx.ExtContext, userID string, mode models.ProgressMode) error {
	if mode == models.ProgressAutoCreate {
		_, err := createProgress(ctx, q, userID, time.Now())
		return err
	}

	exists, err := progressExists(ctx, q, userID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUserNotFound
	}
	return nil
}

// playedSongs returns the user's played set in the order the songs were rated
func playedSongs(ctx context.Context, q sqlx.ExtContext, userID string) ([]string, error) {
	var songs []string
	err := sqlx.SelectContext(ctx, q, &songs, q.Rebind(`
		SELECT song_id FROM progress_song
		WHERE user_id = ?
		ORDER BY rated_at, song_id
	`), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query played songs: %w", err)
	}
	return songs, nil
}

// responderCounts maps each song to the number of distinct users who responded to it
func responderCounts(ctx context.Context, q sqlx.ExtContext) (map[string]int, error) {
	var rows []models.SongCount
	err := sqlx.SelectContext(ctx, q, &rows, `
		SELECT song_id, COUNT(DISTINCT user_id) AS users
		FROM response
		GROUP BY song_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count responses: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.SongID] = r.Users
	}
	return counts, nil
}

// markPlayed adds songID to the played set; a second call is a no-op
func markPlayed(ctx context.Context, q sqlx.ExtContext, userID, songID string, now time.Time) error {
	_, err := q.ExecContext(ctx, q.Rebind(`
		INSERT INTO progress_song (user_id, song_id, rated_at) VALUES (?, ?, ?)
		ON CONFLICT (user_id, song_id) DO NOTHING
	`), userID, songID, now)
	if err != nil {
		return fmt.Errorf("failed to mark song played: %w", err)
	}
	return nil
}

func insertResponse(ctx context.Context, q sqlx.ExtContext, resp models.Response) error {
	_, err := sqlx.NamedExecContext(ctx, q, `
		INSERT INTO response (id, user_id, song_id, feature1, feature2, feature3, description, rating, alt_rating, created_at)
		VALUES (:id, :user_id, :song_id, :feature1, :feature2, :feature3, :description, :rating, :alt_rating, :created_at)
	`, resp)
	if err != nil {
		return fmt.Errorf("failed to insert response: %w", err)
	}
	return nil
}
