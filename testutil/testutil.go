// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/tune-survey/auth"
	"github.com/danielhkuo/tune-survey/cliparse"
	"github.com/danielhkuo/tune-survey/db"
	"github.com/danielhkuo/tune-survey/models"
)

// SetupTestDB creates a fresh SQLite database with the full schema in a
// temporary directory. It is closed when the test ends.
func SetupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// SetupAudioDir creates a temporary audio directory holding empty clips
func SetupAudioDir(t *testing.T, songs ...string) string {
	t.Helper()

	dir := t.TempDir()
	for _, song := range songs {
		if err := os.WriteFile(filepath.Join(dir, song), []byte("RIFF"), 0o644); err != nil {
			t.Fatalf("Failed to create test song %s: %v", song, err)
		}
	}
	return dir
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  "test.db",
		DatabaseType: db.TypeSQLite,
		AudioDir:     "static/audio",
		AudioExt:     ".wav",
		ResponseCap:  3,
		ProgressMode: models.ProgressLoginRequired,
		Features:     models.DefaultFeatures,
		CORSOrigin:   "http://localhost:3000",
	}
}

// CreateTestProgress inserts a progress record for userID
func CreateTestProgress(t *testing.T, conn *sqlx.DB, userID string, played ...string) {
	t.Helper()

	now := time.Now()
	_, err := conn.Exec(conn.Rebind(`INSERT INTO progress (user_id, created_at) VALUES (?, ?)`), userID, now)
	if err != nil {
		t.Fatalf("Failed to create test progress: %v", err)
	}

	for _, song := range played {
		_, err := conn.Exec(conn.Rebind(`
			INSERT INTO progress_song (user_id, song_id, rated_at) VALUES (?, ?, ?)
		`), userID, song, now)
		if err != nil {
			t.Fatalf("Failed to mark song played: %v", err)
		}
	}
}

// CreateTestResponse inserts a response record without touching progress
func CreateTestResponse(t *testing.T, conn *sqlx.DB, userID, songID string) string {
	t.Helper()

	id := auth.NewResponseID()
	_, err := conn.Exec(conn.Rebind(`
		INSERT INTO response (id, user_id, song_id, feature1, description, created_at)
		VALUES (?, ?, ?, 'Soothing', 'test description', ?)
	`), id, userID, songID, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test response: %v", err)
	}

	return id
}

// CountRows runs a COUNT(*) query and returns the result
func CountRows(t *testing.T, conn *sqlx.DB, query string, args ...interface{}) int {
	t.Helper()

	var n int
	if err := conn.Get(&n, conn.Rebind(query), args...); err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	return n
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// MakeFormRequest creates a URL-encoded form request
func MakeFormRequest(method, path string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
