// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/danielhkuo/tune-survey/catalog"
	"github.com/danielhkuo/tune-survey/cliparse"
	"github.com/danielhkuo/tune-survey/models"
	"github.com/danielhkuo/tune-survey/testutil"
)

func setupRouter(t *testing.T, songs ...string) (*http.ServeMux, cliparse.Config) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	cfg.AudioDir = testutil.SetupAudioDir(t, songs...)
	descs := catalog.NewDescriptions(map[string]string{"track1.wav": "calm"})
	return NewRouter(db, cfg, descs), cfg
}

func TestHealthEndpoint(t *testing.T) {
	mux, _ := setupRouter(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.StatusResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Status != "ok" {
		t.Errorf("Expected status 'ok', got '%s'", resp.Status)
	}
}

func TestRootEndpoint(t *testing.T) {
	mux, _ := setupRouter(t)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	expected := "tune-survey API v1"
	if w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}
}

func TestRouteExistence(t *testing.T) {
	mux, _ := setupRouter(t, "track1.wav")

	// Routes must reach a handler; handlers may still reject the empty request
	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/"},
		{"POST", "/login"},
		{"GET", "/progress"},
		{"GET", "/next-song"},
		{"POST", "/submit"},
		{"GET", "/features"},
		{"GET", "/audio/track1.wav"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code == http.StatusNotFound || w.Code == http.StatusMethodNotAllowed {
				t.Errorf("Route %s %s not registered (status %d)", tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestUnknownRoutes(t *testing.T) {
	mux, cfg := setupRouter(t, "track1.wav")
	if err := os.Mkdir(filepath.Join(cfg.AudioDir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	testCases := []struct {
		method string
		path   string
		status int
	}{
		{"GET", "/nope", http.StatusNotFound},
		{"GET", "/login", http.StatusMethodNotAllowed},
		{"POST", "/next-song", http.StatusMethodNotAllowed},
		{"GET", "/audio/missing.wav", http.StatusNotFound},
		{"GET", "/audio/", http.StatusNotFound},
		{"GET", "/audio/sub/", http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
			if w.Code != tc.status {
				t.Errorf("Expected status %d, got %d", tc.status, w.Code)
			}
		})
	}
}

// TestSurveyFlow walks one participant through the whole survey
func TestSurveyFlow(t *testing.T) {
	mux, _ := setupRouter(t, "track1.wav", "track2.wav")

	// Login
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeFormRequest("POST", "/login", url.Values{"user_id": {"p01"}}))
	testutil.AssertStatus(t, w, http.StatusOK)

	seen := make(map[string]bool)
	for round := 0; round < 2; round++ {
		w = httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest("GET", "/next-song?user_id=p01", nil))
		testutil.AssertStatus(t, w, http.StatusOK)

		var next models.NextSongResponse
		testutil.AssertJSON(t, w, &next)
		if next.Complete {
			t.Fatalf("Round %d: unexpected completion", round)
		}
		if seen[next.SongID] {
			t.Fatalf("Round %d: song %s served twice", round, next.SongID)
		}
		seen[next.SongID] = true

		if next.SongID == "track1.wav" && (next.Description == nil || *next.Description != "calm") {
			t.Errorf("Expected description 'calm' for track1.wav, got %v", next.Description)
		}

		// The clip itself is downloadable
		w = httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest("GET", "/audio/"+next.SongFile, nil))
		testutil.AssertStatus(t, w, http.StatusOK)

		w = httptest.NewRecorder()
		mux.ServeHTTP(w, testutil.MakeFormRequest("POST", "/submit", url.Values{
			"user_id":     {"p01"},
			"song_id":     {next.SongID},
			"feature1":    {"Soothing"},
			"feature2":    {"Focusing"},
			"feature3":    {"Grounding"},
			"description": {"gentle"},
			"rating":      {"3"},
		}))
		testutil.AssertStatus(t, w, http.StatusOK)
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/next-song?user_id=p01", nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	var done models.NextSongResponse
	testutil.AssertJSON(t, w, &done)
	if !done.Complete {
		t.Errorf("Expected completion after rating every song, got %+v", done)
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/progress?user_id=p01", nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	var progress models.ProgressResponse
	testutil.AssertJSON(t, w, &progress)
	if progress.CompletedCount != 2 || progress.TotalSongs != 2 {
		t.Errorf("Unexpected progress %+v", progress)
	}
}

func TestRateLimitedRoutes(t *testing.T) {
	cfg := testutil.GetTestConfig()
	cfg.AudioDir = testutil.SetupAudioDir(t)
	cfg.RateLimit = 1
	cfg.RateBurst = 1
	mux := NewRouter(testutil.SetupTestDB(t), cfg, nil)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/features", nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/features", nil))
	testutil.AssertStatus(t, w, http.StatusTooManyRequests)

	// Health checks bypass the limiter
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	testutil.AssertStatus(t, w, http.StatusOK)
}
