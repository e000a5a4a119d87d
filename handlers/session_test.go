// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/danielhkuo/tune-survey/models"
	"github.com/danielhkuo/tune-survey/testutil"
)

func TestLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	cfg.AllowList = []string{"p01", "p02"}
	handler := NewSessionHandler(db, cfg)

	tests := []struct {
		name           string
		form           url.Values
		expectedStatus int
		checkResponse  func(t *testing.T)
	}{
		{
			name:           "first login creates progress",
			form:           url.Values{"user_id": {"p01"}},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T) {
				if n := testutil.CountRows(t, db, `SELECT COUNT(*) FROM progress WHERE user_id = ?`, "p01"); n != 1 {
					t.Errorf("Expected one progress row, got %d", n)
				}
			},
		},
		{
			name:           "second login is a no-op",
			form:           url.Values{"user_id": {"p01"}},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T) {
				if n := testutil.CountRows(t, db, `SELECT COUNT(*) FROM progress`); n != 1 {
					t.Errorf("Expected still one progress row, got %d", n)
				}
			},
		},
		{
			name:           "user id is trimmed",
			form:           url.Values{"user_id": {"  p02 "}},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T) {
				if n := testutil.CountRows(t, db, `SELECT COUNT(*) FROM progress WHERE user_id = ?`, "p02"); n != 1 {
					t.Errorf("Expected trimmed user id to be stored, got %d", n)
				}
			},
		},
		{
			name:           "missing user_id",
			form:           url.Values{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "not on allow-list",
			form:           url.Values{"user_id": {"intruder"}},
			expectedStatus: http.StatusForbidden,
			checkResponse: func(t *testing.T) {
				if n := testutil.CountRows(t, db, `SELECT COUNT(*) FROM progress WHERE user_id = ?`, "intruder"); n != 0 {
					t.Errorf("Expected no progress for rejected user, got %d", n)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeFormRequest("POST", "/login", tt.form)
			w := httptest.NewRecorder()

			handler.Login(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusOK {
				var resp models.StatusResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.Status != models.StatusOK {
					t.Errorf("Expected status 'ok', got %q", resp.Status)
				}
			}

			if tt.checkResponse != nil {
				tt.checkResponse(t)
			}
		})
	}
}

func TestLogin_JSON(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewSessionHandler(db, testutil.GetTestConfig())

	req := testutil.MakeRequest("POST", "/login", models.LoginRequest{UserID: "json-user"}, nil)
	w := httptest.NewRecorder()
	handler.Login(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	if n := testutil.CountRows(t, db, `SELECT COUNT(*) FROM progress WHERE user_id = ?`, "json-user"); n != 1 {
		t.Errorf("Expected progress row, got %d", n)
	}
}

func TestProgress(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	cfg.AudioDir = testutil.SetupAudioDir(t, "a.wav", "b.wav", "c.wav")
	handler := NewSessionHandler(db, cfg)

	testutil.CreateTestProgress(t, db, "u1", "b.wav")
	testutil.CreateTestProgress(t, db, "u2")

	t.Run("played songs listed", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Progress(w, httptest.NewRequest("GET", "/progress?user_id=u1", nil))
		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.ProgressResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.UserID != "u1" || resp.CompletedCount != 1 || resp.TotalSongs != 3 {
			t.Errorf("Unexpected progress %+v", resp)
		}
		if len(resp.Completed) != 1 || resp.Completed[0] != "b.wav" {
			t.Errorf("Expected completed [b.wav], got %v", resp.Completed)
		}
	})

	t.Run("empty progress is an empty list", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Progress(w, httptest.NewRequest("GET", "/progress?user_id=u2", nil))
		testutil.AssertStatus(t, w, http.StatusOK)

		var raw map[string]interface{}
		testutil.AssertJSON(t, w, &raw)
		if completed, ok := raw["completed"].([]interface{}); !ok || len(completed) != 0 {
			t.Errorf("Expected completed to be [], got %v", raw["completed"])
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Progress(w, httptest.NewRequest("GET", "/progress?user_id=nobody", nil))
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})

	t.Run("missing user_id", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Progress(w, httptest.NewRequest("GET", "/progress", nil))
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})
}

func TestProgress_AutoCreate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	cfg.AudioDir = testutil.SetupAudioDir(t, "a.wav")
	cfg.ProgressMode = models.ProgressAutoCreate
	handler := NewSessionHandler(db, cfg)

	w := httptest.NewRecorder()
	handler.Progress(w, httptest.NewRequest("GET", "/progress?user_id=late", nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	if n := testutil.CountRows(t, db, `SELECT COUNT(*) FROM progress WHERE user_id = ?`, "late"); n != 1 {
		t.Errorf("Expected auto-created progress, got %d", n)
	}
}

func TestProgress_AllowList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	cfg.AllowList = []string{"p01"}
	handler := NewSessionHandler(db, cfg)

	w := httptest.NewRecorder()
	handler.Progress(w, httptest.NewRequest("GET", "/progress?user_id=p02", nil))
	testutil.AssertStatus(t, w, http.StatusForbidden)
}
