// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/danielhkuo/vote-counter/auth"
	"github.com/danielhkuo/vote-counter/cliparse"
	"github.com/danielhkuo/vote-counter/db"
	"github.com/danielhkuo/vote-counter/models"
)

// TestAdminSalt is the salt GetTestConfig uses
const TestAdminSalt = "test-admin-salt"

// SetupTestStore opens a fresh sqlite store in a temp dir, seeded with the
// default positions and ballot 0. It is closed when the test ends.
func SetupTestStore(t *testing.T) db.Store {
	t.Helper()

	ctx := context.Background()
	store, err := db.Open(ctx, db.TypeSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if _, err := db.Seed(ctx, store); err != nil {
		t.Fatalf("Failed to seed test store: %v", err)
	}

	return store
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseType: db.TypeSQLite,
		DatabaseURL:  "test.db",
		AdminKeySalt: TestAdminSalt,
	}
}

// AdminHeaders returns the X-Admin-Key header for cfg
func AdminHeaders(cfg cliparse.Config) map[string]string {
	return map[string]string{"X-Admin-Key": auth.GenerateAdminKey(auth.Scope, cfg.AdminKeySalt)}
}

// SaveTestBallots replaces the store's ballots
func SaveTestBallots(t *testing.T, store db.Store, ballots []models.Ballot) {
	t.Helper()

	if err := store.ReplaceBallots(context.Background(), ballots); err != nil {
		t.Fatalf("Failed to save test ballots: %v", err)
	}
}

// TestBallot builds a ballot from position/person pairs
func TestBallot(index int, marks ...[2]string) models.Ballot {
	b := models.Ballot{Index: index, Vote: []models.Vote{}}
	for _, m := range marks {
		b.Vote = append(b.Vote, models.Vote{Position: m[0], Person: models.ParseCandidateRef(m[1])})
	}
	return b
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body any, headers map[string]string) *http.Request {
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

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
