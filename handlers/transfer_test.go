// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/vote-counter/archive"
	"github.com/danielhkuo/vote-counter/models"
	"github.com/danielhkuo/vote-counter/testutil"
)

var exportTime = time.Date(2025, 3, 1, 19, 4, 5, 0, time.UTC)

func newTestTransferHandler(t *testing.T, archiver archive.Archiver) (*TransferHandler, func() []models.Ballot) {
	t.Helper()
	store := testutil.SetupTestStore(t)
	h := NewTransferHandler(store, archiver)
	h.now = func() time.Time { return exportTime }

	load := func() []models.Ballot {
		ballots, err := store.LoadBallots(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		return ballots
	}
	return h, load
}

func TestExport(t *testing.T) {
	handler, _ := newTestTransferHandler(t, nil)

	tests := []struct {
		name     string
		serve    http.HandlerFunc
		fileName string
	}{
		{"positions", handler.ExportPositions, "vote-counter-positions-2025-03-01T19:04:05Z.json"},
		{"ballots", handler.ExportBallots, "vote-counter-ballots-2025-03-01T19:04:05Z.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("GET", "/export/"+tt.name, nil, nil)
			w := httptest.NewRecorder()
			tt.serve(w, req)

			testutil.AssertStatus(t, w, http.StatusOK)

			disposition := w.Header().Get("Content-Disposition")
			if disposition != `attachment; filename="`+tt.fileName+`"` {
				t.Errorf("Unexpected Content-Disposition: %s", disposition)
			}

			var arr []json.RawMessage
			if err := json.Unmarshal(w.Body.Bytes(), &arr); err != nil {
				t.Errorf("Expected a JSON array, got %s", w.Body.String())
			}
		})
	}
}

func TestImportPositions(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedError  string
		check          func(t *testing.T, positions []models.Position)
	}{
		{
			name:           "current format",
			body:           `[{"key":"p","title":"P","persons":[{"key":"a","name":"A"}],"maxVotesPerBallot":2,"maxVacancies":1}]`,
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, positions []models.Position) {
				if positions[0].MaxVotesPerBallot != 2 || positions[0].MaxVacancies != 1 {
					t.Errorf("Unexpected caps %+v", positions[0])
				}
			},
		},
		{
			name:           "legacy max",
			body:           `[{"key":"p","title":"P","persons":[],"max":2}]`,
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, positions []models.Position) {
				if positions[0].MaxVotesPerBallot != 2 || positions[0].MaxVacancies != 2 {
					t.Errorf("Expected legacy max to set both caps to 2, got %+v", positions[0])
				}
			},
		},
		{
			name:           "not JSON",
			body:           `positions`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "check the file format",
		},
		{
			name:           "not an array",
			body:           `{"key":"p"}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "must contain an array of positions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.SetupTestStore(t)
			handler := NewTransferHandler(store, nil)

			req := httptest.NewRequest("POST", "/import/positions", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			handler.ImportPositions(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus != http.StatusOK {
				var resp models.ErrorResponse
				testutil.AssertJSON(t, w, &resp)
				if !strings.Contains(resp.Message, tt.expectedError) {
					t.Errorf("Expected message containing %q, got %q", tt.expectedError, resp.Message)
				}
				return
			}

			positions, err := store.LoadPositions(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			if len(positions) != 1 {
				t.Fatalf("Expected 1 position, got %d", len(positions))
			}
			tt.check(t, positions)
		})
	}
}

func TestImportBallots(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedCount  int
	}{
		{
			name:           "valid ballots",
			body:           `[{"index":0,"vote":[{"position":"diaken","person":"diaken1"}]},{"index":1,"vote":[{"position":"diaken","person":"invalid"}]}]`,
			expectedStatus: http.StatusOK,
			expectedCount:  2,
		},
		{
			name:           "empty array leaves one ballot",
			body:           `[]`,
			expectedStatus: http.StatusOK,
			expectedCount:  1,
		},
		{
			name:           "one malformed element rejects all",
			body:           `[{"index":0,"vote":[]},{"index":1,"vote":"x"}]`,
			expectedStatus: http.StatusBadRequest,
			expectedCount:  1,
		},
		{
			name:           "repeated mark",
			body:           `[{"index":0,"vote":[{"position":"diaken","person":"diaken1"},{"position":"diaken","person":"diaken1"}]}]`,
			expectedStatus: http.StatusBadRequest,
			expectedCount:  1,
		},
		{
			name:           "duplicate index",
			body:           `[{"index":0,"vote":[]},{"index":0,"vote":[]}]`,
			expectedStatus: http.StatusBadRequest,
			expectedCount:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, load := newTestTransferHandler(t, nil)

			req := httptest.NewRequest("POST", "/import/ballots", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			handler.ImportBallots(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if got := len(load()); got != tt.expectedCount {
				t.Errorf("Expected %d stored ballots, got %d", tt.expectedCount, got)
			}
		})
	}
}

func TestImportedBallotKeepsInvalidMark(t *testing.T) {
	handler, load := newTestTransferHandler(t, nil)

	body := `[{"index":0,"vote":[{"position":"diaken","person":"invalid"}]}]`
	req := httptest.NewRequest("POST", "/import/ballots", strings.NewReader(body))
	w := httptest.NewRecorder()
	handler.ImportBallots(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	ballots := load()
	if !ballots[0].Vote[0].Person.IsInvalid() {
		t.Error("Expected the imported mark to be the invalid mark")
	}
}

func TestArchiveWithoutSink(t *testing.T) {
	handler, _ := newTestTransferHandler(t, nil)

	req := testutil.MakeRequest("POST", "/archive", nil, nil)
	w := httptest.NewRecorder()
	handler.Archive(w, req)

	testutil.AssertStatus(t, w, http.StatusServiceUnavailable)
}

func TestArchiveToDir(t *testing.T) {
	dir := t.TempDir()
	sink, err := archive.NewDirArchiver(dir)
	if err != nil {
		t.Fatal(err)
	}
	handler, _ := newTestTransferHandler(t, sink)

	req := testutil.MakeRequest("POST", "/archive", nil, nil)
	w := httptest.NewRecorder()
	handler.Archive(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ArchiveResponse
	testutil.AssertJSON(t, w, &resp)
	if len(resp.Objects) != 2 {
		t.Fatalf("Expected 2 objects, got %v", resp.Objects)
	}

	for _, name := range resp.Objects {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("Expected %s in archive dir: %v", name, err)
			continue
		}
		var arr []json.RawMessage
		if err := json.Unmarshal(data, &arr); err != nil {
			t.Errorf("%s is not a JSON array", name)
		}
	}
}

type failingArchiver struct{}

func (failingArchiver) Put(ctx context.Context, name string, data []byte) error {
	return errors.New("bucket unavailable")
}

func TestArchiveFailure(t *testing.T) {
	handler, _ := newTestTransferHandler(t, failingArchiver{})

	req := testutil.MakeRequest("POST", "/archive", nil, nil)
	w := httptest.NewRecorder()
	handler.Archive(w, req)

	testutil.AssertStatus(t, w, http.StatusBadGateway)
}
