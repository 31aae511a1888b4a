// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"context"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/vote-counter/models"
	"github.com/danielhkuo/vote-counter/testutil"
)

// diakenBallots: diaken1 three times, diaken2 once, one invalid mark
func diakenBallots() []models.Ballot {
	return []models.Ballot{
		testutil.TestBallot(0, [2]string{"diaken", "diaken1"}),
		testutil.TestBallot(1, [2]string{"diaken", "diaken1"}),
		testutil.TestBallot(2, [2]string{"diaken", "diaken2"}),
		testutil.TestBallot(3, [2]string{"diaken", "diaken1"}),
		testutil.TestBallot(4, [2]string{"diaken", "invalid"}),
	}
}

func TestGetResults(t *testing.T) {
	store := testutil.SetupTestStore(t)
	testutil.SaveTestBallots(t, store, diakenBallots())
	handler := NewResultsHandler(store)

	req := testutil.MakeRequest("GET", "/results", nil, nil)
	w := httptest.NewRecorder()
	handler.GetResults(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var summary models.ResultSummary
	testutil.AssertJSON(t, w, &summary)

	if summary.BallotCount != 5 {
		t.Errorf("Expected 5 ballots, got %d", summary.BallotCount)
	}
	if summary.AttendanceRatio != "N/A" {
		t.Errorf("Expected N/A attendance, got %s", summary.AttendanceRatio)
	}
	if summary.TotalValidVotes != 4 {
		t.Errorf("Expected 4 valid votes, got %d", summary.TotalValidVotes)
	}

	diaken := summary.Positions[0]
	// ceil(4 / 2 * 0.8) = 2
	if diaken.ElectoralDivisor != 2 {
		t.Errorf("Expected divisor 2, got %d", diaken.ElectoralDivisor)
	}
	if diaken.InvalidVotes != 1 || diaken.BlankVotes != 0 {
		t.Errorf("Expected 1 invalid and 0 blank, got %d and %d", diaken.InvalidVotes, diaken.BlankVotes)
	}

	expected := map[string]models.CandidateStatus{
		"diaken1": models.StatusElected,
		"diaken2": models.StatusBelowDivisor,
	}
	for _, c := range diaken.Results {
		if c.Status != expected[c.Key] {
			t.Errorf("%s: expected %s, got %s", c.Key, expected[c.Key], c.Status)
		}
	}

	ouderling := summary.Positions[1]
	if ouderling.BlankVotes != 10 {
		t.Errorf("Expected 10 blank ouderling votes, got %d", ouderling.BlankVotes)
	}

	// 3*1 + 1*2 + 1*4; every other count is zero
	if summary.TotalChecksum.Cmp(big.NewInt(9)) != 0 {
		t.Errorf("Expected total checksum 9, got %s", summary.TotalChecksum)
	}
	if summary.TotalChecksumByPositions.Cmp(big.NewInt(9)) != 0 {
		t.Errorf("Expected checksum by positions 9, got %s", summary.TotalChecksumByPositions)
	}
}

func TestGetResultsSorted(t *testing.T) {
	store := testutil.SetupTestStore(t)
	testutil.SaveTestBallots(t, store, []models.Ballot{
		testutil.TestBallot(0, [2]string{"diaken", "diaken2"}),
	})
	if err := store.SaveSettings(context.Background(), models.Settings{
		ElectoralDivisorVariable: 0.8,
		SortResultsByVoteCount:   true,
	}); err != nil {
		t.Fatal(err)
	}
	handler := NewResultsHandler(store)

	req := testutil.MakeRequest("GET", "/results", nil, nil)
	w := httptest.NewRecorder()
	handler.GetResults(w, req)

	var summary models.ResultSummary
	testutil.AssertJSON(t, w, &summary)

	if summary.Positions[0].Results[0].Key != "diaken2" {
		t.Errorf("Expected diaken2 first when sorting by votes, got %s", summary.Positions[0].Results[0].Key)
	}
}

func TestSnapshots(t *testing.T) {
	store := testutil.SetupTestStore(t)
	testutil.SaveTestBallots(t, store, diakenBallots())
	handler := NewResultsHandler(store)
	handler.now = func() time.Time { return time.Date(2025, 3, 1, 19, 0, 0, 0, time.UTC) }

	// Nothing persisted yet
	req := testutil.MakeRequest("GET", "/results/snapshot/latest", nil, nil)
	w := httptest.NewRecorder()
	handler.GetLatestSnapshot(w, req)
	testutil.AssertStatus(t, w, http.StatusNotFound)

	req = testutil.MakeRequest("POST", "/results/snapshot", nil, nil)
	w = httptest.NewRecorder()
	handler.CreateSnapshot(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var created models.ResultSnapshot
	testutil.AssertJSON(t, w, &created)
	if created.ID == "" || len(created.InputsHash) != 64 {
		t.Fatalf("Expected id and sha256 inputs hash, got %q / %q", created.ID, created.InputsHash)
	}
	if created.Summary.TotalChecksum.Cmp(big.NewInt(9)) != 0 {
		t.Errorf("Expected snapshot checksum 9, got %s", created.Summary.TotalChecksum)
	}

	tests := []struct {
		name           string
		id             string
		expectedStatus int
	}{
		{"existing", created.ID, http.StatusOK},
		{"unknown uuid", "0b8a0c0e-8d5e-4a8f-9c53-6f0c7f1a2b3c", http.StatusNotFound},
		{"not a uuid", "snapshot-1", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("GET", "/results/snapshot/"+tt.id, nil, nil)
			req.SetPathValue("id", tt.id)
			w := httptest.NewRecorder()
			handler.GetSnapshot(w, req)
			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}

	req = testutil.MakeRequest("GET", "/results/snapshot/latest", nil, nil)
	w = httptest.NewRecorder()
	handler.GetLatestSnapshot(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var latest models.ResultSnapshot
	testutil.AssertJSON(t, w, &latest)
	if latest.ID != created.ID {
		t.Errorf("Expected latest %s, got %s", created.ID, latest.ID)
	}

	// Same inputs, same fingerprint
	req = testutil.MakeRequest("POST", "/results/snapshot", nil, nil)
	w = httptest.NewRecorder()
	handler.CreateSnapshot(w, req)
	var again models.ResultSnapshot
	testutil.AssertJSON(t, w, &again)
	if again.InputsHash != created.InputsHash {
		t.Error("Expected identical inputs to hash the same")
	}
	if again.ID == created.ID {
		t.Error("Expected a new snapshot id")
	}
}

func TestGetAudit(t *testing.T) {
	store := testutil.SetupTestStore(t)
	testutil.SaveTestBallots(t, store, diakenBallots())
	handler := NewResultsHandler(store)

	req := testutil.MakeRequest("GET", "/results/audit", nil, nil)
	w := httptest.NewRecorder()
	handler.GetAudit(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Expected text/plain, got %s", ct)
	}

	body := w.Body.String()
	for _, want := range []string{"VOTE COUNT AUDIT", "Diaken", "elected", "below-divisor", "ceil(4 / 2 * 0.8)", "Last snapshot:"} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected audit to contain %q:\n%s", want, body)
		}
	}
}

func TestWriteAudit(t *testing.T) {
	now := time.Date(2025, 3, 1, 19, 0, 0, 0, time.UTC)
	summary := models.ResultSummary{
		BallotCount:              1234,
		TotalAllowedVoters:       2000,
		AttendanceRatio:          "61.7%",
		TotalValidVotes:          1200,
		ElectoralDivisorVariable: 0.8,
		Positions: []models.PositionSummary{{
			Title:             "Secretaris",
			MaxVotesPerBallot: 1,
			MaxVacancies:      1,
			ElectoralDivisor:  960,
			DivisorFormula:    "ceil(1200 / 1 * 0.8)",
			Results:           []models.CandidateResult{{Key: "sec1", Name: "Secretaris 1", Votes: 1200, Status: models.StatusElected}},
			BlankVotes:        30,
			InvalidVotes:      4,
			Checksum:          big.NewInt(1208),
		}},
		TotalChecksum:            new(big.Int).Lsh(big.NewInt(1), 70),
		TotalChecksumByPositions: big.NewInt(1208),
	}
	latest := &models.ResultSnapshot{ID: "abc", ComputedAt: now.Add(-5 * time.Minute)}

	var buf bytes.Buffer
	if err := WriteAudit(&buf, summary, latest, now); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{
		"1,234",
		"2,000",
		"1,180,591,620,717,411,303,424",
		"1 vacancy",
		"abc (5 minutes ago)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in:\n%s", want, out)
		}
	}
}
