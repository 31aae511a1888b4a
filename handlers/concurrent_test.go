// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/danielhkuo/vote-counter/models"
	"github.com/danielhkuo/vote-counter/testutil"
)

// TestConcurrentVotesOnDistinctBallots verifies that votes entered from
// several clients at once are all kept
func TestConcurrentVotesOnDistinctBallots(t *testing.T) {
	store := testutil.SetupTestStore(t)
	handler := NewBallotHandler(store)

	numBallots := 10
	ballots := make([]models.Ballot, numBallots)
	for i := range ballots {
		ballots[i] = testutil.TestBallot(i)
	}
	testutil.SaveTestBallots(t, store, ballots)

	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numBallots; i++ {
		for _, pos := range []string{"diaken", "secretaris"} {
			wg.Add(1)
			go func(index int, position string) {
				defer wg.Done()

				person := "diaken1"
				if position == "secretaris" {
					person = "sec1"
				}
				req := testutil.MakeRequest("PUT", "/ballots/"+strconv.Itoa(index)+"/votes",
					models.SetVoteRequest{Position: position, Person: person, Checked: true}, nil)
				req.SetPathValue("index", strconv.Itoa(index))
				w := httptest.NewRecorder()

				handler.SetVote(w, req)

				if w.Code == http.StatusOK {
					successCount.Add(1)
				} else {
					t.Errorf("ballot %d %s: status %d - %s", index, position, w.Code, w.Body.String())
				}
			}(i, pos)
		}
	}

	wg.Wait()

	if got := successCount.Load(); got != int32(numBallots*2) {
		t.Errorf("Expected %d successful votes, got %d", numBallots*2, got)
	}

	stored, err := store.LoadBallots(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != numBallots {
		t.Fatalf("Expected %d ballots, got %d", numBallots, len(stored))
	}
	for _, b := range stored {
		if len(b.Vote) != 2 {
			t.Errorf("Ballot %d lost a vote: %+v", b.Index, b.Vote)
		}
	}
}

// TestConcurrentChecksRespectCap verifies that racing checks on one ballot
// never exceed the position's per-ballot cap
func TestConcurrentChecksRespectCap(t *testing.T) {
	store := testutil.SetupTestStore(t)
	handler := NewBallotHandler(store)

	candidates := []string{"ouderling1", "ouderling2", "ouderling3", "ouderling4"}

	var accepted, refused atomic.Int32
	var wg sync.WaitGroup

	for _, person := range candidates {
		wg.Add(1)
		go func(person string) {
			defer wg.Done()

			req := testutil.MakeRequest("PUT", "/ballots/0/votes",
				models.SetVoteRequest{Position: "ouderling", Person: person, Checked: true}, nil)
			req.SetPathValue("index", "0")
			w := httptest.NewRecorder()

			handler.SetVote(w, req)

			switch w.Code {
			case http.StatusOK:
				accepted.Add(1)
			case http.StatusConflict:
				refused.Add(1)
			default:
				t.Errorf("Unexpected status %d - %s", w.Code, w.Body.String())
			}
		}(person)
	}

	wg.Wait()

	if accepted.Load() != 2 || refused.Load() != 2 {
		t.Errorf("Expected 2 accepted and 2 refused, got %d and %d", accepted.Load(), refused.Load())
	}

	stored, err := store.LoadBallots(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(stored[0].Vote) != 2 {
		t.Errorf("Expected 2 marks on ballot 0, got %+v", stored[0].Vote)
	}
}

// TestConcurrentNextBallot verifies that several clients advancing from the
// same ballot create the next one exactly once
func TestConcurrentNextBallot(t *testing.T) {
	store := testutil.SetupTestStore(t)
	handler := NewBallotHandler(store)

	numClients := 8
	var wg sync.WaitGroup

	for i := 0; i < numClients; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			req := testutil.MakeRequest("POST", "/ballots/0/next", nil, nil)
			req.SetPathValue("index", "0")
			w := httptest.NewRecorder()

			handler.NextBallot(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("Expected status 200, got %d", w.Code)
			}
		}()
	}

	wg.Wait()

	stored, err := store.LoadBallots(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 2 {
		t.Errorf("Expected 2 ballots, got %d", len(stored))
	}
}

// TestSnapshotWaitsForWriters verifies that a snapshot never reads the
// store while a write is in progress
func TestSnapshotWaitsForWriters(t *testing.T) {
	store := testutil.SetupTestStore(t)
	handler := NewResultsHandler(store)

	mutations.Lock()
	locked := true
	defer func() {
		if locked {
			mutations.Unlock()
		}
	}()

	done := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		req := testutil.MakeRequest("POST", "/results/snapshot", nil, nil)
		w := httptest.NewRecorder()
		handler.CreateSnapshot(w, req)
		done <- w
	}()

	select {
	case <-done:
		t.Fatal("Expected snapshot to wait while a write holds the lock")
	case <-time.After(50 * time.Millisecond):
	}

	// Replace positions and ballots together, as an import would
	positions := []models.Position{{Key: "p", Title: "P", Persons: []models.Person{{Key: "a", Name: "A"}}, MaxVotesPerBallot: 1, MaxVacancies: 1}}
	if err := store.SavePositions(context.Background(), positions); err != nil {
		t.Fatal(err)
	}
	testutil.SaveTestBallots(t, store, []models.Ballot{testutil.TestBallot(0, [2]string{"p", "a"})})

	mutations.Unlock()
	locked = false

	w := <-done
	testutil.AssertStatus(t, w, http.StatusCreated)

	var snapshot models.ResultSnapshot
	testutil.AssertJSON(t, w, &snapshot)
	if len(snapshot.Summary.Positions) != 1 || snapshot.Summary.Positions[0].Key != "p" {
		t.Fatalf("Expected the snapshot to see the replaced positions, got %+v", snapshot.Summary.Positions)
	}
	if snapshot.Summary.TotalValidVotes != 1 {
		t.Errorf("Expected 1 valid vote, got %d", snapshot.Summary.TotalValidVotes)
	}
}
