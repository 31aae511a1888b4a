// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/vote-counter/db"
	"github.com/danielhkuo/vote-counter/middleware"
	"github.com/danielhkuo/vote-counter/models"
	"github.com/danielhkuo/vote-counter/tally"
)

type BallotHandler struct {
	store db.Store
}

func NewBallotHandler(store db.Store) *BallotHandler {
	return &BallotHandler{store: store}
}

// ListBallots handles GET /ballots
func (h *BallotHandler) ListBallots(w http.ResponseWriter, r *http.Request) {
	ballots, err := h.store.LoadBallots(r.Context())
	if err != nil {
		slog.Error("failed to load ballots", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, ballots)
}

// GetBallot handles GET /ballots/{index}
func (h *BallotHandler) GetBallot(w http.ResponseWriter, r *http.Request) {
	index, err := ballotIndex(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	ballots, err := h.store.LoadBallots(r.Context())
	if err != nil {
		slog.Error("failed to load ballots", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	ballot, ok := tally.FindBallot(ballots, index)
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Ballot not found")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, ballot)
}

// SetVote handles PUT /ballots/{index}/votes.
// Checking a candidate beyond the position's per-ballot cap is refused with
// 409; the invalid mark always replaces the position's marks.
func (h *BallotHandler) SetVote(w http.ResponseWriter, r *http.Request) {
	index, err := ballotIndex(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var req models.SetVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Position == "" || req.Person == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "position and person are required")
		return
	}

	mutations.Lock()
	defer mutations.Unlock()

	ctx := r.Context()
	positions, err := h.store.LoadPositions(ctx)
	if err != nil {
		slog.Error("failed to load positions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	position, ok := findPosition(positions, req.Position)
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("unknown position %q", req.Position))
		return
	}
	ref := models.ParseCandidateRef(req.Person)
	if !ref.IsInvalid() && !position.HasPerson(ref.Key()) {
		middleware.ErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("unknown person %q for position %q", req.Person, req.Position))
		return
	}

	ballots, err := h.store.LoadBallots(ctx)
	if err != nil {
		slog.Error("failed to load ballots", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	current, ok := tally.FindBallot(ballots, index)
	if !ok {
		current = tally.NewBallot(index)
	}
	if req.Checked && !tally.CanCheck(current, position, ref) {
		middleware.ErrorResponse(w, http.StatusConflict,
			fmt.Sprintf("ballot %d already has %d votes for %s", index, position.MaxVotesPerBallot, position.Title))
		return
	}

	_, ballot := tally.SetVote(ballots, index, position.Key, ref, req.Checked)
	if err := h.store.SaveBallot(ctx, ballot); err != nil {
		slog.Error("failed to save ballot", "index", index, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save ballot")
		return
	}

	slog.Info("vote set",
		"index", index,
		"position", position.Key,
		"person", ref.String(),
		"checked", req.Checked,
	)

	middleware.JSONResponse(w, http.StatusOK, ballot)
}

// NextBallot handles POST /ballots/{index}/next, creating the following
// ballot when it does not exist yet
func (h *BallotHandler) NextBallot(w http.ResponseWriter, r *http.Request) {
	index, err := ballotIndex(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	mutations.Lock()
	defer mutations.Unlock()

	ballots, err := h.store.LoadBallots(r.Context())
	if err != nil {
		slog.Error("failed to load ballots", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	_, next := tally.NextBallot(ballots, index)
	if _, exists := tally.FindBallot(ballots, next.Index); !exists {
		if err := h.store.SaveBallot(r.Context(), next); err != nil {
			slog.Error("failed to create ballot", "index", next.Index, "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create ballot")
			return
		}
		slog.Info("ballot created", "index", next.Index)
	}

	middleware.JSONResponse(w, http.StatusOK, next)
}

// PreviousBallot handles GET /ballots/{index}/previous. Index 0 is its own
// predecessor; a gap left by an import reads as an empty ballot.
func (h *BallotHandler) PreviousBallot(w http.ResponseWriter, r *http.Request) {
	index, err := ballotIndex(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	ballots, err := h.store.LoadBallots(r.Context())
	if err != nil {
		slog.Error("failed to load ballots", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	prev := tally.PreviousIndex(index)
	ballot, ok := tally.FindBallot(ballots, prev)
	if !ok {
		ballot = tally.NewBallot(prev)
	}

	middleware.JSONResponse(w, http.StatusOK, ballot)
}

// RemoveBallot handles DELETE /ballots/{index} (operator key required).
// The remaining ballots are renumbered from 0. The optional current query
// parameter is the ballot the operator is on; the response says where
// they are after renumbering.
func (h *BallotHandler) RemoveBallot(w http.ResponseWriter, r *http.Request) {
	index, err := ballotIndex(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	current := index
	if c := r.URL.Query().Get("current"); c != "" {
		current, err = strconv.Atoi(c)
		if err != nil || current < 0 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "current must be a non-negative integer")
			return
		}
	}

	mutations.Lock()
	defer mutations.Unlock()

	ballots, err := h.store.LoadBallots(r.Context())
	if err != nil {
		slog.Error("failed to load ballots", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if _, ok := tally.FindBallot(ballots, index); !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Ballot not found")
		return
	}

	remaining, removed := tally.RemoveBallot(ballots, index)
	if !removed {
		middleware.ErrorResponse(w, http.StatusConflict, "Cannot remove the only ballot")
		return
	}

	if err := h.store.ReplaceBallots(r.Context(), remaining); err != nil {
		slog.Error("failed to replace ballots", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to remove ballot")
		return
	}

	slog.Info("ballot removed", "index", index, "remaining", len(remaining))

	middleware.JSONResponse(w, http.StatusOK, models.RemoveBallotResponse{
		Count:   len(remaining),
		Current: tally.CurrentAfterRemoval(index, current, len(remaining)),
	})
}

// ResetBallots handles DELETE /ballots (operator key required)
func (h *BallotHandler) ResetBallots(w http.ResponseWriter, r *http.Request) {
	mutations.Lock()
	defer mutations.Unlock()

	ballots := tally.ResetBallots()
	if err := h.store.ReplaceBallots(r.Context(), ballots); err != nil {
		slog.Error("failed to reset ballots", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to reset ballots")
		return
	}

	slog.Warn("ballots reset")

	middleware.JSONResponse(w, http.StatusOK, ballots)
}
