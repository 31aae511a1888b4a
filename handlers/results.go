// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/vote-counter/auth"
	"github.com/danielhkuo/vote-counter/db"
	"github.com/danielhkuo/vote-counter/middleware"
	"github.com/danielhkuo/vote-counter/models"
	"github.com/danielhkuo/vote-counter/tally"
)

type ResultsHandler struct {
	store db.Store
	now   func() time.Time
}

func NewResultsHandler(store db.Store) *ResultsHandler {
	return &ResultsHandler{store: store, now: time.Now}
}

// GetResults handles GET /results.
// Everything in the summary comes from a single read of the ballots.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	e, err := loadElection(r.Context(), h.store)
	if err != nil {
		slog.Error("failed to load election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, tally.Summarize(e.positions, e.ballots, e.settings))
}

// GetAudit handles GET /results/audit, a plain-text sheet for checking the
// count by hand
func (h *ResultsHandler) GetAudit(w http.ResponseWriter, r *http.Request) {
	e, err := loadElection(r.Context(), h.store)
	if err != nil {
		slog.Error("failed to load election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var latest *models.ResultSnapshot
	snapshot, err := h.store.LatestSnapshot(r.Context())
	switch {
	case err == nil:
		latest = &snapshot
	case !errors.Is(err, db.ErrNotFound):
		slog.Error("failed to load latest snapshot", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	summary := tally.Summarize(e.positions, e.ballots, e.settings)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := WriteAudit(w, summary, latest, h.now()); err != nil {
		slog.Error("failed to write audit sheet", "error", err)
	}
}

// CreateSnapshot handles POST /results/snapshot (operator key required)
func (h *ResultsHandler) CreateSnapshot(w http.ResponseWriter, r *http.Request) {
	e, err := loadElection(r.Context(), h.store)
	if err != nil {
		slog.Error("failed to load election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	hash, err := inputsHash(e)
	if err != nil {
		slog.Error("failed to hash snapshot inputs", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create snapshot")
		return
	}

	snapshot := models.ResultSnapshot{
		ID:         uuid.NewString(),
		ComputedAt: h.now().UTC(),
		Summary:    tally.Summarize(e.positions, e.ballots, e.settings),
		InputsHash: hash,
	}

	if err := h.store.SaveSnapshot(r.Context(), snapshot); err != nil {
		slog.Error("failed to save snapshot", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create snapshot")
		return
	}

	slog.Info("result snapshot saved",
		"snapshot_id", snapshot.ID,
		"ballots", snapshot.Summary.BallotCount,
		"checksum", snapshot.Summary.TotalChecksum.String(),
	)

	middleware.JSONResponse(w, http.StatusCreated, snapshot)
}

// GetSnapshot handles GET /results/snapshot/{id}
func (h *ResultsHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id must be a UUID")
		return
	}

	h.writeSnapshot(w, func() (models.ResultSnapshot, error) {
		return h.store.LoadSnapshot(r.Context(), id)
	})
}

// GetLatestSnapshot handles GET /results/snapshot/latest
func (h *ResultsHandler) GetLatestSnapshot(w http.ResponseWriter, r *http.Request) {
	h.writeSnapshot(w, func() (models.ResultSnapshot, error) {
		return h.store.LatestSnapshot(r.Context())
	})
}

func (h *ResultsHandler) writeSnapshot(w http.ResponseWriter, load func() (models.ResultSnapshot, error)) {
	snapshot, err := load()
	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Snapshot not found")
		return
	}
	if err != nil {
		slog.Error("failed to load snapshot", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, snapshot)
}

func inputsHash(e election) (string, error) {
	parts := make([][]byte, 0, 3)
	for _, v := range []any{e.positions, e.ballots, e.settings} {
		data, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("failed to encode snapshot input: %w", err)
		}
		parts = append(parts, data)
	}
	return auth.HashInputs(parts...), nil
}
