// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/vote-counter/db"
	"github.com/danielhkuo/vote-counter/importer"
	"github.com/danielhkuo/vote-counter/middleware"
	"github.com/danielhkuo/vote-counter/models"
)

type PositionHandler struct {
	store db.Store
}

func NewPositionHandler(store db.Store) *PositionHandler {
	return &PositionHandler{store: store}
}

// GetPositions handles GET /positions
func (h *PositionHandler) GetPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.store.LoadPositions(r.Context())
	if err != nil {
		slog.Error("failed to load positions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, positions)
}

// ReplacePositions handles PUT /positions (operator key required).
// Ballots are left alone; votes for removed positions simply stop counting.
func (h *PositionHandler) ReplacePositions(w http.ResponseWriter, r *http.Request) {
	var positions []models.Position
	if err := middleware.ParseJSONBody(r, &positions); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if positions == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Body must be an array of positions")
		return
	}

	for i := range positions {
		if positions[i].Persons == nil {
			positions[i].Persons = []models.Person{}
		}
	}

	if err := importer.ValidatePositions(positions); err != nil {
		var verr *importer.ValidationError
		if errors.As(err, &verr) {
			middleware.ErrorResponse(w, http.StatusBadRequest, verr.Reason)
			return
		}
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	mutations.Lock()
	defer mutations.Unlock()

	if err := h.store.SavePositions(r.Context(), positions); err != nil {
		slog.Error("failed to save positions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save positions")
		return
	}

	slog.Info("positions replaced", "count", len(positions))

	middleware.JSONResponse(w, http.StatusOK, positions)
}
