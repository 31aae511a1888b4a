// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"math"
	"net/http"

	"github.com/danielhkuo/vote-counter/db"
	"github.com/danielhkuo/vote-counter/middleware"
)

type SettingsHandler struct {
	store db.Store
}

func NewSettingsHandler(store db.Store) *SettingsHandler {
	return &SettingsHandler{store: store}
}

// GetSettings handles GET /settings
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.store.LoadSettings(r.Context())
	if err != nil {
		slog.Error("failed to load settings", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, settings)
}

// PutSettings handles PUT /settings. Fields missing from the body keep
// their current value.
func (h *SettingsHandler) PutSettings(w http.ResponseWriter, r *http.Request) {
	mutations.Lock()
	defer mutations.Unlock()

	settings, err := h.store.LoadSettings(r.Context())
	if err != nil {
		slog.Error("failed to load settings", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := middleware.ParseJSONBody(r, &settings); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	coef := settings.ElectoralDivisorVariable
	if coef <= 0 || math.IsInf(coef, 0) || math.IsNaN(coef) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "electoralDivisorVariable must be positive")
		return
	}
	if settings.TotalAllowedVoters < 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "totalAllowedVoters must not be negative")
		return
	}

	if err := h.store.SaveSettings(r.Context(), settings); err != nil {
		slog.Error("failed to save settings", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save settings")
		return
	}

	slog.Info("settings saved",
		"electoral_divisor_variable", settings.ElectoralDivisorVariable,
		"total_allowed_voters", settings.TotalAllowedVoters,
		"sort_results_by_vote_count", settings.SortResultsByVoteCount,
	)

	middleware.JSONResponse(w, http.StatusOK, settings)
}
