// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/vote-counter/archive"
	"github.com/danielhkuo/vote-counter/db"
	"github.com/danielhkuo/vote-counter/importer"
	"github.com/danielhkuo/vote-counter/middleware"
	"github.com/danielhkuo/vote-counter/models"
	"github.com/danielhkuo/vote-counter/tally"
)

// TransferHandler moves positions and ballots in and out as JSON files
type TransferHandler struct {
	store    db.Store
	archiver archive.Archiver // nil when no sink is configured
	now      func() time.Time
}

func NewTransferHandler(store db.Store, archiver archive.Archiver) *TransferHandler {
	return &TransferHandler{store: store, archiver: archiver, now: time.Now}
}

// ExportPositions handles GET /export/positions
func (h *TransferHandler) ExportPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.store.LoadPositions(r.Context())
	if err != nil {
		slog.Error("failed to load positions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	h.download(w, importer.KindPositions, positions)
}

// ExportBallots handles GET /export/ballots
func (h *TransferHandler) ExportBallots(w http.ResponseWriter, r *http.Request) {
	ballots, err := h.store.LoadBallots(r.Context())
	if err != nil {
		slog.Error("failed to load ballots", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	h.download(w, importer.KindBallots, ballots)
}

func (h *TransferHandler) download(w http.ResponseWriter, kind string, v any) {
	data, err := encodeExport(v)
	if err != nil {
		slog.Error("failed to encode export", "kind", kind, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to export")
		return
	}

	name := importer.ExportFileName(kind, h.now())
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// ImportPositions handles POST /import/positions (operator key required).
// Accepts the current format or the legacy one with "max".
func (h *TransferHandler) ImportPositions(w http.ResponseWriter, r *http.Request) {
	data, ok := readUpload(w, r)
	if !ok {
		return
	}

	positions, err := importer.ParsePositions(data, h.now())
	if err != nil {
		rejectImport(w, importer.KindPositions, err)
		return
	}

	mutations.Lock()
	defer mutations.Unlock()

	if err := h.store.SavePositions(r.Context(), positions); err != nil {
		slog.Error("failed to save imported positions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save positions")
		return
	}

	slog.Info("positions imported", "count", len(positions))

	middleware.JSONResponse(w, http.StatusOK, models.ReplaceResponse{
		Count:   len(positions),
		Message: fmt.Sprintf("Imported %d positions", len(positions)),
	})
}

// ImportBallots handles POST /import/ballots (operator key required).
// The file replaces every ballot; an empty array leaves one empty ballot.
func (h *TransferHandler) ImportBallots(w http.ResponseWriter, r *http.Request) {
	data, ok := readUpload(w, r)
	if !ok {
		return
	}

	ballots, err := importer.ParseBallots(data)
	if err != nil {
		rejectImport(w, importer.KindBallots, err)
		return
	}
	if len(ballots) == 0 {
		ballots = tally.ResetBallots()
	}

	mutations.Lock()
	defer mutations.Unlock()

	if err := h.store.ReplaceBallots(r.Context(), ballots); err != nil {
		slog.Error("failed to save imported ballots", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save ballots")
		return
	}

	slog.Info("ballots imported", "count", len(ballots))

	middleware.JSONResponse(w, http.StatusOK, models.ReplaceResponse{
		Count:   len(ballots),
		Message: fmt.Sprintf("Imported %d ballots", len(ballots)),
	})
}

// Archive handles POST /archive: both exports are written to the
// configured sink side by side
func (h *TransferHandler) Archive(w http.ResponseWriter, r *http.Request) {
	if h.archiver == nil {
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "No archive configured")
		return
	}

	ctx := r.Context()
	e, err := loadElection(ctx, h.store)
	if err != nil {
		slog.Error("failed to load election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	now := h.now()
	exports := []struct {
		kind string
		v    any
	}{
		{importer.KindPositions, e.positions},
		{importer.KindBallots, e.ballots},
	}
	objects := make([]string, len(exports))

	g, gctx := errgroup.WithContext(ctx)
	for i, export := range exports {
		objects[i] = importer.ExportFileName(export.kind, now)
		g.Go(func() error {
			return h.put(gctx, objects[i], export.v)
		})
	}
	if err := g.Wait(); err != nil {
		slog.Error("failed to archive exports", "error", err)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Failed to archive exports")
		return
	}

	slog.Info("exports archived", "objects", objects)

	middleware.JSONResponse(w, http.StatusOK, models.ArchiveResponse{Objects: objects})
}

func (h *TransferHandler) put(ctx context.Context, name string, v any) error {
	data, err := encodeExport(v)
	if err != nil {
		return err
	}
	return h.archiver.Put(ctx, name, data)
}

func encodeExport(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}
	return data, nil
}

// readUpload reads the request body, answering 400/413 itself on failure
func readUpload(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	defer r.Body.Close()
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge, "File too large")
			return nil, false
		}
		middleware.ErrorResponse(w, http.StatusBadRequest, "Failed to read upload")
		return nil, false
	}
	return data, true
}

func rejectImport(w http.ResponseWriter, kind string, err error) {
	var verr *importer.ValidationError
	if errors.As(err, &verr) {
		slog.Warn("import rejected", "kind", kind, "reason", verr.Reason)
		middleware.ErrorResponse(w, http.StatusBadRequest, verr.Reason)
		return
	}
	slog.Error("import failed", "kind", kind, "error", err)
	middleware.ErrorResponse(w, http.StatusInternalServerError, "Import failed")
}
