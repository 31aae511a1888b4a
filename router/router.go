// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/vote-counter/archive"
	"github.com/danielhkuo/vote-counter/cliparse"
	"github.com/danielhkuo/vote-counter/db"
	"github.com/danielhkuo/vote-counter/handlers"
	"github.com/danielhkuo/vote-counter/middleware"
)

// NewRouter wires every endpoint. archiver may be nil, in which case
// POST /archive answers 503.
func NewRouter(store db.Store, cfg cliparse.Config, archiver archive.Archiver) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	positionHandler := handlers.NewPositionHandler(store)
	ballotHandler := handlers.NewBallotHandler(store)
	settingsHandler := handlers.NewSettingsHandler(store)
	resultsHandler := handlers.NewResultsHandler(store)
	transferHandler := handlers.NewTransferHandler(store, archiver)

	// operator wraps routes that need the X-Admin-Key header
	operator := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireAdminKey(cfg.AdminKeySalt, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Positions
	mux.HandleFunc("GET /positions", middleware.WithLogging(positionHandler.GetPositions))
	mux.HandleFunc("PUT /positions", operator(positionHandler.ReplacePositions))

	// Ballots (counting)
	mux.HandleFunc("GET /ballots", middleware.WithLogging(ballotHandler.ListBallots))
	mux.HandleFunc("GET /ballots/{index}", middleware.WithLogging(ballotHandler.GetBallot))
	mux.HandleFunc("PUT /ballots/{index}/votes", middleware.WithLogging(ballotHandler.SetVote))
	mux.HandleFunc("POST /ballots/{index}/next", middleware.WithLogging(ballotHandler.NextBallot))
	mux.HandleFunc("GET /ballots/{index}/previous", middleware.WithLogging(ballotHandler.PreviousBallot))
	mux.HandleFunc("DELETE /ballots/{index}", operator(ballotHandler.RemoveBallot))
	mux.HandleFunc("DELETE /ballots", operator(ballotHandler.ResetBallots))

	// Settings
	mux.HandleFunc("GET /settings", middleware.WithLogging(settingsHandler.GetSettings))
	mux.HandleFunc("PUT /settings", middleware.WithLogging(settingsHandler.PutSettings))

	// Results
	mux.HandleFunc("GET /results", middleware.WithLogging(resultsHandler.GetResults))
	mux.HandleFunc("GET /results/audit", middleware.WithLogging(resultsHandler.GetAudit))
	mux.HandleFunc("POST /results/snapshot", operator(resultsHandler.CreateSnapshot))
	mux.HandleFunc("GET /results/snapshot/latest", middleware.WithLogging(resultsHandler.GetLatestSnapshot))
	mux.HandleFunc("GET /results/snapshot/{id}", middleware.WithLogging(resultsHandler.GetSnapshot))

	// Import / export
	mux.HandleFunc("GET /export/positions", middleware.WithLogging(transferHandler.ExportPositions))
	mux.HandleFunc("GET /export/ballots", middleware.WithLogging(transferHandler.ExportBallots))
	mux.HandleFunc("POST /import/positions", operator(transferHandler.ImportPositions))
	mux.HandleFunc("POST /import/ballots", operator(transferHandler.ImportBallots))
	mux.HandleFunc("POST /archive", operator(transferHandler.Archive))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("vote-counter API v1"))
	})

	return mux
}
