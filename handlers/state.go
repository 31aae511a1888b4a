// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/danielhkuo/vote-counter/db"
	"github.com/danielhkuo/vote-counter/models"
)

// maxUploadBytes bounds import request bodies
const maxUploadBytes = 10 << 20

var errBadIndex = errors.New("ballot index must be a non-negative integer")

// mutations serializes load-modify-save cycles against the store. Ballot
// navigation and removal read the whole list, so two interleaved writers
// would otherwise lose each other's changes. Reads spanning more than one
// load (results, snapshots, archives) hold the read lock so they never see
// half of a replace.
var mutations sync.RWMutex

// election is one consistent read of everything the tally needs
type election struct {
	positions []models.Position
	ballots   []models.Ballot
	settings  models.Settings
}

// loadElection reads positions, ballots and settings under the read lock
func loadElection(ctx context.Context, store db.Store) (election, error) {
	mutations.RLock()
	defer mutations.RUnlock()

	var e election
	var err error

	if e.positions, err = store.LoadPositions(ctx); err != nil {
		return election{}, fmt.Errorf("failed to load positions: %w", err)
	}
	if e.ballots, err = store.LoadBallots(ctx); err != nil {
		return election{}, fmt.Errorf("failed to load ballots: %w", err)
	}
	if e.settings, err = store.LoadSettings(ctx); err != nil {
		return election{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return e, nil
}

// ballotIndex reads the {index} path value
func ballotIndex(r *http.Request) (int, error) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil || index < 0 {
		return 0, errBadIndex
	}
	return index, nil
}

func findPosition(positions []models.Position, key string) (models.Position, bool) {
	for _, p := range positions {
		if p.Key == key {
			return p, true
		}
	}
	return models.Position{}, false
}
