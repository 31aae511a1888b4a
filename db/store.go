// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/danielhkuo/vote-counter/models"
	"github.com/danielhkuo/vote-counter/tally"
)

// Database types
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
	TypeBolt     = "bolt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrUnknownDatabase = errors.New("unknown database type")
)

// Store loads and saves the election state. Callers read a snapshot, run
// the tally over it and write back whole values; a Store never interprets
// votes.
type Store interface {
	LoadPositions(ctx context.Context) ([]models.Position, error)
	// SavePositions replaces every position, keeping the given order
	SavePositions(ctx context.Context, positions []models.Position) error

	// LoadBallots returns all ballots ordered by index
	LoadBallots(ctx context.Context) ([]models.Ballot, error)
	// SaveBallot inserts or replaces one ballot with its votes
	SaveBallot(ctx context.Context, ballot models.Ballot) error
	ReplaceBallots(ctx context.Context, ballots []models.Ballot) error

	// LoadSettings returns the defaults until settings are first saved
	LoadSettings(ctx context.Context) (models.Settings, error)
	SaveSettings(ctx context.Context, settings models.Settings) error

	SaveSnapshot(ctx context.Context, snapshot models.ResultSnapshot) error
	LoadSnapshot(ctx context.Context, id string) (models.ResultSnapshot, error)
	LatestSnapshot(ctx context.Context) (models.ResultSnapshot, error)

	Close() error
}

// Open connects to the store of the given type. url is a driver DSN for
// sqlite and postgres, and a file path for bolt.
func Open(ctx context.Context, dbType, url string) (Store, error) {
	switch dbType {
	case TypeSQLite, TypePostgres:
		store, err := OpenSQL(ctx, dbType, url)
		if err != nil {
			return nil, err
		}
		return store, nil
	case TypeBolt:
		store, err := OpenBolt(url)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDatabase, dbType)
	}
}

// Seed writes the default positions and an empty first ballot into a store
// that holds no positions yet. It reports whether anything was written.
func Seed(ctx context.Context, store Store) (bool, error) {
	positions, err := store.LoadPositions(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load positions: %w", err)
	}
	if len(positions) > 0 {
		return false, nil
	}

	if err := store.SavePositions(ctx, models.DefaultPositions()); err != nil {
		return false, fmt.Errorf("failed to seed positions: %w", err)
	}

	ballots, err := store.LoadBallots(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load ballots: %w", err)
	}
	if len(ballots) == 0 {
		if err := store.ReplaceBallots(ctx, tally.ResetBallots()); err != nil {
			return false, fmt.Errorf("failed to seed ballots: %w", err)
		}
	}
	return true, nil
}
