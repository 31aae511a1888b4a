// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

// One statement per entry; the sqlite driver runs a single statement per Exec.
// Types are chosen to work in both sqlite and postgres.
var schema = []string{
	`-- Positions
CREATE TABLE IF NOT EXISTS election_position (
    position_key TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    display_order INTEGER NOT NULL,
    max_votes_per_ballot INTEGER NOT NULL CHECK (max_votes_per_ballot > 0),
    max_vacancies INTEGER NOT NULL CHECK (max_vacancies > 0)
)`,

	`-- Candidates
CREATE TABLE IF NOT EXISTS candidate (
    position_key TEXT NOT NULL REFERENCES election_position(position_key) ON DELETE CASCADE,
    person_key TEXT NOT NULL,
    name TEXT NOT NULL,
    display_order INTEGER NOT NULL,
    PRIMARY KEY (position_key, person_key)
)`,

	`CREATE INDEX IF NOT EXISTS idx_candidate_position_key ON candidate(position_key)`,

	`-- Ballots
CREATE TABLE IF NOT EXISTS ballot (
    ballot_index INTEGER PRIMARY KEY CHECK (ballot_index >= 0)
)`,

	`-- Votes, in the order they were checked
CREATE TABLE IF NOT EXISTS ballot_vote (
    ballot_index INTEGER NOT NULL REFERENCES ballot(ballot_index) ON DELETE CASCADE,
    seq INTEGER NOT NULL,
    position_key TEXT NOT NULL,
    person_key TEXT NOT NULL,
    PRIMARY KEY (ballot_index, seq)
)`,

	`CREATE INDEX IF NOT EXISTS idx_ballot_vote_position_key ON ballot_vote(position_key)`,

	`-- Settings (single row)
CREATE TABLE IF NOT EXISTS settings (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    electoral_divisor_variable DOUBLE PRECISION NOT NULL,
    total_allowed_voters INTEGER NOT NULL CHECK (total_allowed_voters >= 0),
    sort_results_by_vote_count BOOLEAN NOT NULL
)`,

	`-- Result Snapshots
CREATE TABLE IF NOT EXISTS result_snapshot (
    id TEXT PRIMARY KEY,
    computed_at TIMESTAMP NOT NULL,
    inputs_hash TEXT NOT NULL,
    payload TEXT NOT NULL
)`,

	`CREATE INDEX IF NOT EXISTS idx_result_snapshot_computed_at ON result_snapshot(computed_at)`,
}
