// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db persists positions, ballots, settings and result snapshots.

# Stores

Store is the load/save interface the handlers use. Two implementations:

  - SQLStore: database/sql over modernc sqlite (default) or lib/pq postgres
  - BoltStore: a single bbolt file

Open picks one by database type:

	store, err := db.Open(ctx, "sqlite", "vote-counter.db")
	store, err := db.Open(ctx, "postgres", "postgres://...")
	store, err := db.Open(ctx, "bolt", "vote-counter.bolt")

Stores hold plain values. Counting happens in package tally over whatever
LoadBallots returned.

# Schema Creation

OpenSQL runs CreateSchema, which is safe to call multiple times - uses IF
NOT EXISTS for all tables and indexes.

# Tables

  - election_position: positions in display order
  - candidate: candidates per position in display order
  - ballot: one row per ballot index
  - ballot_vote: marks per ballot in the order they were checked
  - settings: single row of tunables
  - result_snapshot: persisted result summaries (JSON payload)

# Relationships

	election_position 1──* candidate
	ballot 1──* ballot_vote

# First Start

Seed fills an empty store with the default positions and ballot 0.
*/
package db
