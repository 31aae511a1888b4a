// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the vote counter API server.

The vote counter is used to hand-count paper ballots of a church office
election: operators enter each ballot's marks, and the server derives
the electoral divisor and who is elected.

# Starting the Server

With no configuration the server stores everything in vote-counter.db:

	ADMIN_KEY_SALT=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -admin-key "..."

Settings are also read from a .env file in the working directory.

# Configuration

Required settings:

  - ADMIN_KEY_SALT (-admin-key): Secret for the operator key HMAC

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite, postgres or bolt (default: sqlite)
  - DATABASE_URL (-d): File path or connection string
  - ARCHIVE_DIR (-archive-dir): Directory POST /archive writes to
  - ARCHIVE_BUCKET (-archive-bucket): S3 bucket POST /archive writes to

A bucket takes precedence over a directory.

# Architecture

  - tally: Vote counting, divisor and candidate status (no I/O)
  - importer: Validation of uploaded JSON files
  - handlers: HTTP request handlers
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, operator key, JSON helpers
  - models: Domain and request/response types
  - db: SQL and bbolt stores
  - archive: Directory and S3 export sinks
  - auth: Operator key and input fingerprints
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
