// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the vote counter API.

# Handler Types

Each handler is a struct holding the store:

  - PositionHandler: The positions being elected
  - BallotHandler: Ballot entry and navigation
  - SettingsHandler: Divisor coefficient, voter count and sort order
  - ResultsHandler: Results, the audit sheet and snapshots
  - TransferHandler: JSON export and import, archiving

Handlers are created via constructor functions that accept a db.Store:

	ballotHandler := handlers.NewBallotHandler(store)

# Ballot Entry

Ballots are entered one at a time, in order:

	PUT  /ballots/{index}/votes    → SetVote (check or uncheck one candidate)
	POST /ballots/{index}/next     → NextBallot (creates it if needed)
	GET  /ballots/{index}/previous → PreviousBallot
	DELETE /ballots/{index}        → RemoveBallot (renumbers the rest)
	DELETE /ballots                → ResetBallots

Checking a candidate on a ballot that already holds the position's
maximum is refused with 409. Checking "invalid" replaces every mark for
the position.

All writes go through one package-level mutex, so concurrent clients
never lose each other's marks.

# Results

	GET  /results                 → GetResults (recomputed on every call)
	GET  /results/audit           → GetAudit (plain text)
	POST /results/snapshot        → CreateSnapshot

Destructive and snapshot operations require the X-Admin-Key header.

# Transfer

Exports are served as attachments named after their kind and time.
Imports validate the whole file before anything is stored, and accept
the legacy position format with a single "max" cap:

	GET  /export/ballots  → ExportBallots
	POST /import/ballots  → ImportBallots
	POST /archive         → Archive (both exports to the configured sink)
*/
package handlers
