// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the vote counter API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(store, cfg, archiver)

# Endpoints

Health:

	GET /health

Positions:

	GET /positions - Positions with candidates
	PUT /positions - Replace all positions (X-Admin-Key)

Ballots:

	GET    /ballots                  - All ballots
	GET    /ballots/{index}          - One ballot
	PUT    /ballots/{index}/votes    - Check or uncheck a person
	POST   /ballots/{index}/next     - Next ballot, created when missing
	GET    /ballots/{index}/previous - Previous ballot
	DELETE /ballots/{index}          - Remove and renumber (X-Admin-Key)
	DELETE /ballots                  - Back to one empty ballot (X-Admin-Key)

Settings:

	GET /settings
	PUT /settings

Results:

	GET  /results                  - Full tally
	GET  /results/audit            - Plain-text audit sheet
	POST /results/snapshot         - Persist the tally (X-Admin-Key)
	GET  /results/snapshot/latest  - Most recent snapshot
	GET  /results/snapshot/{id}    - One snapshot

Import and export:

	GET  /export/positions  - Download positions
	GET  /export/ballots    - Download ballots
	POST /import/positions  - Upload positions, legacy format accepted (X-Admin-Key)
	POST /import/ballots    - Upload ballots (X-Admin-Key)
	POST /archive           - Copy both exports to the archive sink (X-Admin-Key)
*/
package router
