// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package archive copies export documents to a sink outside the database.

Two sinks implement Archiver:

	dir, err := archive.NewDirArchiver("/var/backups/vote-counter")
	bucket, err := archive.NewS3Archiver(ctx, "church-elections", "2025")

Object names are flat file names such as
vote-counter-ballots-2025-03-01T19:04:05Z.json; names containing a path
separator are rejected.

The S3 sink reads credentials the usual AWS way (AWS_ACCESS_KEY_ID and
friends, or the shared config files) and stores objects as
application/json.
*/
package archive
