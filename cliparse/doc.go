// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseType: sqlite, postgres or bolt (default: sqlite)
  - DatabaseURL: DSN, or file path for sqlite and bolt (default: vote-counter.db)
  - AdminKeySalt: Secret for the operator key HMAC (required)
  - ArchiveDir: Directory that POST /archive writes exports into
  - ArchiveBucket: S3 bucket that POST /archive writes exports into
  - EnvFile: File loaded into the environment first (default: .env)

# CLI Flags

	-p               Server port
	-t               Database type
	-d               Database URL
	-admin-key       Admin key salt
	-archive-dir     Archive directory
	-archive-bucket  Archive S3 bucket
	-env-file        Env file

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	DATABASE_TYPE  → -t
	DATABASE_URL   → -d
	ADMIN_KEY_SALT → -admin-key
	ARCHIVE_DIR    → -archive-dir
	ARCHIVE_BUCKET → -archive-bucket

CLI flags take precedence over environment variables. The env file is read
with godotenv and never overrides a variable that is already set, so the
real environment beats the file.

# Validation

ParseFlags returns an error when:

  - PORT is not a positive integer
  - the database type is unknown
  - ADMIN_KEY_SALT is missing
  - an -env-file other than the default cannot be read
*/
package cliparse
