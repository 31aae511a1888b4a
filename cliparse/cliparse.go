// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	DefaultPort         = 3318
	DefaultDatabaseType = "sqlite"
	DefaultDatabaseURL  = "vote-counter.db"
	DefaultEnvFile      = ".env"
)

var (
	ErrInvalidPort         = errors.New("invalid PORT env variable")
	ErrUnknownDatabaseType = errors.New("unknown database type (use sqlite, postgres or bolt)")
	ErrMissingAdminSalt    = errors.New("ADMIN_KEY_SALT required")
)

type Config struct {
	Port          int
	DatabaseURL   string
	DatabaseType  string
	AdminKeySalt  string
	ArchiveDir    string
	ArchiveBucket string
	EnvFile       string
}

// ParseFlags reads flags, then the environment (after loading the env file),
// then defaults
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	flags := flag.NewFlagSet("vote-counter", flag.ContinueOnError)

	// Network and storage (can be CLI args or env)
	flags.IntVar(&cfg.Port, "p", 0, "Server port")
	flags.StringVar(&cfg.DatabaseURL, "d", "", "Database URL or bolt file path")
	flags.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite, postgres or bolt)")

	// Secrets (prefer env variables, but allow CLI for dev)
	flags.StringVar(&cfg.AdminKeySalt, "admin-key", "", "Admin key salt (prefer env)")

	// Archive sink; bucket wins when both are set
	flags.StringVar(&cfg.ArchiveDir, "archive-dir", "", "Directory to archive exports into")
	flags.StringVar(&cfg.ArchiveBucket, "archive-bucket", "", "S3 bucket to archive exports into")

	flags.StringVar(&cfg.EnvFile, "env-file", DefaultEnvFile, "File with KEY=value lines loaded into the environment")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	if err := loadEnvFile(cfg.EnvFile); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil || port <= 0 {
				return Config{}, ErrInvalidPort
			}
			cfg.Port = port
		} else {
			cfg.Port = DefaultPort
		}
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = DefaultDatabaseType
		}
	}
	switch cfg.DatabaseType {
	case "sqlite", "postgres", "bolt":
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownDatabaseType, cfg.DatabaseType)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
		if cfg.DatabaseURL == "" {
			cfg.DatabaseURL = DefaultDatabaseURL
		}
	}

	// Secrets - MUST be provided
	if cfg.AdminKeySalt == "" {
		cfg.AdminKeySalt = os.Getenv("ADMIN_KEY_SALT")
	}
	if cfg.AdminKeySalt == "" {
		return Config{}, ErrMissingAdminSalt
	}

	if cfg.ArchiveDir == "" {
		cfg.ArchiveDir = os.Getenv("ARCHIVE_DIR")
	}
	if cfg.ArchiveBucket == "" {
		cfg.ArchiveBucket = os.Getenv("ARCHIVE_BUCKET")
	}

	return cfg, nil
}

// loadEnvFile never overrides variables already set. A missing default
// file is fine; a missing file named on the command line is not.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) && path == DefaultEnvFile {
		return nil
	}
	return fmt.Errorf("failed to load env file %s: %w", path, err)
}
