// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/vote-counter/archive"
	"github.com/danielhkuo/vote-counter/cliparse"
	"github.com/danielhkuo/vote-counter/db"
	"github.com/danielhkuo/vote-counter/middleware"
	"github.com/danielhkuo/vote-counter/router"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open the store (creates tables)
	store, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database open failed", "type", cfg.DatabaseType, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	seeded, err := db.Seed(ctx, store)
	if err != nil {
		slog.Error("seeding failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "type", cfg.DatabaseType, "seeded", seeded)

	archiver, err := openArchiver(ctx, cfg)
	if err != nil {
		slog.Error("archive setup failed", "error", err)
		os.Exit(1)
	}

	// Create server
	server := http.Server{
		Handler: middleware.CORS(router.NewRouter(store, cfg, archiver)),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Listening", "port", cfg.Port)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		// Wait for Ctrl-C or a failed listener
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("Server closed", "error", err)
		os.Exit(1)
	}
	slog.Info("Server closed")
}

// openArchiver picks the export sink: a bucket wins over a directory, and
// neither leaves archiving disabled
func openArchiver(ctx context.Context, cfg cliparse.Config) (archive.Archiver, error) {
	switch {
	case cfg.ArchiveBucket != "":
		s3, err := archive.NewS3Archiver(ctx, cfg.ArchiveBucket, "")
		if err != nil {
			return nil, err
		}
		slog.Info("Archiving to bucket", "bucket", s3.Bucket())
		return s3, nil
	case cfg.ArchiveDir != "":
		dir, err := archive.NewDirArchiver(cfg.ArchiveDir)
		if err != nil {
			return nil, err
		}
		slog.Info("Archiving to directory", "dir", cfg.ArchiveDir)
		return dir, nil
	default:
		return nil, nil
	}
}
