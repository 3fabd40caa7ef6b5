// Command fix-schedule-a rewrites every custom Schedule A stored as an escaped
// JSON string as the object it encodes. Rows already stored as objects are
// left alone, so running it again is harmless.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/01moynul/lumino-partner-portal/internal/config"
	"github.com/01moynul/lumino-partner-portal/internal/database"
	"github.com/01moynul/lumino-partner-portal/internal/logger"
	"github.com/01moynul/lumino-partner-portal/internal/maintenance"
	"github.com/01moynul/lumino-partner-portal/internal/store"
	"github.com/joho/godotenv"
)

// errRowsFailed makes the exit status non-zero when some rows could not be repaired.
var errRowsFailed = errors.New("some schedules could not be fixed")

func main() {
	// 0. --- Load Environment Variables (.env) ---
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err == nil {
		err = cfg.ValidateDatabase()
	}
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if _, err := logger.Init(logger.Config{Level: cfg.LogLevel, Format: "text", FilePath: cfg.LogFile}); err != nil {
		slog.Error("failed to initialise logger", "error", err)
		os.Exit(1)
	}

	// 1. --- Database Connection ---
	ctx := context.Background()
	db, err := database.OpenDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// 2. --- Fix Every Row ---
	done := logger.Duration(ctx, "schedule fix finished")
	err = run(ctx, &store.ApplicationStore{DB: db}, os.Stdout)
	done()
	if err != nil {
		slog.Error("schedule fix failed", "error", err)
		db.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, repo maintenance.Repository, out io.Writer) error {
	summary, err := maintenance.Fix(ctx, repo, out)
	if err != nil {
		return fmt.Errorf("failed to fix schedules: %w", err)
	}
	if _, err := summary.WriteTo(out); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	if summary.Errors > 0 {
		return fmt.Errorf("%w: %d of %d", errRowsFailed, summary.Errors, summary.Total)
	}
	return nil
}
