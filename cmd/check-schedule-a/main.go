// Command check-schedule-a reports which applications store their custom
// Schedule A as an escaped JSON string instead of an object. It changes nothing.
package main

import (
	"context"
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

	// 2. --- Report (read-only) ---
	done := logger.Duration(ctx, "schedule check finished")
	err = run(ctx, &store.ApplicationStore{DB: db}, os.Stdout)
	done()
	if err != nil {
		slog.Error("schedule check failed", "error", err)
		db.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, repo maintenance.Repository, out io.Writer) error {
	report, err := maintenance.Check(ctx, repo)
	if err != nil {
		return fmt.Errorf("failed to check schedules: %w", err)
	}
	if _, err := report.WriteTo(out); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
