package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/01moynul/lumino-partner-portal/internal/auth"
	"github.com/01moynul/lumino-partner-portal/internal/config"
	"github.com/01moynul/lumino-partner-portal/internal/database"
	"github.com/01moynul/lumino-partner-portal/internal/email"
	"github.com/01moynul/lumino-partner-portal/internal/fetch"
	"github.com/01moynul/lumino-partner-portal/internal/handlers"
	"github.com/01moynul/lumino-partner-portal/internal/invite"
	"github.com/01moynul/lumino-partner-portal/internal/logger"
	"github.com/01moynul/lumino-partner-portal/internal/routes"
	"github.com/01moynul/lumino-partner-portal/internal/storage"
	"github.com/01moynul/lumino-partner-portal/internal/store"
	"github.com/01moynul/lumino-partner-portal/internal/webhook"
	"github.com/joho/godotenv"
)

func main() {
	// 0. --- Load Environment Variables (.env) ---
	if err := godotenv.Load(); err != nil {
		slog.Warn("could not load .env file, relying on system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if _, err := logger.Init(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, FilePath: cfg.LogFile}); err != nil {
		slog.Error("failed to initialise logger", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. --- Database Connection ---
	db, err := database.OpenDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	apps := &store.ApplicationStore{DB: db}
	staff := &store.StaffStore{DB: db}
	if created, err := staff.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		slog.Error("failed to create admin account", "error", err)
		os.Exit(1)
	} else if created {
		slog.Info("created admin account", "email", cfg.AdminEmail)
	}

	// 2. --- Outbound Services ---
	var mail email.Sender = &email.LogSender{}
	if cfg.SMTPHost != "" {
		mail = email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom)
	}

	tokens, err := auth.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		slog.Error("failed to create token manager", "error", err)
		os.Exit(1)
	}

	// --- Application Setup ---
	app := &handlers.Handlers{
		Apps:            apps,
		Schedules:       &store.ScheduleVersionStore{DB: db},
		Staff:           staff,
		Tokens:          tokens,
		Invites:         invite.NewService(apps, mail, cfg.InviteBaseURL),
		Mail:            mail,
		Notify:          webhook.NewNotifier(cfg.SubmitWebhookURL, cfg.DeleteWebhookURL, cfg.HTTPTimeout),
		Files:           &storage.Local{Dir: cfg.UploadDir, BaseURL: cfg.BaseURL},
		Fetcher:         fetch.New(cfg.HTTPTimeout, cfg.AllowedFetchHosts()...),
		NotifyEmails:    cfg.NotifyEmails,
		CEOSignatureURL: cfg.CEOSignatureURL,
	}

	// --- Router Setup ---
	router := routes.SetupRouter(app, routes.Options{
		Tokens:     tokens,
		CORSOrigin: cfg.CORSOrigin,
		UploadDir:  cfg.UploadDir,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// --- Start Server ---
	go func() {
		slog.Info("starting Lumino partner portal API", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
