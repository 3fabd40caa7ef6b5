package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every setting the API and the maintenance tools read from the environment.
type Config struct {
	Port string

	DatabaseDSN string

	JWTSecret string
	JWTTTL    time.Duration

	// BaseURL is the public URL of this API, used for upload links.
	BaseURL string
	// InviteBaseURL is the partner wizard URL an invite id is appended to.
	InviteBaseURL string
	CORSOrigin    string
	UploadDir     string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string
	NotifyEmails []string

	SubmitWebhookURL string
	DeleteWebhookURL string
	HTTPTimeout      time.Duration

	CEOSignatureURL string
	// FetchAllowedHosts are extra hosts the download proxy and PDF image
	// loader may reach besides BaseURL and CEOSignatureURL.
	FetchAllowedHosts []string

	AdminEmail    string
	AdminPassword string

	LogLevel  string
	LogFormat string
	LogFile   string
}

// Load reads the configuration from environment variables, applying defaults
// and logging a warning for optional settings that are absent.
func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		DatabaseDSN:       os.Getenv("DB_DSN_PRIMARY"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		BaseURL:           strings.TrimRight(getEnv("BASE_URL", "http://localhost:8080"), "/"),
		InviteBaseURL:     strings.TrimRight(getEnv("INVITE_BASE_URL", "https://partner.golumino.com"), "/"),
		CORSOrigin:        getEnv("CORS_ORIGIN", "http://localhost:3000"),
		UploadDir:         getEnv("UPLOAD_DIR", "./uploads"),
		SMTPHost:          os.Getenv("SMTP_HOST"),
		SMTPUser:          os.Getenv("SMTP_USER"),
		SMTPPassword:      os.Getenv("SMTP_PASS"),
		SMTPFrom:          getEnv("SMTP_FROM", "Lumino Technologies <noreply@golumino.com>"),
		NotifyEmails:      splitList(getEnv("NOTIFY_EMAILS", "apps@golumino.com,zachry@golumino.com")),
		SubmitWebhookURL:  os.Getenv("SUBMIT_WEBHOOK_URL"),
		DeleteWebhookURL:  os.Getenv("DELETE_WEBHOOK_URL"),
		CEOSignatureURL:   os.Getenv("CEO_SIGNATURE_URL"),
		FetchAllowedHosts: splitList(os.Getenv("FETCH_ALLOWED_HOSTS")),
		AdminEmail:        os.Getenv("ADMIN_EMAIL"),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "json"),
		LogFile:           os.Getenv("LOG_FILE"),
	}

	var err error
	if cfg.SMTPPort, err = getInt("SMTP_PORT", 465); err != nil {
		return nil, err
	}
	ttlHours, err := getInt("JWT_TTL_HOURS", 72)
	if err != nil {
		return nil, err
	}
	cfg.JWTTTL = time.Duration(ttlHours) * time.Hour

	timeoutSecs, err := getInt("HTTP_TIMEOUT_SECONDS", 10)
	if err != nil {
		return nil, err
	}
	cfg.HTTPTimeout = time.Duration(timeoutSecs) * time.Second

	if cfg.SMTPHost == "" {
		slog.Warn("SMTP_HOST is not set, emails will only be logged")
	}
	if cfg.SubmitWebhookURL == "" {
		slog.Warn("SUBMIT_WEBHOOK_URL is not set, submission webhooks are disabled")
	}
	if cfg.CEOSignatureURL == "" {
		slog.Warn("CEO_SIGNATURE_URL is not set, agreement PDFs will carry no company signature image")
	}

	return cfg, nil
}

// Validate reports the required settings that are missing.
func (c *Config) Validate() error {
	var missing []string
	if c.DatabaseDSN == "" {
		missing = append(missing, "DB_DSN_PRIMARY")
	}
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

// AllowedFetchHosts lists every host the server may download from: its own
// upload URL, the company signature image and FETCH_ALLOWED_HOSTS.
func (c *Config) AllowedFetchHosts() []string {
	hosts := []string{c.BaseURL}
	if c.CEOSignatureURL != "" {
		hosts = append(hosts, c.CEOSignatureURL)
	}
	return append(hosts, c.FetchAllowedHosts...)
}

// ValidateDatabase is the subset of Validate the maintenance tools need.
func (c *Config) ValidateDatabase() error {
	if c.DatabaseDSN == "" {
		return errors.New("missing required environment variable: DB_DSN_PRIMARY")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
