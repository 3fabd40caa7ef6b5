package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DSN_PRIMARY", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("NOTIFY_EMAILS", "")
	t.Setenv("JWT_TTL_HOURS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 72*time.Hour, cfg.JWTTTL)
	assert.Equal(t, []string{"apps@golumino.com", "zachry@golumino.com"}, cfg.NotifyEmails)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DSN_PRIMARY")
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DSN_PRIMARY", "user:pass@tcp(localhost:3306)/lumino")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("BASE_URL", "https://api.example.com/")
	t.Setenv("NOTIFY_EMAILS", " a@example.com , ,b@example.com")
	t.Setenv("SMTP_PORT", "587")

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "https://api.example.com", cfg.BaseURL)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.NotifyEmails)
	assert.Equal(t, 587, cfg.SMTPPort)
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	t.Setenv("SMTP_PORT", "not-a-port")
	_, err := Load()
	assert.Error(t, err)
}

func TestAllowedFetchHosts(t *testing.T) {
	t.Setenv("BASE_URL", "https://api.golumino.com")
	t.Setenv("CEO_SIGNATURE_URL", "https://cdn.golumino.com/ceo.png")
	t.Setenv("FETCH_ALLOWED_HOSTS", "files.golumino.com, ")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://api.golumino.com", "https://cdn.golumino.com/ceo.png", "files.golumino.com"}, cfg.AllowedFetchHosts())
}
