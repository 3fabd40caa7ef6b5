package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/01moynul/lumino-partner-portal/internal/email"
	"github.com/01moynul/lumino-partner-portal/internal/fetch"
	"github.com/01moynul/lumino-partner-portal/internal/invite"
	"github.com/01moynul/lumino-partner-portal/internal/models"
	"github.com/01moynul/lumino-partner-portal/internal/storage"
	"github.com/01moynul/lumino-partner-portal/internal/webhook"
	"github.com/gin-gonic/gin"
)

// ApplicationRepository persists partner applications.
type ApplicationRepository interface {
	Create(ctx context.Context, app *models.Application) error
	Get(ctx context.Context, id string) (*models.Application, error)
	List(ctx context.Context, limit, offset int) ([]models.Application, error)
	Update(ctx context.Context, app *models.Application) error
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
}

// ScheduleRepository persists fee schedule versions.
type ScheduleRepository interface {
	CreateActive(ctx context.Context, v *models.FeeScheduleVersion) error
	History(ctx context.Context, applicationID string) ([]models.FeeScheduleVersion, error)
}

// StaffRepository looks up console accounts.
type StaffRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.StaffUser, error)
}

// TokenIssuer signs staff session tokens.
type TokenIssuer interface {
	GenerateToken(staffID int64, email string) (string, error)
}

// Inviter creates and sends invitations.
type Inviter interface {
	Invite(ctx context.Context, addr string, req invite.Request) (invite.Result, error)
	InviteMany(ctx context.Context, addrs []string, req invite.Request) []invite.Result
	Resend(ctx context.Context, addr, inviteID, agent string) error
	Link(id string) string
}

// Notifier delivers best-effort webhooks.
type Notifier interface {
	ApplicationSubmitted(ctx context.Context, s webhook.Submission) error
	ApplicationDeleted(ctx context.Context, d webhook.Deletion) error
}

// Fetcher downloads remote files and signature images.
type Fetcher interface {
	Fetch(ctx context.Context, src string) (*fetch.File, error)
	Image(ctx context.Context, src string) ([]byte, error)
}

// Handlers holds all dependencies for our handlers.
type Handlers struct {
	Apps      ApplicationRepository
	Schedules ScheduleRepository
	Staff     StaffRepository
	Tokens    TokenIssuer
	Invites   Inviter
	Mail      email.Sender
	Notify    Notifier
	Files     storage.Store
	Fetcher   Fetcher

	// NotifyEmails receive a copy of every submission confirmation.
	NotifyEmails    []string
	CEOSignatureURL string
	Now             func() time.Time
}

func (h *Handlers) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// respondError logs err and writes the standard failure body.
func respondError(c *gin.Context, status int, err error, message string) {
	logFailure(c, status, err, message)
	c.JSON(status, failure(message))
}

// failure is the standard failure body. Callers may add keys to it.
func failure(message string) gin.H {
	return gin.H{"success": false, "error": message, "message": message}
}

func logFailure(c *gin.Context, status int, err error, message string) {
	attrs := []any{"method", c.Request.Method, "path", c.FullPath(), "status", status}
	if err != nil {
		attrs = append(attrs, "error", err)
	}
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), message, attrs...)
	} else {
		slog.WarnContext(c.Request.Context(), message, attrs...)
	}
}

// logWarn records a failed best-effort side effect.
func logWarn(c *gin.Context, msg string, err error, attrs ...any) {
	slog.WarnContext(c.Request.Context(), msg, append(attrs, "error", err)...)
}

// nullableJSON keeps absent overrides as JSON null in responses.
func nullableJSON(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("null")
	}
	return raw
}
