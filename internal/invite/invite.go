// Package invite creates invitation rows and emails partners their personal
// application link.
package invite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/01moynul/lumino-partner-portal/internal/agreement"
	"github.com/01moynul/lumino-partner-portal/internal/email"
	"github.com/01moynul/lumino-partner-portal/internal/jsonfix"
	"github.com/01moynul/lumino-partner-portal/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds simultaneous insert+send pairs in InviteMany.
const DefaultConcurrency = 5

const maxFieldLen = 200

// Result statuses.
const (
	StatusSent   = "sent"
	StatusFailed = "failed"
)

var (
	ErrInvalidEmail    = errors.New("please provide a valid email address")
	ErrInvalidInviteID = errors.New("invite ID format is invalid")
)

// Repository stores invitation rows.
type Repository interface {
	Create(ctx context.Context, app *models.Application) error
}

// Request carries what every invitation in a batch shares.
type Request struct {
	Agent     string
	Overrides agreement.Overrides
}

// Result is the outcome for one recipient.
type Result struct {
	Email    string `json:"email"`
	InviteID string `json:"inviteId,omitempty"`
	Link     string `json:"link,omitempty"`
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
}

// Service creates and sends invitations.
type Service struct {
	apps        Repository
	mail        email.Sender
	baseURL     string
	validate    *validator.Validate
	Concurrency int
	NewID       func() string
	Now         func() time.Time
}

func NewService(apps Repository, mail email.Sender, baseURL string) *Service {
	return &Service{
		apps:        apps,
		mail:        mail,
		baseURL:     strings.TrimRight(baseURL, "/"),
		validate:    validator.New(),
		Concurrency: DefaultConcurrency,
		NewID:       func() string { return uuid.NewString() },
		Now:         time.Now,
	}
}

// Link returns the wizard URL for an invite.
func (s *Service) Link(id string) string {
	return s.baseURL + "?id=" + id
}

// Sanitize trims s and cuts it to 200 characters.
func Sanitize(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= maxFieldLen {
		return s
	}
	return string([]rune(s)[:maxFieldLen])
}

// ValidateEmail checks an address the same way for single and bulk invites.
func (s *Service) ValidateEmail(addr string) error {
	if err := s.validate.Var(addr, "required,email,max=254"); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

// Invite stores a new invitation for addr and emails the link. When the
// email fails the row is kept and the error is returned with the result.
func (s *Service) Invite(ctx context.Context, addr string, req Request) (Result, error) {
	addr = Sanitize(addr)
	res := Result{Email: addr, Status: StatusFailed}

	// 1. --- Validate ---
	if err := s.ValidateEmail(addr); err != nil {
		res.Error = err.Error()
		return res, err
	}

	// 2. --- Create the Invite Row ---
	app := &models.Application{
		ID:                  s.NewID(),
		CreatedAt:           s.Now().UTC(),
		Status:              models.StatusInvited,
		Agent:               Sanitize(req.Agent),
		PartnerEmail:        addr,
		CustomScheduleA:     jsonfix.Normalize(req.Overrides.ScheduleA),
		CustomMessage:       jsonfix.Normalize(req.Overrides.Message),
		CustomCodeOfConduct: jsonfix.Normalize(req.Overrides.CodeOfConduct),
		CustomTerms:         jsonfix.Normalize(req.Overrides.Terms),
	}
	if err := s.apps.Create(ctx, app); err != nil {
		res.Error = "failed to create invite"
		return res, fmt.Errorf("failed to create invite for %s: %w", addr, err)
	}
	res.InviteID = app.ID
	res.Link = s.Link(app.ID)

	// 3. --- Send the Email ---
	if err := s.send(ctx, addr, app.Agent, res.Link); err != nil {
		res.Error = "failed to send email"
		return res, err
	}

	res.Status = StatusSent
	return res, nil
}

// Resend emails the link of an existing invite.
func (s *Service) Resend(ctx context.Context, addr, inviteID, agent string) error {
	addr = Sanitize(addr)
	if err := s.ValidateEmail(addr); err != nil {
		return err
	}
	if _, err := uuid.Parse(inviteID); err != nil {
		return ErrInvalidInviteID
	}
	return s.send(ctx, addr, Sanitize(agent), s.Link(inviteID))
}

func (s *Service) send(ctx context.Context, addr, agent, link string) error {
	msg, err := email.InviteMessage(addr, agent, link)
	if err != nil {
		return err
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send invite to %s: %w", addr, err)
	}
	return nil
}

// InviteMany invites every distinct address concurrently. Each recipient
// succeeds or fails on its own; results keep the input order.
func (s *Service) InviteMany(ctx context.Context, addrs []string, req Request) []Result {
	addrs = dedupe(addrs)
	results := make([]Result, len(addrs))

	limit := s.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	var g errgroup.Group
	g.SetLimit(limit)
	for i, addr := range addrs {
		g.Go(func() error {
			res, err := s.Invite(ctx, addr, req)
			if err != nil {
				slog.WarnContext(ctx, "invite failed", "email", addr, "invite_id", res.InviteID, "error", err)
			}
			results[i] = res
			return nil
		})
	}
	g.Wait()

	return results
}

// Tally counts sent and failed results.
func Tally(results []Result) (sent, failed int) {
	for _, r := range results {
		if r.Status == StatusSent {
			sent++
		} else {
			failed++
		}
	}
	return sent, failed
}

func dedupe(addrs []string) []string {
	seen := make(map[string]bool, len(addrs))
	out := make([]string, 0, len(addrs))
	for _, a := range addrs {
		a = strings.TrimSpace(a)
		key := strings.ToLower(a)
		if a == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, a)
	}
	return out
}
