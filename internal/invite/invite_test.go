package invite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/01moynul/lumino-partner-portal/internal/agreement"
	"github.com/01moynul/lumino-partner-portal/internal/email"
	"github.com/01moynul/lumino-partner-portal/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	mu   sync.Mutex
	apps []*models.Application
	fail func(*models.Application) bool
}

func (m *memRepo) Create(_ context.Context, app *models.Application) error {
	if m.fail != nil && m.fail(app) {
		return errors.New("insert failed")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apps = append(m.apps, app)
	return nil
}

func newService(repo *memRepo, mail email.Sender) *Service {
	s := NewService(repo, mail, "https://partner.golumino.com/")
	var n int64
	s.NewID = func() string {
		return fmt.Sprintf("00000000-0000-0000-0000-%012d", atomic.AddInt64(&n, 1))
	}
	return s
}

func TestInvite(t *testing.T) {
	repo := &memRepo{}
	mail := &email.LogSender{}
	s := newService(repo, mail)

	double, err := json.Marshal(`{"visaMcFee":{"option1":"$0.02"}}`)
	require.NoError(t, err)

	res, err := s.Invite(context.Background(), "  partner@example.com ", Request{
		Agent:     "Smith",
		Overrides: agreement.Overrides{ScheduleA: double},
	})
	require.NoError(t, err)
	assert.Equal(t, StatusSent, res.Status)
	assert.Equal(t, "https://partner.golumino.com?id="+res.InviteID, res.Link)

	require.Len(t, repo.apps, 1)
	app := repo.apps[0]
	assert.Equal(t, models.StatusInvited, app.Status)
	assert.Equal(t, "partner@example.com", app.PartnerEmail)
	assert.Equal(t, "Smith", app.Agent)
	assert.JSONEq(t, `{"visaMcFee":{"option1":"$0.02"}}`, string(app.CustomScheduleA), "overrides are stored unwrapped")
	assert.Nil(t, app.CustomTerms)

	sent := mail.Messages()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].HTML, res.Link)
	assert.Contains(t, sent[0].HTML, "<strong>Smith</strong>")
}

func TestInviteRejectsBadEmail(t *testing.T) {
	repo := &memRepo{}
	s := newService(repo, &email.LogSender{})

	for _, addr := range []string{"", "nope", "a@b", strings.Repeat("a", 250) + "@example.com"} {
		res, err := s.Invite(context.Background(), addr, Request{})
		assert.ErrorIs(t, err, ErrInvalidEmail, addr)
		assert.Equal(t, StatusFailed, res.Status)
	}
	assert.Empty(t, repo.apps)
}

func TestInviteKeepsRowWhenEmailFails(t *testing.T) {
	repo := &memRepo{}
	s := newService(repo, &email.LogSender{Fail: func(string) bool { return true }})

	res, err := s.Invite(context.Background(), "p@example.com", Request{})
	require.Error(t, err)
	assert.Equal(t, StatusFailed, res.Status)
	assert.NotEmpty(t, res.InviteID)
	assert.Len(t, repo.apps, 1)
}

func TestInviteManyPartialFailure(t *testing.T) {
	repo := &memRepo{fail: func(a *models.Application) bool { return a.PartnerEmail == "dbfail@example.com" }}
	mail := &email.LogSender{Fail: func(to string) bool { return to == "mailfail@example.com" }}
	s := newService(repo, mail)
	s.Concurrency = 2

	addrs := []string{"a@example.com", "dbfail@example.com", "bad-address", "mailfail@example.com", "b@example.com", "A@example.com"}
	results := s.InviteMany(context.Background(), addrs, Request{Agent: "Smith"})

	require.Len(t, results, 5, "duplicates are dropped")
	assert.Equal(t, []string{"a@example.com", "dbfail@example.com", "bad-address", "mailfail@example.com", "b@example.com"},
		[]string{results[0].Email, results[1].Email, results[2].Email, results[3].Email, results[4].Email})

	assert.Equal(t, StatusSent, results[0].Status)
	assert.Equal(t, StatusFailed, results[1].Status)
	assert.Empty(t, results[1].InviteID)
	assert.Equal(t, StatusFailed, results[2].Status)
	assert.Equal(t, StatusFailed, results[3].Status)
	assert.NotEmpty(t, results[3].InviteID)
	assert.Equal(t, StatusSent, results[4].Status)

	sent, failed := Tally(results)
	assert.Equal(t, 2, sent)
	assert.Equal(t, 3, failed)
}

func TestResend(t *testing.T) {
	mail := &email.LogSender{}
	s := newService(&memRepo{}, mail)

	require.NoError(t, s.Resend(context.Background(), "p@example.com", "123e4567-e89b-12d3-a456-426614174000", ""))
	assert.ErrorIs(t, s.Resend(context.Background(), "p@example.com", "not-a-uuid", ""), ErrInvalidInviteID)
	assert.ErrorIs(t, s.Resend(context.Background(), "bad", "123e4567-e89b-12d3-a456-426614174000", ""), ErrInvalidEmail)
	assert.Len(t, mail.Messages(), 1)
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "abc", Sanitize("  abc "))
	assert.Len(t, []rune(Sanitize(strings.Repeat("é", 300))), 200)
}
