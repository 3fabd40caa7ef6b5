package email

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInviteMessage(t *testing.T) {
	msg, err := InviteMessage("p@example.com", "Sam <script>", "https://partner.golumino.com?id=abc")
	require.NoError(t, err)

	assert.Equal(t, []string{"p@example.com"}, msg.To)
	assert.Equal(t, InviteSubject, msg.Subject)
	assert.Contains(t, msg.HTML, `href="https://partner.golumino.com?id=abc"`)
	assert.Contains(t, msg.HTML, "Sam &lt;script&gt;")
	assert.NotContains(t, msg.HTML, "<script>")
}

func TestInviteMessageWithoutAgent(t *testing.T) {
	msg, err := InviteMessage("p@example.com", "", "https://x?id=1")
	require.NoError(t, err)
	assert.Contains(t, msg.HTML, "personally invited to join")
}

func TestConfirmationMessage(t *testing.T) {
	msg, err := ConfirmationMessage([]string{"apps@golumino.com", "p@example.com"}, "Jane Doe")
	require.NoError(t, err)
	assert.Equal(t, "Lumino Partner Application - Jane Doe", msg.Subject)
	assert.Contains(t, msg.HTML, "Thank you for your application, Jane Doe!")
}

func TestBuildMIME(t *testing.T) {
	raw := string(buildMIME("Lumino <no-reply@golumino.com>", Message{
		To:      []string{"a@example.com", "b@example.com"},
		Subject: "Héllo",
		HTML:    "<p>hi</p>",
	}))
	assert.True(t, strings.HasPrefix(raw, "From: Lumino <no-reply@golumino.com>\r\n"))
	assert.Contains(t, raw, "To: a@example.com, b@example.com\r\n")
	assert.Contains(t, raw, "Subject: =?utf-8?q?")
	assert.True(t, strings.HasSuffix(raw, "\r\n\r\n<p>hi</p>"))
}

func TestEnvelopeAddress(t *testing.T) {
	assert.Equal(t, "no-reply@golumino.com", envelopeAddress("Lumino <no-reply@golumino.com>"))
	assert.Equal(t, "plain@golumino.com", envelopeAddress(" plain@golumino.com "))
}

func TestLogSender(t *testing.T) {
	s := &LogSender{Fail: func(to string) bool { return to == "bad@example.com" }}

	require.NoError(t, s.Send(context.Background(), Message{To: []string{"ok@example.com"}}))
	assert.Error(t, s.Send(context.Background(), Message{To: []string{"bad@example.com"}}))
	assert.Len(t, s.Messages(), 1)
}

func TestSMTPSenderRequiresRecipients(t *testing.T) {
	s := NewSMTPSender("localhost", 2525, "", "", "x@example.com")
	assert.Error(t, s.Send(context.Background(), Message{}))
}
