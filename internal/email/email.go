// Package email sends the portal's transactional mail.
package email

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Message is one HTML email.
type Message struct {
	To      []string
	Subject string
	HTML    string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender delivers mail through an authenticated SMTP server. Port 465
// uses implicit TLS; any other port upgrades with STARTTLS when offered.
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     string
	timeout  time.Duration
}

func NewSMTPSender(host string, port int, username, password, from string) *SMTPSender {
	return &SMTPSender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		timeout:  15 * time.Second,
	}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return errors.New("email: no recipients")
	}

	addr := net.JoinHostPort(s.host, strconv.Itoa(s.port))
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	// 1. --- Connect ---
	var (
		conn net.Conn
		err  error
	)
	if s.port == 465 {
		d := &tls.Dialer{Config: &tls.Config{ServerName: s.host}}
		conn, err = d.DialContext(ctx, "tcp", addr)
	} else {
		var d net.Dialer
		conn, err = d.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return fmt.Errorf("email: failed to connect to %s: %w", addr, err)
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		return fmt.Errorf("email: failed to start session: %w", err)
	}
	defer client.Quit()

	if s.port != 465 {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(&tls.Config{ServerName: s.host}); err != nil {
				return fmt.Errorf("email: STARTTLS failed: %w", err)
			}
		}
	}

	// 2. --- Auth ---
	if s.username != "" {
		if err := client.Auth(smtp.PlainAuth("", s.username, s.password, s.host)); err != nil {
			return fmt.Errorf("email: auth failed: %w", err)
		}
	}

	// 3. --- Envelope ---
	if err := client.Mail(envelopeAddress(s.from)); err != nil {
		return fmt.Errorf("email: MAIL FROM rejected: %w", err)
	}
	for _, to := range msg.To {
		if err := client.Rcpt(to); err != nil {
			return fmt.Errorf("email: RCPT TO %s rejected: %w", to, err)
		}
	}

	// 4. --- Body ---
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("email: DATA failed: %w", err)
	}
	if _, err := w.Write(buildMIME(s.from, msg)); err != nil {
		return fmt.Errorf("email: failed to write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("email: failed to finish body: %w", err)
	}

	slog.InfoContext(ctx, "email sent", "to", msg.To, "subject", msg.Subject)
	return nil
}

func buildMIME(from string, msg Message) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + strings.Join(msg.To, ", ") + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", msg.Subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)
	return []byte(b.String())
}

// envelopeAddress extracts the bare address from "Name <addr>".
func envelopeAddress(from string) string {
	if i := strings.LastIndex(from, "<"); i >= 0 {
		if j := strings.LastIndex(from, ">"); j > i {
			return from[i+1 : j]
		}
	}
	return strings.TrimSpace(from)
}

// LogSender only logs messages. It is used when no SMTP server is configured
// and in tests, where Sent records what would have gone out.
type LogSender struct {
	mu   sync.Mutex
	Sent []Message
	// Fail, when set, makes Send return an error for matching recipients.
	Fail func(to string) bool
}

func (l *LogSender) Send(ctx context.Context, msg Message) error {
	if l.Fail != nil {
		for _, to := range msg.To {
			if l.Fail(to) {
				return fmt.Errorf("email: delivery to %s failed", to)
			}
		}
	}

	l.mu.Lock()
	l.Sent = append(l.Sent, msg)
	l.mu.Unlock()

	slog.InfoContext(ctx, "email (not sent, no SMTP configured)", "to", msg.To, "subject", msg.Subject)
	return nil
}

// Messages returns a copy of everything sent so far.
func (l *LogSender) Messages() []Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Message, len(l.Sent))
	copy(out, l.Sent)
	return out
}
