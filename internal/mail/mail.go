// Package mail sends notification emails through Resend.
package mail

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"

	"github.com/iliyamo/studio-site/internal/config"
)

var (
	// ErrNotConfigured is returned when no API key or recipient is set.
	ErrNotConfigured = errors.New("email service not configured")
	// ErrSend wraps transport failures and non-2xx provider responses.
	ErrSend = errors.New("failed to send email")
)

// Message is one outgoing email.
type Message struct {
	To      []string
	ReplyTo string
	Subject string
	HTML    string
	Text    string
}

// Client talks to Resend.  The zero value is unconfigured.
type Client struct {
	rs   *resend.Client
	from string
}

// New builds a Resend client.  cfg.BaseURL overrides the API host, which
// lets tests and self-hosted relays stand in for api.resend.com.
func New(cfg config.MailConfig) *Client {
	if cfg.APIKey == "" {
		return &Client{from: cfg.From}
	}
	rs := resend.NewCustomClient(&http.Client{Timeout: 10 * time.Second}, cfg.APIKey)
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		// request paths resolve relative to the base, so it must end in "/"
		if u, err := url.Parse(strings.TrimRight(base, "/") + "/"); err == nil {
			rs.BaseURL = u
		}
	}
	return &Client{rs: rs, from: cfg.From}
}

// Configured reports whether Send can reach the provider.
func (c *Client) Configured() bool { return c != nil && c.rs != nil }

// Send delivers m and returns the provider message id.
func (c *Client) Send(ctx context.Context, m Message) (string, error) {
	if !c.Configured() || len(m.To) == 0 {
		return "", ErrNotConfigured
	}
	from := c.from
	if from == "" {
		from = "onboarding@resend.dev"
	}
	sent, err := c.rs.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    from,
		To:      m.To,
		ReplyTo: m.ReplyTo,
		Subject: m.Subject,
		Html:    m.HTML,
		Text:    m.Text,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSend, err)
	}
	return sent.Id, nil
}

// Submission is a public form entry turned into an email.
type Submission struct {
	Kind    string // "pitch" or "contact"
	Name    string
	Email   string
	Message string
}

// Compose renders a submission as a notification message for to.
func Compose(s Submission, to string) Message {
	title := "New Contact Message"
	label := "Message"
	if s.Kind == "pitch" {
		title = "New Show Pitch"
		label = "Pitch"
	}
	esc := html.EscapeString
	body := fmt.Sprintf(`<h2>%s</h2>
<p><strong>Name:</strong> %s</p>
<p><strong>Email:</strong> %s</p>
<p><strong>%s:</strong></p>
<p style="white-space:pre-wrap">%s</p>`, title, esc(s.Name), esc(s.Email), label, esc(s.Message))
	text := fmt.Sprintf("%s\n\nName: %s\nEmail: %s\n\n%s:\n%s\n", title, s.Name, s.Email, label, s.Message)
	var rcpt []string
	if to != "" {
		rcpt = []string{to}
	}
	return Message{
		To:      rcpt,
		ReplyTo: s.Email,
		Subject: fmt.Sprintf("%s from %s", title, s.Name),
		HTML:    body,
		Text:    text,
	}
}
