package mailer

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"

	"mailflow/internal/config"
)

// SMTPMailer delivers mail through an SMTP relay
type SMTPMailer struct {
	addr     string
	username string
	password string
	from     string
	timeout  time.Duration
}

// NewSMTPMailer creates a mailer for the configured relay
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		addr:     cfg.Host + ":" + cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
		from:     cfg.From,
		timeout:  cfg.SendTimeout,
	}
}

// Send delivers one email. The call is bounded by the configured send
// timeout; a timeout surfaces as an ordinary send error.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- m.send(to, subject, body)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("smtp send to %s: %w", to, ctx.Err())
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("smtp send to %s: %w", to, err)
		}
		return nil
	}
}

// send performs the blocking SMTP conversation
func (m *SMTPMailer) send(to, subject, body string) error {
	var auth sasl.Client
	if m.username != "" {
		auth = sasl.NewPlainClient("", m.username, m.password)
	}

	msg := strings.NewReader(
		"From: " + m.from + "\r\n" +
			"To: " + to + "\r\n" +
			"Subject: " + subject + "\r\n" +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/plain; charset=utf-8\r\n" +
			"\r\n" +
			body + "\r\n",
	)

	return smtp.SendMail(m.addr, auth, m.from, []string{to}, msg)
}

// LogMailer logs messages instead of delivering them (SMTP_DRY_RUN=true).
// Every send succeeds.
type LogMailer struct{}

// NewLogMailer creates a dry-run mailer
func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

// Send logs the message and reports success
func (m *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	log.Printf("📧 [dry-run] to=%s subject=%q body_len=%d", to, subject, len(body))
	return nil
}
