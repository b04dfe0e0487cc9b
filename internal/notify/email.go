package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/openpaws/policyradar/internal/model"
)

const sendMaxRetries = 3

// sendSleepFunc is the sleep used between delivery retries (injectable
// for tests).
var sendSleepFunc = time.Sleep

// EmailSender delivers notification bundles over SMTP.
type EmailSender struct {
	cfg model.NotifyConfig
}

// NewEmailSender validates the notify configuration.
func NewEmailSender(cfg model.NotifyConfig) (*EmailSender, error) {
	if cfg.From == "" {
		return nil, fmt.Errorf("notify: from address is required")
	}
	if cfg.Password == "" {
		return nil, fmt.Errorf("notify: SMTP password is required")
	}
	if len(cfg.To) == 0 {
		return nil, fmt.Errorf("notify: at least one recipient is required")
	}
	if cfg.SMTPHost == "" {
		cfg.SMTPHost = "smtp.gmail.com"
	}
	if cfg.SMTPPort == "" {
		cfg.SMTPPort = "587"
	}
	return &EmailSender{cfg: cfg}, nil
}

// Send delivers one bundle, retrying with exponential backoff.
func (s *EmailSender) Send(ctx context.Context, bundle *Bundle) error {
	msg := s.message(bundle)
	auth := smtp.PlainAuth("", s.cfg.From, s.cfg.Password, s.cfg.SMTPHost)
	addr := s.cfg.SMTPHost + ":" + s.cfg.SMTPPort

	var lastErr error
	for attempt := 1; attempt <= sendMaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if attempt > 1 {
			sendSleepFunc(time.Duration(1<<attempt) * time.Second)
		}

		lastErr = smtp.SendMail(addr, auth, s.cfg.From, s.cfg.To, msg)
		if lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("send notification: %w", lastErr)
}

// message builds an RFC 5322 plain-text message.
func (s *EmailSender) message(bundle *Bundle) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "From: %s\r\n", s.cfg.From)
	fmt.Fprintf(&sb, "To: %s\r\n", strings.Join(s.cfg.To, ", "))
	fmt.Fprintf(&sb, "Subject: %s\r\n", bundle.Subject())
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(bundle.Body())
	return []byte(sb.String())
}
