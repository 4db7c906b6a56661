// Package mailer delivers checklist notification mail over SMTP.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

// Config holds the SMTP relay settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTP sends HTML mail with a plain-text fallback through one upstream
// relay. Port 465 uses implicit TLS; 587 upgrades via STARTTLS.
type SMTP struct {
	cfg Config
	log zerolog.Logger
}

func NewSMTP(cfg Config, log zerolog.Logger) *SMTP {
	return &SMTP{cfg: cfg, log: log}
}

func (m *SMTP) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	to = strings.TrimSpace(to)
	if to == "" {
		return errors.New("no recipient")
	}
	if m.cfg.Host == "" || m.cfg.From == "" {
		return errors.New("smtp not configured")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", textBody)
	msg.AddAlternative("text/html", htmlBody)

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	dialer.SSL = m.cfg.Port == 465

	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	m.log.Debug().Str("to", to).Str("subject", subject).Msg("mail sent")
	return nil
}
