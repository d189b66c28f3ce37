package email

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"github.com/salonsuite/salon-api/internal/config"
)

// Sender delivers mail over SMTP. When no host is configured it runs in
// simulated mode: messages are logged and reported as sent, so development
// environments work without a mail server.
type Sender struct {
	dialer *gomail.Dialer
	from   string
	logger zerolog.Logger
}

func NewSender(cfg config.EmailConfig, logger zerolog.Logger) *Sender {
	s := &Sender{
		from:   cfg.From,
		logger: logger.With().Str("component", "email").Logger(),
	}
	if cfg.Host != "" {
		s.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	return s
}

// Send delivers one message to the given recipients. The context is checked
// before dialing; gomail itself does not support cancellation mid-send.
func (s *Sender) Send(ctx context.Context, to []string, subject, body string, html bool) error {
	if len(to) == 0 {
		return fmt.Errorf("no recipients")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if s.dialer == nil {
		s.logger.Info().Strs("to", to).Str("subject", subject).Msg("email simulated (no SMTP host configured)")
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	if html {
		m.SetBody("text/html", body)
	} else {
		m.SetBody("text/plain", body)
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Debug().Strs("to", to).Str("subject", subject).Msg("email sent")
	return nil
}
