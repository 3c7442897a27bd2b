package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"nexuspro/internal/config"
)

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer delivers mail through an SMTP relay.
type SMTPMailer struct {
	composer
	dialer sender
	from   string
	log    *zap.Logger
}

// NewSMTP builds an SMTP mailer. Links in the emails point at frontendURL.
func NewSMTP(cfg config.MailConfig, frontendURL string, codeTTL time.Duration, log *zap.Logger) *SMTPMailer {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	d.TLSConfig = &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}
	return &SMTPMailer{
		composer: composer{frontendURL: frontendURL, codeTTL: codeTTL},
		dialer:   d,
		from:     cfg.From,
		log:      log.With(zap.String("component", "mail"), zap.String("driver", "smtp")),
	}
}

func (m *SMTPMailer) SendConfirmation(ctx context.Context, r Recipient) error {
	msg, err := m.confirmation(r)
	if err != nil {
		return err
	}
	return m.send(ctx, msg)
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, r Recipient) error {
	msg, err := m.passwordReset(r)
	if err != nil {
		return err
	}
	return m.send(ctx, msg)
}

func (m *SMTPMailer) send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.Text)
	gm.AddAlternative("text/html", msg.HTML)

	start := time.Now()
	if err := m.dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}
	m.log.Info("mail_sent",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return nil
}
