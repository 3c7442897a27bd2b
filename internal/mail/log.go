package mail

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// LogMailer writes emails to the log instead of sending them.
// Useful in development where no relay is configured.
type LogMailer struct {
	composer
	log *zap.Logger
}

func NewLog(frontendURL string, codeTTL time.Duration, log *zap.Logger) *LogMailer {
	return &LogMailer{
		composer: composer{frontendURL: frontendURL, codeTTL: codeTTL},
		log:      log.With(zap.String("component", "mail"), zap.String("driver", "log")),
	}
}

func (m *LogMailer) SendConfirmation(_ context.Context, r Recipient) error {
	msg, err := m.confirmation(r)
	if err != nil {
		return err
	}
	m.write(msg, r.Token)
	return nil
}

func (m *LogMailer) SendPasswordReset(_ context.Context, r Recipient) error {
	msg, err := m.passwordReset(r)
	if err != nil {
		return err
	}
	m.write(msg, r.Token)
	return nil
}

func (m *LogMailer) write(msg Message, token string) {
	m.log.Info("mail_logged",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("token", token),
	)
}
