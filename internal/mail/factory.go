package mail

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"nexuspro/internal/config"
)

// New picks the mailer for cfg.Driver.
func New(cfg config.MailConfig, frontendURL string, codeTTL time.Duration, log *zap.Logger) (Mailer, error) {
	switch cfg.Driver {
	case "smtp":
		return NewSMTP(cfg, frontendURL, codeTTL, log), nil
	case "log", "":
		return NewLog(frontendURL, codeTTL, log), nil
	default:
		return nil, fmt.Errorf("unknown mail driver %q", cfg.Driver)
	}
}
