package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"nexuspro/internal/repository"
)

// TokenJanitor periodically deletes expired one-time codes.
type TokenJanitor struct {
	tokens   repository.TokenRepository
	interval time.Duration
	log      *zap.Logger
	now      func() time.Time
}

func NewTokenJanitor(tokens repository.TokenRepository, interval time.Duration, log *zap.Logger) *TokenJanitor {
	if interval <= 0 {
		interval = time.Minute
	}
	return &TokenJanitor{
		tokens:   tokens,
		interval: interval,
		log:      log.With(zap.String("component", "token_janitor")),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Run sweeps once immediately and then on every tick until ctx is done.
func (j *TokenJanitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.log.Info("token_janitor_started", zap.Duration("interval", j.interval))
	j.Sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			j.log.Info("token_janitor_stopped")
			return
		case <-ticker.C:
			j.Sweep(ctx)
		}
	}
}

// Sweep deletes tokens expired at the current time and returns how many went.
func (j *TokenJanitor) Sweep(ctx context.Context) int64 {
	n, err := j.tokens.DeleteExpired(ctx, j.now())
	if err != nil {
		if ctx.Err() == nil {
			j.log.Error("token_janitor_sweep_failed", zap.Error(err))
		}
		return 0
	}
	if n > 0 {
		j.log.Info("token_janitor_sweep", zap.Int64("deleted", n))
	}
	return n
}
