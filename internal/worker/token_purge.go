package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lanternhq/lantern-api/internal/store"
)

// TokenPurger deletes refresh-token denylist rows whose tokens have
// passed their natural expiry. Expired tokens fail signature-time
// validation anyway, so their denylist entries are dead weight.
type TokenPurger struct {
	tokens store.RefreshTokenStore
	logger *slog.Logger
}

// NewTokenPurger creates a TokenPurger.
func NewTokenPurger(tokens store.RefreshTokenStore, logger *slog.Logger) *TokenPurger {
	if logger == nil {
		logger = slog.Default()
	}
	return &TokenPurger{tokens: tokens, logger: logger}
}

// RunOnce deletes all expired denylist rows.
func (p *TokenPurger) RunOnce(ctx context.Context) error {
	purged, err := p.tokens.PurgeExpired(ctx, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to purge expired refresh tokens: %w", err)
	}

	if purged > 0 {
		p.logger.Info("purged expired refresh tokens", "count", purged)
	}
	return nil
}
