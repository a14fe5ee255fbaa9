package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// RefreshTokenStore persists the refresh-token denylist. Tokens are
// identified by their JWT ID (jti); a revoked entry outlives the token
// itself only until its natural expiry, after which it can be purged.
type RefreshTokenStore interface {
	// Revoke records a refresh token as no longer acceptable, typically
	// after it has been exchanged for a new token pair or on logout.
	Revoke(ctx context.Context, tokenID string, userID uuid.UUID, expiresAt time.Time) error

	// IsRevoked reports whether the given token ID has been revoked.
	IsRevoked(ctx context.Context, tokenID string) (bool, error)

	// PurgeExpired deletes denylist rows whose tokens expired before
	// the given time and returns the number of rows removed. Run
	// periodically by a background task.
	PurgeExpired(ctx context.Context, before time.Time) (int64, error)

	// WithTx returns a new RefreshTokenStore instance that uses the
	// provided transaction.
	WithTx(tx *sql.Tx) RefreshTokenStore
}
