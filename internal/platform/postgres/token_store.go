package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/lanternhq/lantern-api/internal/store"
)

// RefreshTokenStore implements the store.RefreshTokenStore interface
// using a PostgreSQL table as the refresh-token denylist.
type RefreshTokenStore struct {
	db dbtx
}

// Ensure RefreshTokenStore implements store.RefreshTokenStore
var _ store.RefreshTokenStore = (*RefreshTokenStore)(nil)

// NewRefreshTokenStore creates a new PostgreSQL implementation of the
// store.RefreshTokenStore interface.
func NewRefreshTokenStore(db *sql.DB) *RefreshTokenStore {
	return &RefreshTokenStore{db: db}
}

// WithTx implements store.RefreshTokenStore.WithTx
func (s *RefreshTokenStore) WithTx(tx *sql.Tx) store.RefreshTokenStore {
	return &RefreshTokenStore{db: tx}
}

// Revoke implements store.RefreshTokenStore.Revoke. Revoking the same
// token twice is harmless.
func (s *RefreshTokenStore) Revoke(
	ctx context.Context,
	tokenID string,
	userID uuid.UUID,
	expiresAt time.Time,
) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO revoked_refresh_tokens (token_id, user_id, expires_at, revoked_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (token_id) DO NOTHING`,
		tokenID, userID, expiresAt, time.Now().UTC(),
	)
	return MapError(err)
}

// IsRevoked implements store.RefreshTokenStore.IsRevoked
func (s *RefreshTokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM revoked_refresh_tokens WHERE token_id = $1)`,
		tokenID,
	).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, MapError(err)
	}
	return exists, nil
}

// PurgeExpired implements store.RefreshTokenStore.PurgeExpired
func (s *RefreshTokenStore) PurgeExpired(
	ctx context.Context,
	before time.Time,
) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM revoked_refresh_tokens WHERE expires_at < $1`, before)
	if err != nil {
		return 0, MapError(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, MapError(err)
	}
	return affected, nil
}
