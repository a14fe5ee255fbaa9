package api

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lanternhq/lantern-api/internal/domain"
	"github.com/lanternhq/lantern-api/internal/platform/mailer"
	"github.com/lanternhq/lantern-api/internal/service/auth"
	"github.com/lanternhq/lantern-api/internal/store"
)

// mockUserStore is a map-backed store.UserStore for handler tests.
type mockUserStore struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]*domain.User
	byEmail map[string]*domain.User

	// CreateErr overrides Create's result when set.
	CreateErr error
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{
		byID:    make(map[uuid.UUID]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (m *mockUserStore) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateErr != nil {
		return m.CreateErr
	}
	if _, exists := m.byEmail[user.Email]; exists {
		return store.ErrEmailExists
	}

	// Mimic the real store: hash is opaque, plaintext never persisted.
	stored := *user
	stored.HashedPassword = "hashed:" + user.Password
	stored.Password = ""
	m.byID[stored.ID] = &stored
	m.byEmail[stored.Email] = &stored
	return nil
}

func (m *mockUserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.byID[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *mockUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.byEmail[email]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *mockUserStore) Update(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[user.ID]; !ok {
		return store.ErrUserNotFound
	}
	copied := *user
	m.byID[user.ID] = &copied
	m.byEmail[user.Email] = &copied
	return nil
}

func (m *mockUserStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.byID[id]
	if !ok {
		return store.ErrUserNotFound
	}
	delete(m.byEmail, user.Email)
	delete(m.byID, id)
	return nil
}

func (m *mockUserStore) WithTx(*sql.Tx) store.UserStore { return m }

// mockJWTService returns fixed tokens and claims.
type mockJWTService struct {
	Token        string
	RefreshToken string
	GenerateErr  error

	ValidateClaims *auth.Claims
	ValidateErr    error
}

func (m *mockJWTService) GenerateToken(context.Context, uuid.UUID) (string, error) {
	return m.Token, m.GenerateErr
}

func (m *mockJWTService) GenerateRefreshToken(context.Context, uuid.UUID) (string, error) {
	return m.RefreshToken, m.GenerateErr
}

func (m *mockJWTService) ValidateToken(context.Context, string) (*auth.Claims, error) {
	return m.ValidateClaims, m.ValidateErr
}

func (m *mockJWTService) ValidateRefreshToken(context.Context, string) (*auth.Claims, error) {
	return m.ValidateClaims, m.ValidateErr
}

func (m *mockJWTService) AccessTokenLifetime() time.Duration {
	return time.Hour
}

// mockPasswordVerifier succeeds or fails wholesale.
type mockPasswordVerifier struct {
	Err error
}

func (m *mockPasswordVerifier) Compare(string, string) error { return m.Err }

// mockRefreshTokenStore records revocations in memory.
type mockRefreshTokenStore struct {
	mu      sync.Mutex
	revoked map[string]bool

	RevokeErr    error
	IsRevokedErr error
}

func newMockRefreshTokenStore() *mockRefreshTokenStore {
	return &mockRefreshTokenStore{revoked: make(map[string]bool)}
}

func (m *mockRefreshTokenStore) Revoke(_ context.Context, tokenID string, _ uuid.UUID, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.RevokeErr != nil {
		return m.RevokeErr
	}
	m.revoked[tokenID] = true
	return nil
}

func (m *mockRefreshTokenStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.IsRevokedErr != nil {
		return false, m.IsRevokedErr
	}
	return m.revoked[tokenID], nil
}

func (m *mockRefreshTokenStore) PurgeExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func (m *mockRefreshTokenStore) WithTx(*sql.Tx) store.RefreshTokenStore { return m }

// mockMailer records sent messages.
type mockMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
}

func (m *mockMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *mockMailer) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *mockMailer) lastSent() mailer.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[len(m.sent)-1]
}
