package api

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/lanternhq/lantern-api/internal/domain"
	"github.com/lanternhq/lantern-api/internal/platform/mailer"
	"github.com/lanternhq/lantern-api/internal/redact"
	"github.com/lanternhq/lantern-api/internal/service/auth"
	"github.com/lanternhq/lantern-api/internal/store"
)

// welcomeEmailTimeout bounds the background welcome email send so a slow
// SMTP server cannot hold the goroutine indefinitely.
const welcomeEmailTimeout = 30 * time.Second

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	userStore        store.UserStore
	refreshTokens    store.RefreshTokenStore
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	mailer           mailer.Mailer
	validator        *validator.Validate
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
// The mailer may be nil, in which case no welcome emails are sent.
func NewAuthHandler(
	userStore store.UserStore,
	refreshTokens store.RefreshTokenStore,
	jwtService auth.JWTService,
	passwordVerifier auth.PasswordVerifier,
	m mailer.Mailer,
) *AuthHandler {
	return &AuthHandler{
		userStore:        userStore,
		refreshTokens:    refreshTokens,
		jwtService:       jwtService,
		passwordVerifier: passwordVerifier,
		mailer:           m,
		validator:        validator.New(),
	}
}

// Register handles the /auth/register endpoint.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := domain.NewUser(req.Email, req.Password)
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid user data: "+err.Error())
		return
	}
	user.Username = req.Username
	user.FirstName = req.FirstName
	user.LastName = req.LastName

	if err := h.userStore.Create(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			RespondWithError(w, r, http.StatusConflict, "Email already exists")
			return
		}
		if errors.Is(err, store.ErrInvalidEntity) {
			RespondWithError(w, r, http.StatusBadRequest, "Invalid user data")
			return
		}
		slog.Error("failed to create user", "error", redact.Error(err))
		RespondWithError(w, r, http.StatusInternalServerError, "Failed to create user")
		return
	}

	accessToken, refreshToken, expiresAt, err := h.issueTokenPair(r.Context(), user.ID)
	if err != nil {
		slog.Error("failed to generate tokens", "error", redact.Error(err), "user_id", user.ID)
		RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	// Delivery is best effort and must not block or fail registration.
	if h.mailer != nil {
		go h.sendWelcomeEmail(user)
	}

	RespondWithJSON(w, r, http.StatusCreated, AuthResponse{
		UserID:       user.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	})
}

// Login handles the /auth/login endpoint.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := h.userStore.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		slog.Error("failed to get user by email", "error", redact.Error(err))
		RespondWithError(w, r, http.StatusInternalServerError, "Failed to authenticate user")
		return
	}

	if !user.IsActive {
		RespondWithError(w, r, http.StatusUnauthorized, "Account is disabled")
		return
	}

	if err := h.passwordVerifier.Compare(user.HashedPassword, req.Password); err != nil {
		RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	accessToken, refreshToken, expiresAt, err := h.issueTokenPair(r.Context(), user.ID)
	if err != nil {
		slog.Error("failed to generate tokens", "error", redact.Error(err), "user_id", user.ID)
		RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		UserID:       user.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	})
}

// RefreshToken handles the /auth/refresh endpoint. It validates the
// presented refresh token, rejects it if it has been revoked, then rotates
// it: the old token is revoked and a new pair is issued.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest

	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		HandleAPIError(w, r, err, "Invalid refresh token")
		return
	}

	revoked, err := h.refreshTokens.IsRevoked(r.Context(), claims.ID)
	if err != nil {
		slog.Error("failed to check token revocation", "error", redact.Error(err))
		RespondWithError(w, r, http.StatusInternalServerError, "Failed to refresh token")
		return
	}
	if revoked {
		RespondWithError(w, r, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	if err := h.refreshTokens.Revoke(r.Context(), claims.ID, claims.UserID, claims.ExpiresAt); err != nil {
		slog.Error("failed to revoke refresh token", "error", redact.Error(err))
		RespondWithError(w, r, http.StatusInternalServerError, "Failed to refresh token")
		return
	}

	accessToken, refreshToken, expiresAt, err := h.issueTokenPair(r.Context(), claims.UserID)
	if err != nil {
		slog.Error("failed to generate tokens", "error", redact.Error(err), "user_id", claims.UserID)
		RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, RefreshTokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	})
}

// Logout handles the /auth/logout endpoint by revoking the presented
// refresh token. Access tokens stay valid until they expire.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest

	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		HandleAPIError(w, r, err, "Invalid refresh token")
		return
	}

	if err := h.refreshTokens.Revoke(r.Context(), claims.ID, claims.UserID, claims.ExpiresAt); err != nil {
		slog.Error("failed to revoke refresh token", "error", redact.Error(err))
		RespondWithError(w, r, http.StatusInternalServerError, "Failed to log out")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// issueTokenPair generates an access and refresh token for the given user
// and returns them with the access token's expiry as an RFC 3339 string.
func (h *AuthHandler) issueTokenPair(
	ctx context.Context,
	userID uuid.UUID,
) (access, refresh, expiresAt string, err error) {
	access, err = h.jwtService.GenerateToken(ctx, userID)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to generate access token: %w", err)
	}

	refresh, err = h.jwtService.GenerateRefreshToken(ctx, userID)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to generate refresh token: %w", err)
	}

	expiresAt = time.Now().UTC().Add(h.jwtService.AccessTokenLifetime()).Format(time.RFC3339)
	return access, refresh, expiresAt, nil
}

// sendWelcomeEmail delivers the post-registration welcome message. Failures
// are logged and otherwise ignored.
func (h *AuthHandler) sendWelcomeEmail(user *domain.User) {
	ctx, cancel := context.WithTimeout(context.Background(), welcomeEmailTimeout)
	defer cancel()

	name := user.FirstName
	if name == "" {
		name = user.Email
	}

	msg := mailer.Message{
		To:      user.Email,
		Subject: "Welcome to Lantern",
		HTMLBody: fmt.Sprintf(
			"<p>Hi %s,</p><p>Your account is ready. You can sign in and start using the API right away.</p>",
			html.EscapeString(name),
		),
		PlainBody: fmt.Sprintf(
			"Hi %s,\n\nYour account is ready. You can sign in and start using the API right away.\n",
			name,
		),
	}

	if err := h.mailer.Send(ctx, msg); err != nil {
		slog.Warn("failed to send welcome email", "error", redact.Error(err))
	}
}
