package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanternhq/lantern-api/internal/api/middleware"
	"github.com/lanternhq/lantern-api/internal/api/shared"
	"github.com/lanternhq/lantern-api/internal/service/auth"
)

// stubJWTService validates every token as the configured user, or fails
// with Err.
type stubJWTService struct {
	UserID uuid.UUID
	Err    error
}

func (s *stubJWTService) GenerateToken(context.Context, uuid.UUID) (string, error) {
	return "", nil
}

func (s *stubJWTService) GenerateRefreshToken(context.Context, uuid.UUID) (string, error) {
	return "", nil
}

func (s *stubJWTService) ValidateToken(context.Context, string) (*auth.Claims, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return &auth.Claims{UserID: s.UserID, TokenType: "access"}, nil
}

func (s *stubJWTService) ValidateRefreshToken(context.Context, string) (*auth.Claims, error) {
	return nil, auth.ErrWrongTokenType
}

func (s *stubJWTService) AccessTokenLifetime() time.Duration { return time.Hour }

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok := middleware.GetUserID(r)
		require.True(t, ok)
		assert.Equal(t, userID, got)
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		header     string
		serviceErr error
		wantStatus int
	}{
		{"valid bearer token", "Bearer good-token", nil, http.StatusOK},
		{"missing header", "", nil, http.StatusUnauthorized},
		{"malformed header", "NotBearer token", nil, http.StatusUnauthorized},
		{"bare token without scheme", "good-token", nil, http.StatusUnauthorized},
		{"expired token", "Bearer stale", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"invalid token", "Bearer junk", auth.ErrInvalidToken, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := middleware.NewAuthMiddleware(&stubJWTService{UserID: userID, Err: tt.serviceErr})

			req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			recorder := httptest.NewRecorder()

			m.Authenticate(okHandler).ServeHTTP(recorder, req)

			assert.Equal(t, tt.wantStatus, recorder.Code)
		})
	}
}

func TestTraceMiddleware(t *testing.T) {
	t.Parallel()

	var captured string
	handler := middleware.TraceMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = shared.GetTraceID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Len(t, captured, 32, "trace ID should be 32 hex characters")
}

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	// The logger must pass the response through untouched.
	handler := middleware.RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/teapot", nil))

	assert.Equal(t, http.StatusTeapot, recorder.Code)
	assert.Equal(t, "short and stout", recorder.Body.String())
}

func TestRateLimiter(t *testing.T) {
	t.Parallel()

	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("allows up to the burst then rejects", func(t *testing.T) {
		t.Parallel()

		rl := middleware.NewRateLimiter(3)
		handler := rl.Limit(okHandler)

		for i := 0; i < 3; i++ {
			recorder := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
			req.RemoteAddr = "10.0.0.1:1234"
			handler.ServeHTTP(recorder, req)
			require.Equal(t, http.StatusOK, recorder.Code, "request %d should pass", i+1)
		}

		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		handler.ServeHTTP(recorder, req)
		assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
	})

	t.Run("limits clients independently", func(t *testing.T) {
		t.Parallel()

		rl := middleware.NewRateLimiter(1)
		handler := rl.Limit(okHandler)

		first := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		first.RemoteAddr = "10.0.0.2:1234"
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, first)
		require.Equal(t, http.StatusOK, recorder.Code)

		// Same client again: over the limit.
		recorder = httptest.NewRecorder()
		handler.ServeHTTP(recorder, first)
		require.Equal(t, http.StatusTooManyRequests, recorder.Code)

		// A different client still gets through.
		other := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		other.RemoteAddr = "10.0.0.3:1234"
		recorder = httptest.NewRecorder()
		handler.ServeHTTP(recorder, other)
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("zero limit disables limiting", func(t *testing.T) {
		t.Parallel()

		rl := middleware.NewRateLimiter(0)
		handler := rl.Limit(okHandler)

		for i := 0; i < 50; i++ {
			recorder := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
			req.RemoteAddr = "10.0.0.4:1234"
			handler.ServeHTTP(recorder, req)
			require.Equal(t, http.StatusOK, recorder.Code)
		}
	})
}
