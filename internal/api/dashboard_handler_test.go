package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanternhq/lantern-api/internal/api/shared"
	"github.com/lanternhq/lantern-api/internal/domain"
)

func authedRequest(t *testing.T, userID uuid.UUID) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
	return req.WithContext(ctx)
}

func TestDashboardGet(t *testing.T) {
	t.Parallel()

	t.Run("returns the current user's profile", func(t *testing.T) {
		t.Parallel()

		users := newMockUserStore()
		user, err := domain.NewUser("dash@example.com", "password1234567")
		require.NoError(t, err)
		user.Username = "dashuser"
		user.FirstName = "Dana"
		require.NoError(t, users.Create(context.Background(), user))

		handler := NewDashboardHandler(users)
		recorder := httptest.NewRecorder()
		handler.Get(recorder, authedRequest(t, user.ID))

		require.Equal(t, http.StatusOK, recorder.Code)

		var resp DashboardResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, user.ID, resp.UserID)
		assert.Equal(t, "dash@example.com", resp.Email)
		assert.Equal(t, "dashuser", resp.Username)
		assert.Equal(t, "Dana", resp.FirstName)
		assert.True(t, resp.IsActive)
		assert.False(t, resp.IsVerified)
	})

	t.Run("rejects unauthenticated requests", func(t *testing.T) {
		t.Parallel()

		handler := NewDashboardHandler(newMockUserStore())
		recorder := httptest.NewRecorder()
		handler.Get(recorder, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("rejects tokens for deleted accounts", func(t *testing.T) {
		t.Parallel()

		handler := NewDashboardHandler(newMockUserStore())
		recorder := httptest.NewRecorder()
		handler.Get(recorder, authedRequest(t, uuid.New()))

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("never exposes password material", func(t *testing.T) {
		t.Parallel()

		users := newMockUserStore()
		user, err := domain.NewUser("secret@example.com", "password1234567")
		require.NoError(t, err)
		require.NoError(t, users.Create(context.Background(), user))

		handler := NewDashboardHandler(users)
		recorder := httptest.NewRecorder()
		handler.Get(recorder, authedRequest(t, user.ID))

		require.Equal(t, http.StatusOK, recorder.Code)
		assert.NotContains(t, recorder.Body.String(), "password")
		assert.NotContains(t, recorder.Body.String(), "hashed")
	})
}
