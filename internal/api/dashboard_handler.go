package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/lanternhq/lantern-api/internal/redact"
	"github.com/lanternhq/lantern-api/internal/store"
)

// DashboardHandler serves the authenticated user's dashboard.
type DashboardHandler struct {
	userStore store.UserStore
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(userStore store.UserStore) *DashboardHandler {
	return &DashboardHandler{userStore: userStore}
}

// Get handles the /dashboard endpoint. It requires an authenticated request
// and returns the current user's profile.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	user, err := h.userStore.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// The token is valid but the account is gone, e.g. deleted
			// after the token was issued.
			RespondWithError(w, r, http.StatusUnauthorized, "Account no longer exists")
			return
		}
		slog.Error("failed to load user for dashboard", "error", redact.Error(err), "user_id", userID)
		RespondWithError(w, r, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, DashboardResponse{
		UserID:     user.ID,
		Email:      user.Email,
		Username:   user.Username,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		IsActive:   user.IsActive,
		IsVerified: user.IsVerified,
		CreatedAt:  user.CreatedAt,
	})
}
