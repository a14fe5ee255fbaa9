package api

import (
	"time"

	"github.com/google/uuid"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
// Username and name fields are optional profile data.
type RegisterRequest struct {
	Email     string `json:"email"      validate:"required,email"`
	Password  string `json:"password"   validate:"required,min=12,max=72"`
	Username  string `json:"username"   validate:"omitempty,min=3,max=50"`
	FirstName string `json:"first_name" validate:"omitempty,max=128"`
	LastName  string `json:"last_name"  validate:"omitempty,max=128"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"access_token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`

	// ExpiresAt is the ISO 8601 timestamp when the access token expires
	ExpiresAt string `json:"expires_at,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh and logout
// endpoints.
type RefreshTokenRequest struct {
	// RefreshToken is the JWT refresh token to exchange or revoke
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token refresh
// endpoint.
type RefreshTokenResponse struct {
	// AccessToken is the new JWT token used for API authorization
	AccessToken string `json:"access_token"`

	// RefreshToken is the new JWT token used to obtain future access tokens
	RefreshToken string `json:"refresh_token"`

	// ExpiresAt is the ISO 8601 timestamp when the access token expires
	ExpiresAt string `json:"expires_at"`
}

// DashboardResponse defines the response for the dashboard endpoint. It
// carries the authenticated user's profile.
type DashboardResponse struct {
	UserID     uuid.UUID `json:"user_id"`
	Email      string    `json:"email"`
	Username   string    `json:"username,omitempty"`
	FirstName  string    `json:"first_name,omitempty"`
	LastName   string    `json:"last_name,omitempty"`
	IsActive   bool      `json:"is_active"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
}

// TaskStatusResponse describes one background task for the system status
// endpoint.
type TaskStatusResponse struct {
	Interval  string `json:"interval"`
	Done      bool   `json:"done"`
	Cancelled bool   `json:"cancelled"`
}

// SystemTasksResponse defines the response for the scheduler status endpoint.
type SystemTasksResponse struct {
	Running bool                          `json:"running"`
	Tasks   map[string]TaskStatusResponse `json:"tasks"`
}
