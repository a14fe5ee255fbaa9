package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Email    EmailConfig    `mapstructure:"email"`
	SDK      SDKConfig      `mapstructure:"sdk"`
	Worker   WorkerConfig   `mapstructure:"worker"`
}

// ServerConfig contains all HTTP server related settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// RateLimitPerMinute caps requests per client on the public auth
	// endpoints. Zero disables rate limiting.
	RateLimitPerMinute int `mapstructure:"rate_limit_per_minute" validate:"gte=0"`
}

// DatabaseConfig contains all database related settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains authentication and token settings.
type AuthConfig struct {
	// JWTSecret signs both access and refresh tokens. Must be long
	// enough to resist brute force against HMAC-SHA256.
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`

	// TokenLifetimeMinutes is the access token lifetime.
	TokenLifetimeMinutes int `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`

	// RefreshTokenLifetimeMinutes is the refresh token lifetime,
	// normally much longer than the access token's.
	RefreshTokenLifetimeMinutes int `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`

	// EncryptionSalt is the base64-encoded salt used by the secrets
	// helper for key derivation. Optional; the helper is disabled
	// without it.
	EncryptionSalt string `mapstructure:"encryption_salt"`
}

// EmailConfig contains SMTP delivery settings. Delivery is disabled
// when User or Password is empty.
type EmailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"      validate:"omitempty,gt=0,lt=65536"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"      validate:"omitempty,email"`
	FromName string `mapstructure:"from_name"`
}

// WorkerConfig contains intervals for the scheduled background tasks.
type WorkerConfig struct {
	// TokenPurgeIntervalMinutes is how often expired denylist rows are
	// deleted.
	TokenPurgeIntervalMinutes int `mapstructure:"token_purge_interval_minutes" validate:"required,gt=0"`

	// ResourceSyncIntervalMinutes is how often the external resource
	// API is polled. Only used when the SDK client is configured.
	ResourceSyncIntervalMinutes int `mapstructure:"resource_sync_interval_minutes" validate:"required,gt=0"`
}

// SDKConfig contains settings for the external resource API client.
type SDKConfig struct {
	BaseURL        string `mapstructure:"base_url"        validate:"omitempty,url"`
	APIKey         string `mapstructure:"api_key"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"gte=0"`
}
