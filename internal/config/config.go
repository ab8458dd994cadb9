// Package config loads and validates the application configuration.
package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	CORS     CORSConfig     `mapstructure:"cors"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`

	// TokenLifetimeMinutes is the session token lifetime. The session cookie
	// expires at the same time as the token it carries.
	TokenLifetimeMinutes int `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`

	// CookieName is the name of the session cookie.
	CookieName string `mapstructure:"cookie_name" validate:"required"`

	// CookieSecure marks the session cookie Secure (HTTPS only).
	CookieSecure bool `mapstructure:"cookie_secure"`
}

// CORSConfig contains cross-origin settings for browser clients.
type CORSConfig struct {
	// AllowedOrigin is the single origin permitted to make credentialed
	// cross-origin requests. Empty disables CORS headers.
	AllowedOrigin string `mapstructure:"allowed_origin"`
}
