package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds all configuration options for the todo client
type Config struct {
	Store       StoreConfig       `toml:"store"`
	Remote      RemoteConfig      `toml:"remote"`
	Cache       CacheConfig       `toml:"cache"`
	Auth        AuthConfig        `toml:"auth"`
	Validation  ValidationConfig  `toml:"validation"`
	Server      ServerConfig      `toml:"server"`
	Application ApplicationConfig `toml:"application"`
}

// StoreConfig holds local SQLite store configuration
type StoreConfig struct {
	Dir            string        `toml:"dir" env:"TODO_STORE_DIR"`
	Filename       string        `toml:"filename" env:"TODO_STORE_FILENAME"`
	QueryTimeout   time.Duration `toml:"query_timeout" env:"TODO_STORE_QUERY_TIMEOUT"`
	WriteTimeout   time.Duration `toml:"write_timeout" env:"TODO_STORE_WRITE_TIMEOUT"`
	DirPermissions uint32        `toml:"dir_permissions" env:"TODO_STORE_DIR_PERMISSIONS"`
}

// RemoteConfig holds the remote todo resource configuration
type RemoteConfig struct {
	BaseURL   string        `toml:"base_url" env:"TODO_REMOTE_BASE_URL"`
	Timeout   time.Duration `toml:"timeout" env:"TODO_REMOTE_TIMEOUT"`
	UserAgent string        `toml:"user_agent" env:"TODO_REMOTE_USER_AGENT"`
}

// CacheConfig holds query cache and snapshot configuration
type CacheConfig struct {
	StaleTime   time.Duration `toml:"stale_time" env:"TODO_CACHE_STALE_TIME"`
	SnapshotKey string        `toml:"snapshot_key" env:"TODO_CACHE_SNAPSHOT_KEY"`
	// SnapshotMaxAge of zero trusts a stored snapshot regardless of age.
	SnapshotMaxAge time.Duration `toml:"snapshot_max_age" env:"TODO_CACHE_SNAPSHOT_MAX_AGE"`
}

// AuthConfig holds the auth facade configuration
type AuthConfig struct {
	PasswordMinLength int           `toml:"password_min_length" env:"TODO_AUTH_PASSWORD_MIN"`
	SessionTTL        time.Duration `toml:"session_ttl" env:"TODO_AUTH_SESSION_TTL"`
	Providers         []string      `toml:"providers" env:"TODO_AUTH_PROVIDERS"`
	SocialBaseURL     string        `toml:"social_base_url" env:"TODO_AUTH_SOCIAL_BASE_URL"`
	CallbackURL       string        `toml:"callback_url" env:"TODO_AUTH_CALLBACK_URL"`
}

// ValidationConfig holds validation rules configuration
type ValidationConfig struct {
	TitleMaxLength int `toml:"title_max_length" env:"TODO_VALIDATION_TITLE_MAX"`
}

// ServerConfig holds the web surface configuration
type ServerConfig struct {
	Addr string `toml:"addr" env:"TODO_SERVER_ADDR"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout  time.Duration `toml:"timeout" env:"TODO_APP_TIMEOUT"`
	Verbose  bool          `toml:"verbose" env:"TODO_APP_VERBOSE"`
	LogLevel string        `toml:"log_level" env:"TODO_LOG_LEVEL"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Store: StoreConfig{
			Dir:            filepath.Join(homeDir, ".todo"),
			Filename:       "todo.db",
			QueryTimeout:   10 * time.Second,
			WriteTimeout:   5 * time.Second,
			DirPermissions: 0700,
		},
		Remote: RemoteConfig{
			BaseURL:   "https://jsonplaceholder.typicode.com",
			Timeout:   15 * time.Second,
			UserAgent: "todomaster/1.0",
		},
		Cache: CacheConfig{
			StaleTime:      5 * time.Minute,
			SnapshotKey:    "cachedTodos",
			SnapshotMaxAge: 0,
		},
		Auth: AuthConfig{
			PasswordMinLength: 8,
			SessionTTL:        7 * 24 * time.Hour,
			Providers:         []string{"google"},
			SocialBaseURL:     "http://localhost:3000/api/auth",
			CallbackURL:       "/",
		},
		Validation: ValidationConfig{
			TitleMaxLength: 255,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},
		Application: ApplicationConfig{
			Timeout:  60 * time.Second,
			Verbose:  false,
			LogLevel: "warn",
		},
	}
}

// GetDatabasePath returns the full path to the database file
func (c *Config) GetDatabasePath() string {
	if c.Store.Filename == ":memory:" {
		return c.Store.Filename
	}
	return filepath.Join(c.Store.Dir, c.Store.Filename)
}

// HasProvider reports whether a social sign-in provider is configured
func (c *Config) HasProvider(name string) bool {
	for _, p := range c.Auth.Providers {
		if strings.EqualFold(p, name) {
			return true
		}
	}
	return false
}

// LoadFromEnvironment loads configuration from environment variables
func (c *Config) LoadFromEnvironment() error {
	// Store configuration
	if dir := os.Getenv("TODO_STORE_DIR"); dir != "" {
		c.Store.Dir = dir
	}
	if filename := os.Getenv("TODO_STORE_FILENAME"); filename != "" {
		c.Store.Filename = filename
	}
	if v := os.Getenv("TODO_STORE_QUERY_TIMEOUT"); v != "" {
		c.Store.QueryTimeout = ParseDurationWithFallback(v, c.Store.QueryTimeout)
	}
	if v := os.Getenv("TODO_STORE_WRITE_TIMEOUT"); v != "" {
		c.Store.WriteTimeout = ParseDurationWithFallback(v, c.Store.WriteTimeout)
	}
	if v := os.Getenv("TODO_STORE_DIR_PERMISSIONS"); v != "" {
		c.Store.DirPermissions = ParseUint32WithFallback(v, 8, c.Store.DirPermissions)
	}

	// Remote configuration
	if v := os.Getenv("TODO_REMOTE_BASE_URL"); v != "" {
		c.Remote.BaseURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("TODO_REMOTE_TIMEOUT"); v != "" {
		c.Remote.Timeout = ParseDurationWithFallback(v, c.Remote.Timeout)
	}
	if v := os.Getenv("TODO_REMOTE_USER_AGENT"); v != "" {
		c.Remote.UserAgent = v
	}

	// Cache configuration
	if v := os.Getenv("TODO_CACHE_STALE_TIME"); v != "" {
		c.Cache.StaleTime = ParseDurationWithFallback(v, c.Cache.StaleTime)
	}
	if v := os.Getenv("TODO_CACHE_SNAPSHOT_KEY"); v != "" {
		c.Cache.SnapshotKey = v
	}
	if v := os.Getenv("TODO_CACHE_SNAPSHOT_MAX_AGE"); v != "" {
		c.Cache.SnapshotMaxAge = ParseDurationWithFallback(v, c.Cache.SnapshotMaxAge)
	}

	// Auth configuration
	if v := os.Getenv("TODO_AUTH_PASSWORD_MIN"); v != "" {
		c.Auth.PasswordMinLength = ParseIntWithFallback(v, c.Auth.PasswordMinLength)
	}
	if v := os.Getenv("TODO_AUTH_SESSION_TTL"); v != "" {
		c.Auth.SessionTTL = ParseDurationWithFallback(v, c.Auth.SessionTTL)
	}
	if v := os.Getenv("TODO_AUTH_PROVIDERS"); v != "" {
		c.Auth.Providers = splitList(v)
	}
	if v := os.Getenv("TODO_AUTH_SOCIAL_BASE_URL"); v != "" {
		c.Auth.SocialBaseURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("TODO_AUTH_CALLBACK_URL"); v != "" {
		c.Auth.CallbackURL = v
	}

	// Validation configuration
	if v := os.Getenv("TODO_VALIDATION_TITLE_MAX"); v != "" {
		c.Validation.TitleMaxLength = ParseIntWithFallback(v, c.Validation.TitleMaxLength)
	}

	// Server configuration
	if v := os.Getenv("TODO_SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}

	// Application configuration
	if v := os.Getenv("TODO_APP_TIMEOUT"); v != "" {
		c.Application.Timeout = ParseDurationWithFallback(v, c.Application.Timeout)
	}
	if v := os.Getenv("TODO_APP_VERBOSE"); v != "" {
		c.Application.Verbose = ParseBoolWithFallback(v, c.Application.Verbose)
	}
	if v := os.Getenv("TODO_LOG_LEVEL"); v != "" {
		c.Application.LogLevel = v
	}

	return nil
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	if c.Store.Filename == "" {
		return &ConfigError{Field: "store.filename", Message: "store filename cannot be empty"}
	}
	if c.Store.Dir == "" && c.Store.Filename != ":memory:" {
		return &ConfigError{Field: "store.dir", Message: "store directory cannot be empty"}
	}
	if c.Store.QueryTimeout <= 0 {
		return &ConfigError{Field: "store.query_timeout", Message: "query timeout must be positive"}
	}
	if c.Store.WriteTimeout <= 0 {
		return &ConfigError{Field: "store.write_timeout", Message: "write timeout must be positive"}
	}

	if !strings.HasPrefix(c.Remote.BaseURL, "http://") && !strings.HasPrefix(c.Remote.BaseURL, "https://") {
		return &ConfigError{Field: "remote.base_url", Message: "base URL must start with http:// or https://"}
	}
	if c.Remote.Timeout <= 0 {
		return &ConfigError{Field: "remote.timeout", Message: "remote timeout must be positive"}
	}

	if c.Cache.StaleTime < 0 {
		return &ConfigError{Field: "cache.stale_time", Message: "stale time cannot be negative"}
	}
	if c.Cache.SnapshotKey == "" {
		return &ConfigError{Field: "cache.snapshot_key", Message: "snapshot key cannot be empty"}
	}
	if c.Cache.SnapshotMaxAge < 0 {
		return &ConfigError{Field: "cache.snapshot_max_age", Message: "snapshot max age cannot be negative"}
	}

	if c.Auth.PasswordMinLength < 1 {
		return &ConfigError{Field: "auth.password_min_length", Message: "password minimum length must be at least 1"}
	}
	if c.Auth.SessionTTL <= 0 {
		return &ConfigError{Field: "auth.session_ttl", Message: "session TTL must be positive"}
	}

	if c.Validation.TitleMaxLength < 1 {
		return &ConfigError{Field: "validation.title_max_length", Message: "title maximum length must be at least 1"}
	}

	if c.Server.Addr == "" {
		return &ConfigError{Field: "server.addr", Message: "server address cannot be empty"}
	}

	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
