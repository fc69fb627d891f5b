package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// ConfigFileEnvVar names the environment variable that points at a TOML config file
const ConfigFileEnvVar = "TODO_CONFIG"

// DefaultConfigFile is the config file name looked up inside the store directory
const DefaultConfigFile = "config.toml"

// Loader handles loading configuration from multiple sources
type Loader struct {
	config     *Config
	configPath string
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{
		config: NewConfig(),
	}
}

// WithConfigFile sets an explicit config file path. An explicit path must exist.
func (l *Loader) WithConfigFile(path string) *Loader {
	l.configPath = path
	return l
}

// Load loads configuration using the cascading strategy:
// 1. Start with defaults
// 2. Override with the TOML config file, when one is present
// 3. Override with environment variables
// 4. Override with command line flags (see LoadWithOverrides)
func (l *Loader) Load() (*Config, error) {
	path, required := l.resolveConfigPath()
	if path != "" {
		if err := loadConfigFile(l.config, path, required); err != nil {
			return nil, err
		}
	}

	if err := l.config.LoadFromEnvironment(); err != nil {
		return nil, err
	}

	if err := l.config.Validate(); err != nil {
		return nil, err
	}

	return l.config, nil
}

// LoadWithOverrides loads configuration and applies command line overrides
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	config, err := l.Load()
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		l.applyOverrides(config, overrides)
	}

	// Re-validate after applying overrides
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// resolveConfigPath picks the config file to read. The returned flag reports
// whether the file was asked for explicitly and so must exist.
func (l *Loader) resolveConfigPath() (string, bool) {
	if l.configPath != "" {
		return l.configPath, true
	}
	if env := os.Getenv(ConfigFileEnvVar); env != "" {
		return env, true
	}
	dir := l.config.Store.Dir
	if env := os.Getenv("TODO_STORE_DIR"); env != "" {
		dir = env
	}
	if dir == "" {
		return "", false
	}
	return filepath.Join(dir, DefaultConfigFile), false
}

// loadConfigFile decodes a TOML file over the current values.
func loadConfigFile(cfg *Config, path string, required bool) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return nil
		}
		return &ConfigError{Field: "config_file", Message: fmt.Sprintf("cannot read %s: %v", path, err)}
	}

	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return &ConfigError{Field: "config_file", Message: fmt.Sprintf("invalid TOML in %s: %v", path, err)}
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return &ConfigError{Field: undecoded[0].String(), Message: "unknown configuration key"}
	}
	return nil
}

// ConfigOverrides holds command line flag overrides
type ConfigOverrides struct {
	// Store overrides
	StoreDir      *string
	StoreFilename *string

	// Remote overrides
	RemoteBaseURL *string
	RemoteTimeout *time.Duration

	// Cache overrides
	StaleTime      *time.Duration
	SnapshotMaxAge *time.Duration

	// Validation overrides
	TitleMaxLength *int

	// Server overrides
	ServerAddr *string

	// Application overrides
	Timeout  *time.Duration
	Verbose  *bool
	LogLevel *string
}

// applyOverrides applies command line overrides to the configuration
func (l *Loader) applyOverrides(config *Config, overrides *ConfigOverrides) {
	if overrides.StoreDir != nil {
		config.Store.Dir = *overrides.StoreDir
	}
	if overrides.StoreFilename != nil {
		config.Store.Filename = *overrides.StoreFilename
	}

	if overrides.RemoteBaseURL != nil {
		config.Remote.BaseURL = *overrides.RemoteBaseURL
	}
	if overrides.RemoteTimeout != nil {
		config.Remote.Timeout = *overrides.RemoteTimeout
	}

	if overrides.StaleTime != nil {
		config.Cache.StaleTime = *overrides.StaleTime
	}
	if overrides.SnapshotMaxAge != nil {
		config.Cache.SnapshotMaxAge = *overrides.SnapshotMaxAge
	}

	if overrides.TitleMaxLength != nil {
		config.Validation.TitleMaxLength = *overrides.TitleMaxLength
	}

	if overrides.ServerAddr != nil {
		config.Server.Addr = *overrides.ServerAddr
	}

	if overrides.Timeout != nil {
		config.Application.Timeout = *overrides.Timeout
	}
	if overrides.Verbose != nil {
		config.Application.Verbose = *overrides.Verbose
	}
	if overrides.LogLevel != nil {
		config.Application.LogLevel = *overrides.LogLevel
	}
}

// ParseDurationWithFallback parses a duration string with a fallback value
func ParseDurationWithFallback(s string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return fallback
}

// ParseIntWithFallback parses an integer string with a fallback value
func ParseIntWithFallback(s string, fallback int) int {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return fallback
}

// ParseBoolWithFallback parses a boolean string with a fallback value
func ParseBoolWithFallback(s string, fallback bool) bool {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return fallback
}

// ParseUint32WithFallback parses a uint32 string with a fallback value
func ParseUint32WithFallback(s string, base int, fallback uint32) uint32 {
	if u, err := strconv.ParseUint(s, base, 32); err == nil {
		return uint32(u)
	}
	return fallback
}
