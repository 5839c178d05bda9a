// Package config provides configuration loading and validation for the
// bundlesync daemon.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hubsync/bundlesync/internal/sources"
)

// Check frequencies accepted in the updates section.
const (
	FrequencyDaily  = "daily"
	FrequencyWeekly = "weekly"
	FrequencyManual = "manual"
)

// Notification preferences accepted in the updates section.
const (
	NotifyAll      = "all"
	NotifyCritical = "critical"
	NotifyNone     = "none"
)

// History backends accepted in the history section.
const (
	HistoryBackendMemory   = "memory"
	HistoryBackendDatabase = "database"
)

// DefaultListenAddress is the status API address used when none is configured.
const DefaultListenAddress = "127.0.0.1:8765"

// EnvPrefix is the prefix of the daemon's environment variables.
const EnvPrefix = "BNDL"

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path string
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Resolve symlinks to prevent symlink attacks.
		// Note that this calls filepath.Clean internally.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		cfg.path = realPath
		return nil
	}
}

// Config represents the root configuration structure
type Config struct {
	// Hubs is the list of hub definition sources to synchronize against
	Hubs []HubConfig `yaml:"hubs"`

	// Updates configures the update scheduler and executor
	Updates UpdatesConfig `yaml:"updates,omitempty"`

	// History configures the sync history backend
	History HistoryConfig `yaml:"history,omitempty"`

	// Server configures the local status API
	Server ServerConfig `yaml:"server,omitempty"`

	// StateDir is where activation state and preferences are persisted.
	// Defaults to the user config directory.
	StateDir string `yaml:"stateDir,omitempty"`

	// Database is required when the history backend is "database"
	Database *DatabaseConfig `yaml:"database,omitempty"`
}

// HubConfig defines one hub definition source.
type HubConfig struct {
	sources.SourceConfig `yaml:",inline"`

	// DefaultProfile is the profile activated on first sync, when set
	DefaultProfile string `yaml:"defaultProfile,omitempty"`
}

// UpdatesConfig configures when checks run and how updates are applied.
type UpdatesConfig struct {
	// Enabled arms scheduled update checks
	Enabled bool `yaml:"enabled"`

	// Frequency is daily, weekly, or manual. Defaults to daily.
	Frequency string `yaml:"frequency,omitempty"`

	// AutoUpdate applies eligible updates automatically after a check
	AutoUpdate bool `yaml:"autoUpdate,omitempty"`

	// NotificationPreference is all, critical, or none. Defaults to all.
	NotificationPreference string `yaml:"notificationPreference,omitempty"`

	// BatchSize bounds concurrent updates within a batch run
	BatchSize int `yaml:"batchSize,omitempty"`

	// StartupCheckDelay delays the first check after startup (e.g. "5s")
	StartupCheckDelay string `yaml:"startupCheckDelay,omitempty"`

	// CheckTimeout bounds one update check (e.g. "30s")
	CheckTimeout string `yaml:"checkTimeout,omitempty"`

	// CacheTTL is how long check results are served from cache (e.g. "5m")
	CacheTTL string `yaml:"cacheTTL,omitempty"`
}

// HistoryConfig selects the sync history backend.
type HistoryConfig struct {
	// Backend is memory (default) or database
	Backend string `yaml:"backend,omitempty"`
}

// ServerConfig configures the local status API.
type ServerConfig struct {
	// Address is the listen address. Defaults to DefaultListenAddress.
	Address string `yaml:"address,omitempty"`
}

// DatabaseConfig defines database connection settings
type DatabaseConfig struct {
	// Host is the database server hostname or IP address
	Host string `yaml:"host"`

	// Port is the database server port
	Port int `yaml:"port"`

	// User is the database username
	User string `yaml:"user"`

	// PasswordFile is the path to a file containing the database password.
	// The file should contain only the password with optional trailing
	// whitespace.
	PasswordFile string `yaml:"passwordFile,omitempty"`

	// Database is the database name
	Database string `yaml:"database"`

	// SSLMode is the SSL mode for the connection (disable, require,
	// verify-ca, verify-full)
	SSLMode string `yaml:"sslMode,omitempty"`
}

// GetPassword returns the database password, reading PasswordFile when set
// and falling back to the BNDL_DATABASE_PASSWORD environment variable.
func (d *DatabaseConfig) GetPassword() (string, error) {
	if d.PasswordFile != "" {
		cleanPath := filepath.Clean(d.PasswordFile)
		data, err := os.ReadFile(cleanPath)
		if err != nil {
			return "", fmt.Errorf("failed to read password from file %s: %w", d.PasswordFile, err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	if envPassword := os.Getenv("BNDL_DATABASE_PASSWORD"); envPassword != "" {
		return envPassword, nil
	}

	return "", fmt.Errorf(
		"no database password configured: set passwordFile or BNDL_DATABASE_PASSWORD environment variable",
	)
}

// GetConnectionString builds a PostgreSQL connection string. The password is
// URL-escaped to handle special characters safely.
func (d *DatabaseConfig) GetConnectionString() (string, error) {
	password, err := d.GetPassword()
	if err != nil {
		return "", err
	}

	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "require"
	}

	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User,
		url.QueryEscape(password),
		d.Host,
		d.Port,
		d.Database,
		sslMode,
	), nil
}

// LoadConfig loads and parses configuration from a YAML file
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	if loaderCfg.path == "" {
		return nil, fmt.Errorf("path is required")
	}

	data, err := os.ReadFile(loaderCfg.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// GetListenAddress returns the status API address, defaulted when unset.
func (c *Config) GetListenAddress() string {
	if c.Server.Address == "" {
		return DefaultListenAddress
	}
	return c.Server.Address
}

// GetStateDir returns the state directory, defaulting to a bundlesync
// subdirectory of the user config directory.
func (c *Config) GetStateDir() (string, error) {
	if c.StateDir != "" {
		return c.StateDir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine user config directory: %w", err)
	}
	return filepath.Join(base, "bundlesync"), nil
}

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if len(c.Hubs) == 0 {
		return fmt.Errorf("at least one hub must be configured")
	}

	hubIDs := make(map[string]bool)
	for i, hub := range c.Hubs {
		if hub.ID == "" {
			return fmt.Errorf("hub[%d]: id is required", i)
		}
		if hubIDs[hub.ID] {
			return fmt.Errorf("hub[%d]: duplicate hub id '%s'", i, hub.ID)
		}
		hubIDs[hub.ID] = true

		if hub.Type() == "" {
			return fmt.Errorf("hub[%d]: one of file, http, or git must be set", i)
		}
	}

	if err := c.Updates.validate(); err != nil {
		return err
	}

	switch c.History.Backend {
	case "", HistoryBackendMemory:
	case HistoryBackendDatabase:
		if c.Database == nil {
			return fmt.Errorf("history backend 'database' requires a database section")
		}
	default:
		return fmt.Errorf("unknown history backend '%s'", c.History.Backend)
	}

	if c.Database != nil {
		if c.Database.Host == "" {
			return fmt.Errorf("database: host is required")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			return fmt.Errorf("database: port must be between 1 and 65535")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database: user is required")
		}
		if c.Database.Database == "" {
			return fmt.Errorf("database: database name is required")
		}
	}

	return nil
}

func (u *UpdatesConfig) validate() error {
	switch u.Frequency {
	case "", FrequencyDaily, FrequencyWeekly, FrequencyManual:
	default:
		return fmt.Errorf("updates: unknown frequency '%s'", u.Frequency)
	}

	switch u.NotificationPreference {
	case "", NotifyAll, NotifyCritical, NotifyNone:
	default:
		return fmt.Errorf("updates: unknown notification preference '%s'", u.NotificationPreference)
	}

	if u.BatchSize < 0 {
		return fmt.Errorf("updates: batchSize cannot be negative")
	}

	for _, d := range []struct {
		name  string
		value string
	}{
		{"startupCheckDelay", u.StartupCheckDelay},
		{"checkTimeout", u.CheckTimeout},
		{"cacheTTL", u.CacheTTL},
	} {
		if d.value == "" {
			continue
		}
		if _, err := time.ParseDuration(d.value); err != nil {
			return fmt.Errorf("updates: invalid %s '%s': %w", d.name, d.value, err)
		}
	}
	return nil
}

// Duration parses a validated duration field, returning fallback when empty.
func Duration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
