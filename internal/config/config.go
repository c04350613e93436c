// Package config defines the top-level configuration for the projectx-mcp
// server and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Gateway base URLs per environment. base_url in config overrides both.
const (
	DemoBaseURL = "https://gateway-api-demo.s2f.projectx.com/api"
	LiveBaseURL = "https://api.topstepx.com/api"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by PROJECTX_* environment
// variables.
type Config struct {
	ProjectX ProjectXConfig `toml:"projectx"`
	Cache    CacheConfig    `toml:"cache"`
	Mode     string         `toml:"mode"`
	LogLevel string         `toml:"log_level"`
}

// ProjectXConfig holds gateway credentials and endpoint selection.
type ProjectXConfig struct {
	Username string `toml:"username"`
	// APIKey is the plaintext gateway API key. Leave empty and set
	// APIKeyFile + APIKeyPassword to load the key from an encrypted file.
	APIKey         string `toml:"api_key"`
	APIKeyFile     string `toml:"api_key_file"`
	APIKeyPassword string `toml:"api_key_password"`
	// Environment selects the gateway host: "demo" or "live".
	Environment string `toml:"environment"`
	// BaseURL, when set, overrides the environment mapping entirely.
	BaseURL string `toml:"base_url"`
}

// ResolveBaseURL returns the gateway API root for the configured target.
func (p ProjectXConfig) ResolveBaseURL() string {
	if p.BaseURL != "" {
		return strings.TrimRight(p.BaseURL, "/")
	}
	if strings.EqualFold(p.Environment, "live") {
		return LiveBaseURL
	}
	return DemoBaseURL
}

// CacheConfig holds reference-data cache parameters.
type CacheConfig struct {
	// Symbols is the allow-list of contract symbols fetched eagerly at
	// startup and on every refresh.
	Symbols         []string `toml:"symbols"`
	RefreshInterval duration `toml:"refresh_interval"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "5m", "30s").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "5m" or "30s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values.
// These match the values in config.example.toml.
func Defaults() Config {
	return Config{
		ProjectX: ProjectXConfig{
			Environment: "demo",
		},
		Cache: CacheConfig{
			Symbols:         []string{"MES", "MNQ", "ES", "NQ", "M2K", "MYM", "RTY", "YM", "MGC", "MCL"},
			RefreshInterval: duration{5 * time.Minute},
		},
		Mode:     "serve",
		LogLevel: "info",
	}
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"serve":       true,
	"check":       true,
	"encrypt-key": true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validEnvironments enumerates the accepted gateway targets.
var validEnvironments = map[string]bool{
	"demo": true,
	"live": true,
}

// Validate checks Config for obviously invalid or missing values and returns
// a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	mode := strings.ToLower(c.Mode)
	if !validModes[mode] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: serve, check, encrypt-key)", c.Mode))
	}

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Gateway target: either a known environment or an explicit base URL.
	if c.ProjectX.BaseURL == "" && !validEnvironments[strings.ToLower(c.ProjectX.Environment)] {
		errs = append(errs, fmt.Sprintf("projectx: unknown environment %q (valid: demo, live; or set base_url)", c.ProjectX.Environment))
	}

	// Credentials. encrypt-key needs the plaintext key plus the file target;
	// serve and check need a username and one key source.
	if mode == "encrypt-key" {
		if c.ProjectX.APIKey == "" {
			errs = append(errs, "projectx: api_key (plaintext) is required for mode encrypt-key")
		}
		if c.ProjectX.APIKeyFile == "" {
			errs = append(errs, "projectx: api_key_file (output path) is required for mode encrypt-key")
		}
		if c.ProjectX.APIKeyPassword == "" {
			errs = append(errs, "projectx: api_key_password is required for mode encrypt-key")
		}
	} else {
		if c.ProjectX.Username == "" {
			errs = append(errs, "projectx: username must not be empty")
		}
		if c.ProjectX.APIKey == "" && c.ProjectX.APIKeyFile == "" {
			errs = append(errs, "projectx: either api_key or api_key_file must be set")
		}
		if c.ProjectX.APIKey == "" && c.ProjectX.APIKeyFile != "" && c.ProjectX.APIKeyPassword == "" {
			errs = append(errs, "projectx: api_key_password is required when api_key_file is set")
		}
	}

	// Cache
	if c.Cache.RefreshInterval.Duration <= 0 {
		errs = append(errs, "cache: refresh_interval must be positive")
	}
	for _, s := range c.Cache.Symbols {
		if strings.TrimSpace(s) == "" {
			errs = append(errs, "cache: symbols must not contain empty entries")
			break
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
