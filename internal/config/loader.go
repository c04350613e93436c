package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies PROJECTX_* environment variable overrides, and
// returns the final Config. A missing config file is not an error: MCP
// launchers commonly configure the server through environment variables
// alone. The returned Config has NOT been validated; the caller should
// invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: stat %s: %w", path, err)
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known PROJECTX_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e.
// not empty). This lets operators inject credentials at deploy time without
// touching the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Gateway ──
	setStr(&cfg.ProjectX.Username, "PROJECTX_USERNAME")
	setStr(&cfg.ProjectX.APIKey, "PROJECTX_API_KEY")
	setStr(&cfg.ProjectX.APIKeyFile, "PROJECTX_API_KEY_FILE")
	setStr(&cfg.ProjectX.APIKeyPassword, "PROJECTX_API_KEY_PASSWORD")
	setStr(&cfg.ProjectX.Environment, "PROJECTX_ENVIRONMENT")
	setStr(&cfg.ProjectX.Environment, "PROJECTX_ENV") // compatibility alias
	setStr(&cfg.ProjectX.BaseURL, "PROJECTX_BASE_URL")

	// ── Cache ──
	setStringSlice(&cfg.Cache.Symbols, "PROJECTX_MCP_SYMBOLS")
	setDuration(&cfg.Cache.RefreshInterval, "PROJECTX_MCP_REFRESH_INTERVAL")

	// ── Top-level ──
	setStr(&cfg.Mode, "PROJECTX_MCP_MODE")
	setStr(&cfg.LogLevel, "PROJECTX_MCP_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
