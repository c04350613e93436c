package config

// RedactedConfig returns a copy of cfg with sensitive fields replaced by the
// redaction placeholder "***". Use this when logging or printing the active
// configuration so credentials never reach the log stream.
func RedactedConfig(cfg *Config) Config {
	out := *cfg

	redact(&out.ProjectX.APIKey)
	redact(&out.ProjectX.APIKeyPassword)

	// Symbols is the only slice; copy it so callers cannot mutate the
	// original through the redacted value.
	out.Cache.Symbols = append([]string(nil), cfg.Cache.Symbols...)

	return out
}

const redacted = "***"

// redact replaces a non-empty string with the redacted placeholder.
func redact(s *string) {
	if *s != "" {
		*s = redacted
	}
}
