package config

import "fmt"

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks startup-time constraints. Platform credentials are deliberately
// not required here: missing Supabase or Groq credentials surface as configuration
// faults on the first request that needs them, matching the per-request error taxonomy.
func Validate(cfg *Config) error {
	if cfg.ServerPort == "" {
		return ValidationError{Field: "SERVER_PORT", Message: "must not be empty"}
	}
	if cfg.DefaultProvider != "groq" {
		return ValidationError{Field: "DEFAULT_PROVIDER", Message: "unsupported provider"}
	}
	switch cfg.LogFormat {
	case "json", "console":
	default:
		return ValidationError{Field: "LOG_FORMAT", Message: "must be json or console"}
	}
	return nil
}
