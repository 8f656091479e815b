package config

import (
	"fmt"
	"strings"

	"github.com/joeshaw/envdecode"
)

// Config holds all configuration for the application. It is decoded once at
// process start and passed by reference; nothing reads the environment after that.
type Config struct {
	// Server configuration
	ServerHost string `env:"SERVER_HOST,default=0.0.0.0"`
	ServerPort string `env:"SERVER_PORT,default=8000"`

	// Supabase platform configuration
	SupabaseURL            string `env:"SUPABASE_URL,default="`
	SupabaseAnonKey        string `env:"SUPABASE_ANON_KEY,default="`
	SupabaseServiceRoleKey string `env:"SUPABASE_SERVICE_ROLE_KEY,default="`
	SupabaseKey            string `env:"SUPABASE_KEY,default="`
	SupabaseJWTSecret      string `env:"SUPABASE_JWT_SECRET,default="`

	// LLM platform configuration
	GroqAPIKey      string `env:"GROQ_API_KEY,default="`
	GroqAPIURL      string `env:"GROQ_API_URL,default=https://api.groq.com/openai/v1"`
	DefaultProvider string `env:"DEFAULT_PROVIDER,default=groq"`

	// Redis configuration (rate limiting; limiter is disabled when unset)
	RedisAddr     string `env:"REDIS_ADDR,default="`
	RedisPassword string `env:"REDIS_PASSWORD,default="`
	RedisDB       int    `env:"REDIS_DB,default=0"`

	// Logging configuration
	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=json"`

	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS,default=http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173,http://127.0.0.1:5173,http://localhost:8080,http://127.0.0.1:8080"`
}

// Load decodes the configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envdecode.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// AuthAPIKey returns the key used when talking to the auth endpoints.
func (c *Config) AuthAPIKey() string {
	if c.SupabaseAnonKey != "" {
		return c.SupabaseAnonKey
	}
	return c.SupabaseKey
}

// DBAPIKey returns the key used when talking to the row-store endpoints.
func (c *Config) DBAPIKey() string {
	if c.SupabaseServiceRoleKey != "" {
		return c.SupabaseServiceRoleKey
	}
	if c.SupabaseKey != "" {
		return c.SupabaseKey
	}
	return c.SupabaseAnonKey
}

// CORSOrigins returns the configured allowed origins as a slice.
func (c *Config) CORSOrigins() []string {
	parts := strings.Split(c.CORSAllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
