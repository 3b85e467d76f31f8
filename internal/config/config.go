// config.go

// Environment variable loading and validation.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Config holds all env configuration vars for the dashboard.
type Config struct {
	SupabaseURL     string
	SupabaseAnonKey string
	Port            string
	CookieDomain    string
	CookieSecure    bool
	LogLevel        slog.Level

	// TouchEventURL is shown on the dashboard so firmware can be pointed at
	// the edge function. The function itself is external to this service.
	TouchEventURL string

	// SupabaseTimeout bounds every outbound Supabase call. Default 10s.
	SupabaseTimeout time.Duration
}

// LoadConfig reads environment variables and returns a validated Config.
// The Supabase credentials are required; the NEXT_PUBLIC_-prefixed names are
// accepted as fallbacks so an existing frontend env file keeps working.
// Missing credentials are a fatal configuration error -- the process must
// refuse to serve rather than call the provider with empty keys.
func LoadConfig() (*Config, error) {
	cfg := &Config{}

	cfg.SupabaseURL = firstEnv("SUPABASE_URL", "NEXT_PUBLIC_SUPABASE_URL")
	if cfg.SupabaseURL == "" {
		return nil, fmt.Errorf("SUPABASE_URL is required (or NEXT_PUBLIC_SUPABASE_URL)")
	}

	cfg.SupabaseAnonKey = firstEnv("SUPABASE_ANON_KEY", "NEXT_PUBLIC_SUPABASE_ANON_KEY")
	if cfg.SupabaseAnonKey == "" {
		return nil, fmt.Errorf("SUPABASE_ANON_KEY is required (or NEXT_PUBLIC_SUPABASE_ANON_KEY)")
	}

	cfg.Port = os.Getenv("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	cfg.CookieDomain = os.Getenv("COOKIE_DOMAIN")

	// Default true -- only explicit "false" disables (local dev over plain http).
	cfg.CookieSecure = os.Getenv("COOKIE_SECURE") != "false"

	cfg.TouchEventURL = firstEnv("TOUCH_EVENT_URL", "NEXT_PUBLIC_TOUCH_EVENT_URL")
	if cfg.TouchEventURL == "" {
		cfg.TouchEventURL = "https://<project-ref>.supabase.co/functions/v1/touch-event"
	}

	// Parse log level, default to info.
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		cfg.LogLevel = slog.LevelDebug
	case "warn":
		cfg.LogLevel = slog.LevelWarn
	case "error":
		cfg.LogLevel = slog.LevelError
	default:
		cfg.LogLevel = slog.LevelInfo
	}

	cfg.SupabaseTimeout = envDuration("SUPABASE_TIMEOUT", 10*time.Second)

	return cfg, nil
}

// firstEnv returns the first non-empty value among the given env vars.
func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

// envDuration reads an env var as time.Duration, returning def if missing or unparseable.
func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid env var, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}
