package config

import (
	"log/slog"
	"testing"
	"time"
)

// --- LoadConfig ---

func TestLoadConfig(t *testing.T) {
	// Helper sets the minimum required env vars for a valid config
	setRequired := func(t *testing.T) {
		t.Helper()
		t.Setenv("SUPABASE_URL", "https://abcdefgh.supabase.co")
		t.Setenv("SUPABASE_ANON_KEY", "anon-key")
		// Unset fallbacks so subtests control them explicitly.
		t.Setenv("NEXT_PUBLIC_SUPABASE_URL", "")
		t.Setenv("NEXT_PUBLIC_SUPABASE_ANON_KEY", "")
	}

	t.Run("returns valid config with all required vars", func(t *testing.T) {
		setRequired(t)

		cfg, err := LoadConfig()
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.SupabaseURL != "https://abcdefgh.supabase.co" {
			t.Errorf("SupabaseURL: got %q", cfg.SupabaseURL)
		}
		if cfg.SupabaseAnonKey != "anon-key" {
			t.Errorf("SupabaseAnonKey: got %q", cfg.SupabaseAnonKey)
		}
	})

	t.Run("errors when SUPABASE_URL is missing", func(t *testing.T) {
		t.Setenv("SUPABASE_URL", "")
		t.Setenv("NEXT_PUBLIC_SUPABASE_URL", "")
		t.Setenv("SUPABASE_ANON_KEY", "anon-key")

		_, err := LoadConfig()
		if err == nil {
			t.Fatal("expected error for missing SUPABASE_URL, got nil")
		}
	})

	t.Run("errors when SUPABASE_ANON_KEY is missing", func(t *testing.T) {
		t.Setenv("SUPABASE_URL", "https://abcdefgh.supabase.co")
		t.Setenv("SUPABASE_ANON_KEY", "")
		t.Setenv("NEXT_PUBLIC_SUPABASE_ANON_KEY", "")

		_, err := LoadConfig()
		if err == nil {
			t.Fatal("expected error for missing SUPABASE_ANON_KEY, got nil")
		}
	})

	t.Run("accepts NEXT_PUBLIC_ fallbacks", func(t *testing.T) {
		t.Setenv("SUPABASE_URL", "")
		t.Setenv("SUPABASE_ANON_KEY", "")
		t.Setenv("NEXT_PUBLIC_SUPABASE_URL", "https://fallback.supabase.co")
		t.Setenv("NEXT_PUBLIC_SUPABASE_ANON_KEY", "fallback-key")

		cfg, err := LoadConfig()
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.SupabaseURL != "https://fallback.supabase.co" {
			t.Errorf("SupabaseURL: got %q", cfg.SupabaseURL)
		}
		if cfg.SupabaseAnonKey != "fallback-key" {
			t.Errorf("SupabaseAnonKey: got %q", cfg.SupabaseAnonKey)
		}
	})

	t.Run("prefers SUPABASE_URL over the fallback", func(t *testing.T) {
		setRequired(t)
		t.Setenv("NEXT_PUBLIC_SUPABASE_URL", "https://other.supabase.co")

		cfg, err := LoadConfig()
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.SupabaseURL != "https://abcdefgh.supabase.co" {
			t.Errorf("SupabaseURL: got %q", cfg.SupabaseURL)
		}
	})

	t.Run("defaults PORT to 8080", func(t *testing.T) {
		setRequired(t)
		t.Setenv("PORT", "")

		cfg, err := LoadConfig()
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.Port != "8080" {
			t.Errorf("Port: expected %q, got %q", "8080", cfg.Port)
		}
	})

	t.Run("uses custom PORT when set", func(t *testing.T) {
		setRequired(t)
		t.Setenv("PORT", "9090")

		cfg, err := LoadConfig()
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.Port != "9090" {
			t.Errorf("Port: expected %q, got %q", "9090", cfg.Port)
		}
	})

	t.Run("CookieSecure defaults to true when unset", func(t *testing.T) {
		setRequired(t)
		t.Setenv("COOKIE_SECURE", "")

		cfg, err := LoadConfig()
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if !cfg.CookieSecure {
			t.Error("CookieSecure should default to true when COOKIE_SECURE is unset")
		}
	})

	t.Run("CookieSecure is false only when explicitly set to false", func(t *testing.T) {
		setRequired(t)
		t.Setenv("COOKIE_SECURE", "false")

		cfg, err := LoadConfig()
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.CookieSecure {
			t.Error("CookieSecure should be false when COOKIE_SECURE is \"false\"")
		}
	})

	t.Run("parses LOG_LEVEL", func(t *testing.T) {
		setRequired(t)
		t.Setenv("LOG_LEVEL", "debug")

		cfg, err := LoadConfig()
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.LogLevel != slog.LevelDebug {
			t.Errorf("LogLevel: expected debug, got %v", cfg.LogLevel)
		}
	})

	t.Run("SupabaseTimeout falls back on garbage", func(t *testing.T) {
		setRequired(t)
		t.Setenv("SUPABASE_TIMEOUT", "soon")

		cfg, err := LoadConfig()
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.SupabaseTimeout != 10*time.Second {
			t.Errorf("SupabaseTimeout: expected 10s default, got %v", cfg.SupabaseTimeout)
		}
	})
}
