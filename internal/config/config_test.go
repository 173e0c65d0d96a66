//go:build !integration

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "OPENAI_BASE_URL", "ANTHROPIC_API_KEY", "AI_PROVIDER", "AI_MODEL", "STUDY_HTTP_ADDR", "REDIS_URL", "JWT_SECRET", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("missing file falls back to defaults", func(t *testing.T) {
		clearEnv(t)
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), true)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.HTTP.Addr != "127.0.0.1:8000" {
			t.Errorf("unexpected addr %q", cfg.HTTP.Addr)
		}
		if cfg.Chat.HistoryContext != 5 {
			t.Errorf("expected history context 5, got %d", cfg.Chat.HistoryContext)
		}
		if cfg.Redis.TTL != 24*time.Hour {
			t.Errorf("expected default ttl, got %s", cfg.Redis.TTL)
		}
		if cfg.AI.Provider != "" {
			t.Errorf("no keys configured; expected empty provider, got %q", cfg.AI.Provider)
		}
		if !cfg.Runtime.Dev {
			t.Error("dev flag not propagated")
		}
	})

	t.Run("environment overrides the file", func(t *testing.T) {
		clearEnv(t)
		path := writeConfig(t, "http:\n  addr: \":9000\"\nai:\n  default_model: file-model\n")
		t.Setenv("GEMINI_API_KEY", "g-key")
		t.Setenv("AI_MODEL", "gemini-2.0-flash")

		cfg, err := LoadConfig(path, false)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.HTTP.Addr != ":9000" {
			t.Errorf("file value lost: %q", cfg.HTTP.Addr)
		}
		if cfg.AI.Provider != "gemini" || cfg.AI.GeminiKey != "g-key" {
			t.Errorf("expected gemini provider from env key, got %q", cfg.AI.Provider)
		}
		if cfg.AI.DefaultModel != "gemini-2.0-flash" {
			t.Errorf("expected env model, got %q", cfg.AI.DefaultModel)
		}
	})

	t.Run("openai key selects openai defaults", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("OPENAI_API_KEY", "o-key")
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), false)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.AI.Provider != "openai" || cfg.AI.DefaultModel != "gpt-4o-mini" {
			t.Errorf("got provider=%q model=%q", cfg.AI.Provider, cfg.AI.DefaultModel)
		}
	})

	t.Run("anthropic key selects claude", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ANTHROPIC_API_KEY", "a-key")
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), false)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.AI.Provider != "anthropic" || cfg.AI.DefaultModel != "claude-haiku-4-5" {
			t.Errorf("got provider=%q model=%q", cfg.AI.Provider, cfg.AI.DefaultModel)
		}
	})

	t.Run("invalid settings are rejected", func(t *testing.T) {
		testCases := []struct {
			name string
			body string
		}{
			{"provider without key", "ai:\n  provider: openai\n"},
			{"anthropic without key", "ai:\n  provider: anthropic\n"},
			{"unknown provider", "ai:\n  provider: llama\n"},
			{"bad encryption key", "security:\n  encryption_key: short\n"},
			{"malformed yaml", "http: [\n"},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				clearEnv(t)
				if _, err := LoadConfig(writeConfig(t, tc.body), false); err == nil {
					t.Fatal("expected an error, got nil")
				}
			})
		}
	})
}
