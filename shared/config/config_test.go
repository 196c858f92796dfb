package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"GEMINI_API_KEY", "API_KEY", "PORT"} {
		t.Setenv(key, "")
	}
	// Keep godotenv from picking up a developer's .env
	t.Chdir(t.TempDir())
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", writeConfig(t, "ai:\n  gemini_api_key: test-key\n"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.AI.Model != "gemini-2.5-flash" {
		t.Errorf("Model = %s, want gemini-2.5-flash", cfg.AI.Model)
	}
	if cfg.AI.Temperature != 0.7 {
		t.Errorf("Temperature = %v, want 0.7", cfg.AI.Temperature)
	}
	if cfg.AI.RequestTimeout() != 60*time.Second {
		t.Errorf("RequestTimeout() = %v, want 60s", cfg.AI.RequestTimeout())
	}
	if cfg.Server.Addr() != ":8080" {
		t.Errorf("Addr() = %s, want :8080", cfg.Server.Addr())
	}
	if cfg.Sessions.MaxIdle() != time.Hour {
		t.Errorf("MaxIdle() = %v, want 1h", cfg.Sessions.MaxIdle())
	}
	if cfg.Sessions.MaxSessions != 10000 {
		t.Errorf("MaxSessions = %d, want 10000", cfg.Sessions.MaxSessions)
	}
	if cfg.Sessions.SweepSchedule != "0 */5 * * * *" {
		t.Errorf("SweepSchedule = %s", cfg.Sessions.SweepSchedule)
	}
	if cfg.RateLimit.PerMinute != 10 || cfg.RateLimit.Burst != 3 {
		t.Errorf("RateLimit = %+v, want 10/3", cfg.RateLimit)
	}
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", writeConfig(t, `
ai:
  gemini_api_key: file-key
  model: gemini-2.5-pro
  temperature: 0.2
server:
  port: 9090
  refresh_seconds: 5
sessions:
  max_idle_minutes: 15
rate_limit:
  per_minute: 4
  burst: 1
`))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.AI.GeminiAPIKey != "file-key" {
		t.Errorf("GeminiAPIKey = %s, want file-key", cfg.AI.GeminiAPIKey)
	}
	if cfg.AI.Model != "gemini-2.5-pro" {
		t.Errorf("Model = %s, want gemini-2.5-pro", cfg.AI.Model)
	}
	if cfg.AI.Temperature != 0.2 {
		t.Errorf("Temperature = %v, want 0.2", cfg.AI.Temperature)
	}
	if cfg.Server.Port != 9090 || cfg.Server.RefreshSeconds != 5 {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Sessions.MaxIdleMinutes != 15 {
		t.Errorf("MaxIdleMinutes = %d, want 15", cfg.Sessions.MaxIdleMinutes)
	}
	if cfg.RateLimit.PerMinute != 4 || cfg.RateLimit.Burst != 1 {
		t.Errorf("RateLimit = %+v", cfg.RateLimit)
	}
}

func TestLoadEnvironmentFallbacks(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantKey string
	}{
		{
			name:    "GEMINI_API_KEY",
			env:     map[string]string{"GEMINI_API_KEY": "gemini-key"},
			wantKey: "gemini-key",
		},
		{
			name:    "API_KEY",
			env:     map[string]string{"API_KEY": "plain-key"},
			wantKey: "plain-key",
		},
		{
			name:    "GEMINI_API_KEY wins",
			env:     map[string]string{"GEMINI_API_KEY": "gemini-key", "API_KEY": "plain-key"},
			wantKey: "gemini-key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("CONFIG_FILE", writeConfig(t, "server:\n  port: 8081\n"))
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if cfg.AI.GeminiAPIKey != tt.wantKey {
				t.Errorf("GeminiAPIKey = %s, want %s", cfg.AI.GeminiAPIKey, tt.wantKey)
			}
		})
	}
}

func TestLoadPortFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", writeConfig(t, "ai:\n  gemini_api_key: k\nserver:\n  port: 9090\n"))
	t.Setenv("PORT", "3000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("Port = %d, want 3000", cfg.Server.Port)
	}

	t.Setenv("PORT", "not-a-port")
	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid PORT")
	}
}

func TestLoadMissingAPIKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", writeConfig(t, "ai:\n  model: gemini-2.5-flash\n"))

	_, err := Load()
	if err == nil {
		t.Fatal("Expected error when API key is missing")
	}
	if !strings.Contains(err.Error(), "Gemini API key is required") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestLoadConfigFileErrors(t *testing.T) {
	t.Run("ExplicitFileMissing", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GEMINI_API_KEY", "k")
		t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

		if _, err := Load(); err == nil {
			t.Error("Expected error for missing explicit config file")
		}
	})

	t.Run("DefaultFileMissing", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GEMINI_API_KEY", "k")
		t.Setenv("CONFIG_FILE", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error: %v", err)
		}
		if cfg.AI.GeminiAPIKey != "k" {
			t.Errorf("GeminiAPIKey = %s, want k", cfg.AI.GeminiAPIKey)
		}
	})

	t.Run("InvalidYAML", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GEMINI_API_KEY", "k")
		t.Setenv("CONFIG_FILE", writeConfig(t, "ai: [unterminated"))

		if _, err := Load(); err == nil {
			t.Error("Expected error for invalid YAML")
		}
	})
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		cfg := Config{AI: AIConfig{GeminiAPIKey: "k"}}
		cfg.applyDefaults()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "Valid", mutate: func(c *Config) {}, wantErr: false},
		{name: "Temperature too high", mutate: func(c *Config) { c.AI.Temperature = 3 }, wantErr: true},
		{name: "Negative timeout", mutate: func(c *Config) { c.AI.RequestTimeoutSeconds = -1 }, wantErr: true},
		{name: "Port out of range", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: true},
		{name: "Negative rate", mutate: func(c *Config) { c.RateLimit.PerMinute = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
