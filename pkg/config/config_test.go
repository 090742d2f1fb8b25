package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalConfig = `
service_name = "inventory"

[database]
dsn = "user:pass@tcp(localhost:3306)/inventory"
`

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.HTTP.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.HTTP.Port)
	}
	if cfg.HTTP.SignInURL != "/sign-in" {
		t.Fatalf("expected default sign-in url, got %s", cfg.HTTP.SignInURL)
	}
	if cfg.Session.TTL != 86400 {
		t.Fatalf("expected default session ttl, got %d", cfg.Session.TTL)
	}
	if cfg.Session.CookieName != "session_token" {
		t.Fatalf("expected default cookie name, got %s", cfg.Session.CookieName)
	}
	if cfg.Environment != "dev" {
		t.Fatalf("expected dev environment, got %s", cfg.Environment)
	}
}

func TestLoadValidation(t *testing.T) {
	t.Run("missing service name", func(t *testing.T) {
		_, err := Load(writeConfig(t, `
[database]
dsn = "x"
`))
		if err == nil {
			t.Fatal("expected validation error")
		}
	})

	t.Run("missing dsn", func(t *testing.T) {
		_, err := Load(writeConfig(t, `service_name = "inventory"`))
		if err == nil {
			t.Fatal("expected validation error")
		}
	})
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("APP_HTTP_PORT", "9999")

	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 9999 {
		t.Fatalf("expected env override 9999, got %d", cfg.HTTP.Port)
	}
}
