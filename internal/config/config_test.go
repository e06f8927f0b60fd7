package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("WHIZOR_CONFIG", path)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("WHIZOR_CONFIG", filepath.Join(t.TempDir(), "does-not-exist.toml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("log defaults = %+v", cfg.Log)
	}
	if cfg.Postgres.Port != 5432 || cfg.Postgres.SSLMode != "disable" {
		t.Errorf("postgres defaults = %+v", cfg.Postgres)
	}
}

func TestLoadFromTOML(t *testing.T) {
	writeConfig(t, `
[server]
addr = ":9999"

[whatsapp]
access_token = "tok"
phone_number_id = "9001"
verify_token = "vt"

[postgres]
host = "db.internal"
port = 5433
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Addr != ":9999" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.WhatsApp.AccessToken != "tok" || cfg.WhatsApp.PhoneNumberID != "9001" {
		t.Errorf("whatsapp = %+v", cfg.WhatsApp)
	}
	if cfg.Postgres.Host != "db.internal" || cfg.Postgres.Port != 5433 {
		t.Errorf("postgres = %+v", cfg.Postgres)
	}
	// Defaults survive for fields the file omits.
	if cfg.Postgres.SSLMode != "disable" {
		t.Errorf("sslmode = %q, want default", cfg.Postgres.SSLMode)
	}
}

func TestEnvOverridesTOML(t *testing.T) {
	writeConfig(t, `
[whatsapp]
access_token = "from-file"
`)
	t.Setenv("WHATSAPP_TOKEN", "from-env")
	t.Setenv("WHIZOR_PG_PORT", "6543")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.WhatsApp.AccessToken != "from-env" {
		t.Errorf("access token = %q, env must win", cfg.WhatsApp.AccessToken)
	}
	if cfg.Postgres.Port != 6543 {
		t.Errorf("port = %d, want env override", cfg.Postgres.Port)
	}
}

func TestPortEnvFallback(t *testing.T) {
	t.Setenv("WHIZOR_CONFIG", filepath.Join(t.TempDir(), "none.toml"))
	t.Setenv("PORT", "10000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":10000" {
		t.Errorf("addr = %q, want :10000", cfg.Server.Addr)
	}
}

func TestValidate(t *testing.T) {
	cfg := defaults()
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing credentials")
	}

	cfg.WhatsApp = WhatsAppConfig{
		AccessToken:   "tok",
		PhoneNumberID: "9001",
		VerifyToken:   "vt",
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}
