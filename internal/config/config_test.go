package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validYAML = `
server:
  host: 127.0.0.1
  port: 8080
database:
  host: localhost
  port: 5432
  name: gymlog
  user: gymlog
  password: secret
auth:
  api_key: test-key
tailscale:
  enabled: false
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}

// TestLoadValid verifies a well-formed file parses into the expected values.
func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("server.host = %q, want %q", cfg.Server.Host, "127.0.0.1")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Name != "gymlog" {
		t.Errorf("database.name = %q, want %q", cfg.Database.Name, "gymlog")
	}
	if cfg.Auth.APIKey != "test-key" {
		t.Errorf("auth.api_key = %q, want %q", cfg.Auth.APIKey, "test-key")
	}
	if cfg.Tailscale.Enabled {
		t.Error("tailscale.enabled = true, want false")
	}
}

// TestLoadMissingFile verifies a nonexistent path errors.
func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Load succeeded with missing file")
	}
}

// TestLoadInvalidYAML verifies parse errors surface.
func TestLoadInvalidYAML(t *testing.T) {
	if _, err := Load(writeTemp(t, "server: [not a map")); err == nil {
		t.Fatal("Load succeeded with invalid YAML")
	}
}

// TestEnvOverrides verifies GYMLOG_ environment variables win over file
// values.
func TestEnvOverrides(t *testing.T) {
	t.Setenv("GYMLOG_SERVER_PORT", "9090")
	t.Setenv("GYMLOG_DB_HOST", "db.internal")
	t.Setenv("GYMLOG_DB_PASSWORD", "env-secret")
	t.Setenv("GYMLOG_AUTH_API_KEY", "env-key")

	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("database.host = %q, want %q", cfg.Database.Host, "db.internal")
	}
	if cfg.Database.Password != "env-secret" {
		t.Errorf("database.password = %q, want %q", cfg.Database.Password, "env-secret")
	}
	if cfg.Auth.APIKey != "env-key" {
		t.Errorf("auth.api_key = %q, want %q", cfg.Auth.APIKey, "env-key")
	}
}

// TestValidation covers the required-field checks.
func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s string) string
		wantErr string
	}{
		{
			name:    "missing server port",
			mutate:  func(s string) string { return strings.Replace(s, "port: 8080", "port: 0", 1) },
			wantErr: "server.port",
		},
		{
			name:    "missing database host",
			mutate:  func(s string) string { return strings.Replace(s, "host: localhost", "host: \"\"", 1) },
			wantErr: "database.host",
		},
		{
			name:    "missing api key",
			mutate:  func(s string) string { return strings.Replace(s, "api_key: test-key", "api_key: \"\"", 1) },
			wantErr: "auth.api_key",
		},
		{
			name:    "tailscale without hostname",
			mutate:  func(s string) string { return strings.Replace(s, "enabled: false", "enabled: true", 1) },
			wantErr: "tailscale.hostname",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeTemp(t, tt.mutate(validYAML)))
			if err == nil {
				t.Fatal("Load succeeded, want validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

// TestTailscaleEnabledNoServerPort verifies a tsnet-only config needs no
// server port.
func TestTailscaleEnabledNoServerPort(t *testing.T) {
	yaml := strings.Replace(validYAML, "port: 8080", "port: 0", 1)
	yaml = strings.Replace(yaml, "enabled: false", "enabled: true\n  hostname: gymlog", 1)

	cfg, err := Load(writeTemp(t, yaml))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Tailscale.Enabled || cfg.Tailscale.Hostname != "gymlog" {
		t.Errorf("tailscale = %+v, want enabled with hostname gymlog", cfg.Tailscale)
	}
}

// TestDSN verifies the connection string format and the sslmode default.
func TestDSN(t *testing.T) {
	db := DatabaseConfig{
		Host: "localhost", Port: 5432, Name: "gymlog",
		User: "app", Password: "pw",
	}

	want := "postgres://app:pw@localhost:5432/gymlog?sslmode=disable"
	if got := db.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}

	db.SSLMode = "require"
	want = "postgres://app:pw@localhost:5432/gymlog?sslmode=require"
	if got := db.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
