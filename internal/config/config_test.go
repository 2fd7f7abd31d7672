package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	creds := writeFile(t, dir, "sa.json", "{}")
	cfgPath := writeFile(t, dir, "firedam.yaml", `
credentials: `+creds+`
project_id: dam-prod
transport:
  mode: http
  port: 9000
http:
  rate_limit: 5
log:
  format: json
`)

	cfg, err := Load(LoadOptions{ConfigFile: cfgPath, EnvFile: filepath.Join(dir, "missing.env")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.ProjectID != "dam-prod" {
		t.Errorf("expected project dam-prod, got %q", cfg.ProjectID)
	}
	if cfg.Transport.Mode != TransportHTTP || cfg.Transport.Port != 9000 {
		t.Errorf("unexpected transport: %+v", cfg.Transport)
	}
	if cfg.Transport.Host != "localhost" {
		t.Errorf("expected default host, got %q", cfg.Transport.Host)
	}
	if cfg.HTTP.RateBurst != 5 {
		t.Errorf("expected burst defaulted to rate, got %d", cfg.HTTP.RateBurst)
	}
	if cfg.Storage.Driver != StorageGCS || cfg.Backend != BackendFirebase {
		t.Errorf("unexpected defaults: backend=%q storage=%q", cfg.Backend, cfg.Storage.Driver)
	}
	if cfg.Addr() != "localhost:9000" {
		t.Errorf("unexpected addr %q", cfg.Addr())
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "firedam.yaml", "backend: memory\nfixtures:\n  path: a.yaml\n")
	t.Setenv("FIREDAM_FIXTURES_PATH", "b.yaml")
	t.Setenv("FIREDAM_TRANSPORT_PORT", "8123")

	cfg, err := Load(LoadOptions{ConfigFile: cfgPath, EnvFile: filepath.Join(dir, "missing.env")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Fixtures.Path != "b.yaml" {
		t.Errorf("expected env override, got %q", cfg.Fixtures.Path)
	}
	if cfg.Transport.Port != 8123 {
		t.Errorf("expected port 8123, got %d", cfg.Transport.Port)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := writeFile(t, dir, "test.env", "FIREDAM_BACKEND=snapshot\nFIREDAM_SNAPSHOT_PATH=/tmp/dam.db\n")
	t.Cleanup(func() {
		_ = os.Unsetenv("FIREDAM_BACKEND")
		_ = os.Unsetenv("FIREDAM_SNAPSHOT_PATH")
	})

	cfg, err := Load(LoadOptions{ConfigFile: writeFile(t, dir, "empty.yaml", "{}\n"), EnvFile: envFile})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Backend != BackendSnapshot || cfg.Snapshot.Path != "/tmp/dam.db" {
		t.Errorf("expected dotenv values, got backend=%q path=%q", cfg.Backend, cfg.Snapshot.Path)
	}
}

func TestLoad_FlagsWin(t *testing.T) {
	dir := t.TempDir()
	creds := writeFile(t, dir, "sa.json", "{}")
	cfgPath := writeFile(t, dir, "firedam.yaml", "transport:\n  mode: http\n")
	t.Setenv("FIREDAM_TRANSPORT_HOST", "0.0.0.0")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("google-credentials", "", "")
	flags.String("transport", "stdio", "")
	flags.String("host", "localhost", "")
	flags.Bool("debug", false, "")
	if err := flags.Parse([]string{"--google-credentials", creds, "--transport", "stdio", "--debug"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load(LoadOptions{ConfigFile: cfgPath, EnvFile: filepath.Join(dir, "missing.env"), Flags: flags})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Credentials != creds {
		t.Errorf("expected credentials from flag, got %q", cfg.Credentials)
	}
	if cfg.Transport.Mode != TransportStdio {
		t.Errorf("expected flag to override file, got %q", cfg.Transport.Mode)
	}
	if cfg.Transport.Host != "0.0.0.0" {
		t.Errorf("expected env to win over unchanged flag default, got %q", cfg.Transport.Host)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected --debug to force debug level, got %q", cfg.Log.Level)
	}
}

func TestLoad_MissingExplicitConfig(t *testing.T) {
	_, err := Load(LoadOptions{ConfigFile: filepath.Join(t.TempDir(), "nope.yaml")})
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	creds := writeFile(t, dir, "sa.json", "{}")

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid firebase", mutate: func(c *Config) {}},
		{name: "missing credentials", mutate: func(c *Config) { c.Credentials = "" }, wantErr: "credentials file is required"},
		{name: "credentials not found", mutate: func(c *Config) { c.Credentials = filepath.Join(dir, "nope.json") }, wantErr: "not found"},
		{name: "credentials is a directory", mutate: func(c *Config) { c.Credentials = dir }, wantErr: "not a file"},
		{name: "s3 without endpoint", mutate: func(c *Config) { c.Storage.Driver = StorageS3 }, wantErr: "storage.s3.endpoint"},
		{
			name: "s3 without bucket",
			mutate: func(c *Config) {
				c.Storage.Driver = StorageS3
				c.Storage.S3.Endpoint = "localhost:9000"
			},
			wantErr: "storage.s3.bucket",
		},
		{name: "unknown storage", mutate: func(c *Config) { c.Storage.Driver = "azure" }, wantErr: "storage.driver"},
		{name: "snapshot without path", mutate: func(c *Config) { c.Backend = BackendSnapshot }, wantErr: "snapshot.path"},
		{
			name: "snapshot ignores credentials",
			mutate: func(c *Config) {
				c.Backend = BackendSnapshot
				c.Snapshot.Path = "dam.db"
				c.Credentials = ""
			},
		},
		{name: "memory without fixtures", mutate: func(c *Config) { c.Backend = BackendMemory }, wantErr: "fixtures.path"},
		{name: "unknown backend", mutate: func(c *Config) { c.Backend = "mongo" }, wantErr: "backend must be"},
		{name: "bad transport", mutate: func(c *Config) { c.Transport.Mode = "grpc" }, wantErr: "transport.mode"},
		{name: "bad port", mutate: func(c *Config) { c.Transport.Port = 70000 }, wantErr: "transport.port"},
		{name: "negative rate", mutate: func(c *Config) { c.HTTP.RateLimit = -1 }, wantErr: "rate_limit"},
		{name: "bad log format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Credentials: creds}
			cfg.ApplyDefaults()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestRegisterFlags_AllBound(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags)
	RegisterTransportFlags(flags)

	flags.VisitAll(func(f *pflag.Flag) {
		if _, ok := FlagKeys[f.Name]; !ok {
			t.Errorf("flag --%s has no configuration key", f.Name)
		}
	})
	for name := range FlagKeys {
		if flags.Lookup(name) == nil {
			t.Errorf("configuration flag --%s is never registered", name)
		}
	}
}
