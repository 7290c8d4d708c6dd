package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// clearEnv blanks every QABOARD_* variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, s := range specs {
		t.Setenv(s.env, "")
	}
}

// TestDefaults verifies all default values are applied when loading an empty config file.
func TestDefaults(t *testing.T) {
	clearEnv(t)
	path := writeTempConfig(t, `{}`)

	cfg, err := loadWith(newFileBackend(path))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 8092 {
		t.Errorf("Server.Port = %d, want 8092", cfg.Server.Port)
	}
	if cfg.Server.DiagPort != 9092 {
		t.Errorf("Server.DiagPort = %d, want 9092", cfg.Server.DiagPort)
	}
	if cfg.Server.MaxConns != 256 {
		t.Errorf("Server.MaxConns = %d, want 256", cfg.Server.MaxConns)
	}
	if cfg.Storage.Driver != "sqlite" {
		t.Errorf("Storage.Driver = %q, want sqlite", cfg.Storage.Driver)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
	if cfg.Limits.SubmitRPS != 5 || cfg.Limits.SubmitBurst != 20 {
		t.Errorf("Limits = %+v, want {5 20}", cfg.Limits)
	}
	if got := cfg.Cache.QuestionTTLDuration(); got != 10*time.Minute {
		t.Errorf("QuestionTTLDuration = %v, want 10m", got)
	}
	if got := cfg.Server.Addr(); got != ":8092" {
		t.Errorf("Addr = %q, want :8092", got)
	}
}

// TestFileParsing verifies that all fields are correctly read from the JSON file.
func TestFileParsing(t *testing.T) {
	clearEnv(t)
	path := writeTempConfig(t, `{
  "server.host": "127.0.0.1",
  "server.port": 5000,
  "server.diag_port": 0,
  "server.max_conns": 16,
  "storage.data_dir": "/tmp/qaboard-test",
  "log.level": "debug",
  "log.development": "true",
  "limits.submit_rps": "0.5",
  "limits.submit_burst": 2,
  "cache.question_ttl": "30s"
}`)

	cfg, err := loadWith(newFileBackend(path))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := Config{
		Server:  ServerConfig{Host: "127.0.0.1", Port: 5000, DiagPort: 0, MaxConns: 16},
		Storage: StorageConfig{Driver: "sqlite", DataDir: "/tmp/qaboard-test"},
		Log:     LogConfig{Level: "debug", Development: true},
		Limits:  LimitsConfig{SubmitRPS: 0.5, SubmitBurst: 2},
		Cache:   CacheConfig{QuestionTTL: "30s"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if cfg.Server.DiagAddr() != "" {
		t.Errorf("DiagAddr = %q, want empty when diag_port is 0", cfg.Server.DiagAddr())
	}
}

// TestEnvOverride verifies that environment variables override config file values.
func TestEnvOverride(t *testing.T) {
	clearEnv(t)
	path := writeTempConfig(t, `{"server.port": 5000, "log.level": "warn"}`)

	t.Setenv("QABOARD_SERVER_PORT", "6000")
	t.Setenv("QABOARD_LOG_DEVELOPMENT", "1")

	cfg, err := loadWith(newFileBackend(path))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 6000 {
		t.Errorf("Server.Port = %d, want 6000", cfg.Server.Port)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn", cfg.Log.Level)
	}
	if !cfg.Log.Development {
		t.Error("Log.Development = false, want true")
	}
}

func TestInvalidEnvKeepsDefault(t *testing.T) {
	clearEnv(t)
	path := writeTempConfig(t, `{}`)
	t.Setenv("QABOARD_SERVER_PORT", "not-a-port")

	cfg, err := loadWith(newFileBackend(path))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 8092 {
		t.Errorf("Server.Port = %d, want default 8092", cfg.Server.Port)
	}
}

// TestPostgresRequiresDSN verifies a clear error when the DSN is missing everywhere.
func TestPostgresRequiresDSN(t *testing.T) {
	clearEnv(t)
	path := writeTempConfig(t, `{"storage.driver": "postgres"}`)

	_, err := loadWith(newFileBackend(path))
	if err == nil {
		t.Fatal("expected error for missing DSN, got nil")
	}
	if !strings.Contains(err.Error(), "missing required config") {
		t.Errorf("error = %q, want it to mention missing required config", err)
	}

	t.Setenv("QABOARD_STORAGE_DSN", "postgres://localhost/qaboard")
	cfg, err := loadWith(newFileBackend(path))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Storage.DSN != "postgres://localhost/qaboard" {
		t.Errorf("Storage.DSN = %q", cfg.Storage.DSN)
	}
}

// TestDSNIgnoredInFile verifies secrets are never read from the config file.
func TestDSNIgnoredInFile(t *testing.T) {
	clearEnv(t)
	path := writeTempConfig(t, `{"storage.dsn": "postgres://file"}`)

	cfg, err := loadWith(newFileBackend(path))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Storage.DSN != "" {
		t.Errorf("Storage.DSN = %q, want empty", cfg.Storage.DSN)
	}
}

func TestUnknownDriver(t *testing.T) {
	clearEnv(t)
	path := writeTempConfig(t, `{"storage.driver": "mysql"}`)

	if _, err := loadWith(newFileBackend(path)); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestSetKey(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "qaboard", "config.json")
	b := newFileBackend(path)

	if err := setKey(b, "server.port", "7000"); err != nil {
		t.Fatalf("setKey server.port: %v", err)
	}
	if err := setKey(b, "log.development", "true"); err != nil {
		t.Fatalf("setKey log.development: %v", err)
	}
	if err := setKey(b, "server.port", "abc"); err == nil {
		t.Error("expected error for non-integer port")
	}
	if err := setKey(b, "limits.submit_rps", "fast"); err == nil {
		t.Error("expected error for non-numeric rps")
	}
	if err := setKey(b, "storage.dsn", "postgres://x"); err == nil {
		t.Error("expected error when setting a secret")
	}
	if err := setKey(b, "no.such.key", "1"); err == nil {
		t.Error("expected error for unknown key")
	}

	cfg, err := loadWith(newFileBackend(path))
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("Server.Port = %d, want 7000", cfg.Server.Port)
	}
	if !cfg.Log.Development {
		t.Error("Log.Development = false after set")
	}
}

func TestUnsetKey(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "qaboard", "config.json")
	b := newFileBackend(path)

	if err := setKey(b, "server.port", "7000"); err != nil {
		t.Fatalf("setKey: %v", err)
	}
	if err := unsetKey(b, "server.port"); err != nil {
		t.Fatalf("unsetKey: %v", err)
	}
	if err := unsetKey(b, "storage.dsn"); err == nil {
		t.Error("expected error when unsetting a secret")
	}
	if err := unsetKey(b, "no.such.key"); err == nil {
		t.Error("expected error for unknown key")
	}

	cfg, err := loadWith(newFileBackend(path))
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if cfg.Server.Port != defaults().Server.Port {
		t.Errorf("Server.Port = %d, want default %d", cfg.Server.Port, defaults().Server.Port)
	}
}

func TestShowAllHidesSecrets(t *testing.T) {
	cfg := defaults()
	cfg.Storage.DSN = "postgres://secret"

	for _, info := range ShowAll(cfg) {
		if info.Key == "storage.dsn" || strings.Contains(info.Value, "secret") {
			t.Errorf("ShowAll leaked secret: %+v", info)
		}
	}
	if len(ShowAll(cfg)) != len(ValidKeys()) {
		t.Errorf("ShowAll and ValidKeys disagree: %d vs %d", len(ShowAll(cfg)), len(ValidKeys()))
	}
}
