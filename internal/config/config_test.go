package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newFlagSet() *flag.FlagSet {
	return flag.NewFlagSet("test", flag.ContinueOnError)
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" || cfg.GRPCAddr != ":50051" {
		t.Fatalf("unexpected addrs %q %q", cfg.HTTPAddr, cfg.GRPCAddr)
	}
	if cfg.Storage.Backend != BackendSQLite {
		t.Fatalf("expected sqlite backend, got %q", cfg.Storage.Backend)
	}
	if cfg.Collection != "inventory" {
		t.Fatalf("expected inventory collection, got %q", cfg.Collection)
	}
	if cfg.AtomicUpdates {
		t.Fatal("expected atomic updates off by default")
	}
	if cfg.RemoteTimeout != 5*time.Second {
		t.Fatalf("expected 5s timeout, got %v", cfg.RemoteTimeout)
	}
}

func TestLoadEnvAndFlags(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PANTRY_BACKEND", "redis")
	t.Setenv("PANTRY_REDIS_ADDR", "cache:6380")
	t.Setenv("PANTRY_REMOTE_TIMEOUT", "250ms")

	cfg, err := Load(newFlagSet(), []string{"-backend", "memory", "-atomic", "-http-addr", ":9090"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Backend != BackendMemory {
		t.Fatalf("expected flag to override backend, got %q", cfg.Storage.Backend)
	}
	if cfg.Storage.RedisAddr != "cache:6380" {
		t.Fatalf("expected redis addr from env, got %q", cfg.Storage.RedisAddr)
	}
	if !cfg.AtomicUpdates || cfg.HTTPAddr != ":9090" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.RemoteTimeout != 250*time.Millisecond {
		t.Fatalf("expected 250ms, got %v", cfg.RemoteTimeout)
	}
}

func TestLoadUnknownBackend(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := Load(newFlagSet(), []string{"-backend", "firebase"})
	if err == nil || !strings.Contains(err.Error(), "unknown backend") {
		t.Fatalf("expected unknown backend error, got %v", err)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg Config
	t.Setenv("PANTRY_REMOTE_TIMEOUT", "soon")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestLoadDotEnv(t *testing.T) {
	const key = "PANTRY_DOTENV_TEST_COLLECTION"
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte(key+"=pantry\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("load dotenv: %v", err)
	}
	if got := os.Getenv(key); got != "pantry" {
		t.Fatalf("expected pantry, got %q", got)
	}
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("expected missing file to be ignored, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	cfg := Config{Collection: "inventory", RemoteTimeout: time.Second, Storage: Storage{Backend: BackendMongo}}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	cfg.Collection = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected empty collection error")
	}

	cfg.Collection = "inventory"
	cfg.RemoteTimeout = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected timeout error")
	}
}
