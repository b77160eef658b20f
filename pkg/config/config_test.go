package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Engine.ShingleLen != 3 || cfg.Engine.WinnowWindow != 3 || cfg.Engine.TopK != 5 {
		t.Errorf("engine defaults = %+v, want 3/3/5", cfg.Engine)
	}
	if cfg.Engine.BloomBits != 1_000_000 {
		t.Errorf("Engine.BloomBits = %d, want 1000000", cfg.Engine.BloomBits)
	}
	if cfg.Engine.IndexCapacity != 100_003 {
		t.Errorf("Engine.IndexCapacity = %d, want 100003", cfg.Engine.IndexCapacity)
	}
	if cfg.Redis.CacheTTL != 5*time.Minute {
		t.Errorf("Redis.CacheTTL = %v, want 5m", cfg.Redis.CacheTTL)
	}
	if cfg.Kafka.Topics.ScanEvents == "" {
		t.Error("Kafka.Topics.ScanEvents must have a default")
	}
}

func TestLoadYAMLFile(t *testing.T) {
	content := `
server:
  port: 9999
engine:
  shingleLen: 4
  topK: 10
logging:
  level: debug
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Engine.ShingleLen != 4 {
		t.Errorf("Engine.ShingleLen = %d, want 4", cfg.Engine.ShingleLen)
	}
	if cfg.Engine.TopK != 10 {
		t.Errorf("Engine.TopK = %d, want 10", cfg.Engine.TopK)
	}
	// Fields absent from the file keep their defaults.
	if cfg.Engine.WinnowWindow != 3 {
		t.Errorf("Engine.WinnowWindow = %d, want default 3", cfg.Engine.WinnowWindow)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CC_SERVER_PORT", "7070")
	t.Setenv("CC_ENGINE_TOP_K", "9")
	t.Setenv("CC_REDIS_ADDR", "redis.internal:6380")
	t.Setenv("CC_LOGGING_LEVEL", "warn")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want 7070", cfg.Server.Port)
	}
	if cfg.Engine.TopK != 9 {
		t.Errorf("Engine.TopK = %d, want 9", cfg.Engine.TopK)
	}
	if cfg.Redis.Addr != "redis.internal:6380" {
		t.Errorf("Redis.Addr = %q", cfg.Redis.Addr)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", cfg.Logging.Level)
	}
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{
		Host: "db", Port: 5433, Database: "scans",
		User: "svc", Password: "secret", SSLMode: "require",
	}
	want := "host=db port=5433 user=svc password=secret dbname=scans sslmode=require"
	if got := p.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
