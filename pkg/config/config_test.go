package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"MIMAL_BACKEND", "MIMAL_DB", "MIMAL_WAL", "MIMAL_SYNC", "MIMAL_KEY_PREFIX", "MIMAL_LOG_LEVEL", "MIMAL_TZ"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := FromEnv()
	if cfg.Backend != "sqlite" {
		t.Errorf("Backend = %q, want sqlite", cfg.Backend)
	}
	if cfg.SyncMode != "FULL" || cfg.WAL {
		t.Errorf("Unexpected sqlite defaults: sync %q wal %t", cfg.SyncMode, cfg.WAL)
	}
	if cfg.KeyPrefix != "mimal-note-speech-" {
		t.Errorf("KeyPrefix = %q", cfg.KeyPrefix)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("MIMAL_BACKEND", "redis")
	t.Setenv("MIMAL_REDIS_URL", "redis://localhost:6379/2")
	t.Setenv("MIMAL_SYNC", "normal")
	t.Setenv("MIMAL_KEY_PREFIX", "")
	t.Setenv("MIMAL_TZ", "Asia/Bangkok")
	t.Setenv("MIMAL_WAL", "yes please")

	cfg := FromEnv()
	if cfg.Backend != "redis" || cfg.RedisURL != "redis://localhost:6379/2" {
		t.Errorf("Unexpected backend config: %+v", cfg)
	}
	if cfg.SyncMode != "NORMAL" {
		t.Errorf("SyncMode = %q, want NORMAL", cfg.SyncMode)
	}
	if cfg.KeyPrefix != "" {
		t.Errorf("An explicitly empty prefix must be kept, got %q", cfg.KeyPrefix)
	}
	if cfg.TimeZone != "Asia/Bangkok" {
		t.Errorf("TimeZone = %q", cfg.TimeZone)
	}
	if cfg.WAL {
		t.Errorf("An unparsable bool must fall back to the default")
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("MIMAL_DB=/tmp/from-dotenv.db\nMIMAL_LOG_LEVEL=debug\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	t.Setenv("MIMAL_LOG_LEVEL", "error")
	t.Setenv("MIMAL_DB", "")
	os.Unsetenv("MIMAL_DB")

	cfg := Load()
	if cfg.DBPath != "/tmp/from-dotenv.db" {
		t.Errorf("DBPath = %q, want the .env value", cfg.DBPath)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel = %q, the environment must win over .env", cfg.LogLevel)
	}
}
