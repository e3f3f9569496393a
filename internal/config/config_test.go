package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("Load must not create %s", path)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != DefaultAPIBaseURL {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
}

func TestLoadPartialFileIsNormalized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "api_base_url: http://127.0.0.1:9999/\nparallel_fetch: true\nlog_level: LOUD\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != "http://127.0.0.1:9999" {
		t.Errorf("trailing slash not trimmed: %q", cfg.APIBaseURL)
	}
	if !cfg.ParallelFetch {
		t.Error("parallel_fetch not read")
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("unknown log level should fall back, got %q", cfg.LogLevel)
	}
	if cfg.Timeout() != 15*time.Second {
		t.Errorf("Timeout() = %v", cfg.Timeout())
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("timeout_seconds: [nope"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.TimeoutSeconds = 3
	cfg.LogLevel = "debug"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("perm = %o, want 600", perm)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *got != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, cfg)
	}
}

func TestSaveRejectsBadInput(t *testing.T) {
	if err := Save("", DefaultConfig()); err == nil {
		t.Error("expected error for empty path")
	}
	if err := Save(filepath.Join(t.TempDir(), "c.yaml"), nil); err == nil {
		t.Error("expected error for nil config")
	}
}

func TestUserAgentCarriesVersion(t *testing.T) {
	if want := "holidaytracker/" + Version; DefaultConfig().UserAgent != want {
		t.Errorf("default UserAgent = %q, want %q", DefaultConfig().UserAgent, want)
	}

	cfg := &Config{UserAgent: "   "}
	cfg.Normalize()
	if cfg.UserAgent != DefaultUserAgent {
		t.Errorf("blank UserAgent normalized to %q", cfg.UserAgent)
	}
}
