package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/starford/notepad/pkg/config"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Autosave.Interval != 1500*time.Millisecond {
		t.Errorf("interval = %v", cfg.Autosave.Interval)
	}
	if cfg.App.HTTP.Address() != "127.0.0.1:8080" {
		t.Errorf("address = %q", cfg.App.HTTP.Address())
	}
}

func TestDerivedPaths(t *testing.T) {
	cfg := NewDefaultConfig()
	if got := cfg.SearchDBPath(); got != filepath.Join("Notes", ".search.db") {
		t.Errorf("SearchDBPath = %q", got)
	}
	if got := cfg.LogFilePath(); got != filepath.Join("Notes", "notepad.log") {
		t.Errorf("LogFilePath = %q", got)
	}

	cfg.SQLite.Path = "/tmp/x.db"
	if got := cfg.SearchDBPath(); got != "/tmp/x.db" {
		t.Errorf("SearchDBPath = %q", got)
	}
	cfg.SQLite.Disabled = true
	if got := cfg.SearchDBPath(); got != "" {
		t.Errorf("disabled SearchDBPath = %q", got)
	}
}

func TestAutosaveIntervalTooSmall(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Autosave.Interval = 10 * time.Millisecond
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for tiny interval")
	}
}

func TestStoragePathRequired(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Storage.Path = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for empty storage path")
	}
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	t.Setenv("NOTEPAD_TEST_DIR", "/data/notes")
	file := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
app:
  log_level: debug
storage:
  path: ${NOTEPAD_TEST_DIR}
autosave:
  interval: 2s
`
	if err := os.WriteFile(file, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	if err := config.Load(file, cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.Path != "/data/notes" {
		t.Errorf("storage path = %q", cfg.Storage.Path)
	}
	if cfg.Autosave.Interval != 2*time.Second {
		t.Errorf("interval = %v", cfg.Autosave.Interval)
	}
	if !cfg.Autosave.FlushOnExit {
		t.Error("flush_on_exit default lost")
	}
	if cfg.App.HTTP.Port != 8080 {
		t.Errorf("port default lost: %d", cfg.App.HTTP.Port)
	}
}

func TestLoadOptionalMissingFile(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := config.LoadOptional(filepath.Join(t.TempDir(), "absent.yaml"), cfg); err != nil {
		t.Fatalf("LoadOptional: %v", err)
	}
	if cfg.Storage.Path != DefaultStoragePath {
		t.Errorf("storage path = %q", cfg.Storage.Path)
	}
}

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}
