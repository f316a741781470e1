package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.RegistrationTimeoutMs != 5000 {
		t.Errorf("timeout = %d, want 5000", cfg.RegistrationTimeoutMs)
	}
	if cfg.RegistrationTimeout() != 5*time.Second {
		t.Errorf("RegistrationTimeout() = %v", cfg.RegistrationTimeout())
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "redstone.json")
	body := `{"registrationTimeoutMs": 250, "datagen": true, "mods": {"example": false}}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.RegistrationTimeoutMs != 250 {
		t.Errorf("timeout = %d, want 250", cfg.RegistrationTimeoutMs)
	}
	if !cfg.Datagen {
		t.Error("datagen not set")
	}
	if cfg.ModEnabled("example") {
		t.Error("example should be disabled")
	}
	if !cfg.ModEnabled("other") {
		t.Error("unlisted mods default to enabled")
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "redstone.json")
	if err := os.WriteFile(path, []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("want error for malformed config")
	}
}
