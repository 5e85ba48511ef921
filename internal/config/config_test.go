// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default config must validate: %v", err)
	}
}

func TestLoadFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
version = "1.0.0"

[service]
url = "http://analysis.internal:9000"
request_timeout_secs = 45

[query]
strict_events = true

[ui]
theme = "light"
show_reasoning = false
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.Service.URL != "http://analysis.internal:9000" {
		t.Errorf("Service.URL = %q", cfg.Service.URL)
	}
	if cfg.Service.RequestTimeoutSecs != 45 {
		t.Errorf("RequestTimeoutSecs = %d", cfg.Service.RequestTimeoutSecs)
	}
	if !cfg.Query.StrictEvents {
		t.Error("StrictEvents should be true")
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("Theme = %q", cfg.UI.Theme)
	}
	if cfg.UI.ShowReasoning {
		t.Error("ShowReasoning should be false")
	}
}

func TestLoadFromPathFillsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[ui]\ntheme = \"dark\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	defaults := Default()
	if cfg.Service.URL != defaults.Service.URL {
		t.Errorf("Missing service.url should default, got %q", cfg.Service.URL)
	}
	if cfg.Service.RequestTimeoutSecs != defaults.Service.RequestTimeoutSecs {
		t.Errorf("Missing timeout should default, got %d", cfg.Service.RequestTimeoutSecs)
	}
}

func TestLoadFromPathRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[ui]\ntheme = \"neon\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFromPath(path); err == nil {
		t.Error("Invalid theme must fail validation")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"empty_url", func(c *Config) { c.Service.URL = "" }, "service.url"},
		{"bad_url", func(c *Config) { c.Service.URL = "not a url" }, "service.url"},
		{"timeout_too_low", func(c *Config) { c.Service.RequestTimeoutSecs = 0 }, "request_timeout_secs"},
		{"timeout_too_high", func(c *Config) { c.Service.RequestTimeoutSecs = 700 }, "request_timeout_secs"},
		{"bad_theme", func(c *Config) { c.UI.Theme = "neon" }, "ui.theme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Error %q does not mention %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("DOCSIGHT_URL", "http://override:7000")
	t.Setenv("DOCSIGHT_STRICT", "true")
	t.Setenv("DOCSIGHT_THEME", "auto")
	t.Setenv("DOCSIGHT_DEBUG", "1")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.Service.URL != "http://override:7000" {
		t.Errorf("Service.URL = %q", cfg.Service.URL)
	}
	if !cfg.Query.StrictEvents {
		t.Error("DOCSIGHT_STRICT=true should enable strict events")
	}
	if cfg.UI.Theme != "auto" {
		t.Errorf("Theme = %q", cfg.UI.Theme)
	}
	if !cfg.Logging.Debug {
		t.Error("DOCSIGHT_DEBUG=1 should enable debug logging")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := Default()
	cfg.Service.URL = "http://saved:8000"
	cfg.UI.CompactMode = true

	if err := SaveTOML(cfg, path); err != nil {
		t.Fatalf("SaveTOML failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("Config file permissions = %o, want 0600", perm)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if loaded.Service.URL != "http://saved:8000" {
		t.Errorf("Round-tripped URL = %q", loaded.Service.URL)
	}
	if !loaded.UI.CompactMode {
		t.Error("Round-tripped CompactMode lost")
	}
}

func TestGetSetDotNotation(t *testing.T) {
	cfg := Default()

	if err := cfg.Set("ui.theme", "light"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	val, err := cfg.Get("ui.theme")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if val != "light" {
		t.Errorf("Get(ui.theme) = %v", val)
	}

	// String coercion for non-string fields
	if err := cfg.Set("service.request_timeout_secs", "60"); err != nil {
		t.Fatalf("Set int from string failed: %v", err)
	}
	if cfg.Service.RequestTimeoutSecs != 60 {
		t.Errorf("RequestTimeoutSecs = %d", cfg.Service.RequestTimeoutSecs)
	}

	if err := cfg.Set("query.strict_events", "true"); err != nil {
		t.Fatalf("Set bool from string failed: %v", err)
	}
	if !cfg.Query.StrictEvents {
		t.Error("StrictEvents should be true")
	}

	if _, err := cfg.Get("no.such.key"); err == nil {
		t.Error("Get of unknown key must fail")
	}
	if err := cfg.Set("no.such.key", "x"); err == nil {
		t.Error("Set of unknown key must fail")
	}
}

func TestGetAllKeysResolve(t *testing.T) {
	cfg := Default()
	for _, key := range GetAllKeys() {
		if _, err := cfg.Get(key); err != nil {
			t.Errorf("Key %q does not resolve: %v", key, err)
		}
	}
}

// TestConfig_ConcurrentAccess tests that Global(), SetGlobal(), and
// ReloadGlobal() can be safely called concurrently without race conditions.
// Run with: go test -race -v ./internal/config/
func TestConfig_ConcurrentAccess(t *testing.T) {
	ResetGlobalForTesting()

	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()
			SetGlobal(Default())
		}()

		go func() {
			defer wg.Done()
			if Global() == nil {
				t.Error("Global() returned nil")
			}
		}()
	}

	wg.Wait()
}

func TestConfig_GlobalInitialization(t *testing.T) {
	ResetGlobalForTesting()

	cfg := Global()
	if cfg == nil {
		t.Fatal("Global() returned nil")
	}
	if cfg.Version == "" {
		t.Error("Config version should not be empty")
	}
	if cfg.Service.URL == "" {
		t.Error("Service URL should not be empty")
	}
}
