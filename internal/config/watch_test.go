// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"testing"
	"time"
)

func TestWatcherReloadsOnChange(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	ResetGlobalForTesting()
	t.Cleanup(ResetGlobalForTesting)

	cfg := Default()
	cfg.Service.URL = "http://localhost:8000"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded := make(chan *Config, 1)
	w, err := NewWatcher(func(c *Config) {
		select {
		case reloaded <- c:
		default:
		}
	})
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	if err := w.Watch(); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	cfg.Service.URL = "http://localhost:9100"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save of changed config failed: %v", err)
	}

	select {
	case c := <-reloaded:
		if c.Service.URL != "http://localhost:9100" {
			t.Errorf("reloaded config URL = %q, want the edited value", c.Service.URL)
		}
		if Global().Service.URL != "http://localhost:9100" {
			t.Error("global config should track the reload")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("config change never triggered a reload")
	}
}

func TestWatcherCloseStopsCallbacks(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	ResetGlobalForTesting()
	t.Cleanup(ResetGlobalForTesting)

	if err := Save(Default()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	w, err := NewWatcher(nil)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	if err := w.Watch(); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}
