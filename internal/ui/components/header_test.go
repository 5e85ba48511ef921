// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/jeranaias/docsight-tui/internal/ui/styles"
)

func TestHeaderView(t *testing.T) {
	h := NewHeader(styles.NewTheme())
	h.SetWidth(80)
	h.SetServiceURL("http://localhost:8000")
	h.SetDocCount(3)

	view := h.View()
	if !strings.Contains(view, "docsight") {
		t.Errorf("Header should contain the brand: %q", view)
	}
	if !strings.Contains(view, "3 docs") {
		t.Errorf("Header should show the document count: %q", view)
	}
}

func TestHeaderCompact(t *testing.T) {
	h := NewHeader(styles.NewTheme())
	h.SetDocCount(1)

	view := h.ViewCompact()
	if !strings.Contains(view, "docsight") {
		t.Errorf("Compact header should contain the brand: %q", view)
	}
	if !strings.Contains(view, "1 docs") {
		t.Errorf("Compact header should show the document count: %q", view)
	}
}

func TestHeaderMinimumWidth(t *testing.T) {
	h := NewHeader(styles.NewTheme())
	h.SetWidth(10) // below minimum, should clamp instead of panicking

	if h.View() == "" {
		t.Error("Header should render at tiny widths")
	}
}

func TestWelcomeView(t *testing.T) {
	w := NewWelcome(styles.NewTheme())
	w.SetVersion("1.2.0")
	w.SetServiceURL("http://localhost:8000")
	w.SetDocCount(5)
	w.SetSize(80, 24)

	view := w.View()
	if !strings.Contains(view, "1.2.0") {
		t.Errorf("Welcome should show the version")
	}
	if view == "" {
		t.Error("Welcome should render content")
	}
}

func TestWelcomeTinyTerminal(t *testing.T) {
	w := NewWelcome(styles.NewTheme())
	w.SetSize(44, 10)

	if w.View() == "" {
		t.Error("Welcome should render even on tiny terminals")
	}
}
