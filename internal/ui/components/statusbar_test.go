// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/jeranaias/docsight-tui/internal/ui/styles"
)

func newTestStatusBar() *StatusBar {
	return NewStatusBar(styles.NewTheme())
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusReady, "Ready"},
		{StatusStreaming, "Streaming..."},
		{StatusAnalyzing, "Analyzing..."},
		{StatusUploading, "Uploading..."},
		{StatusError, "Error"},
		{StatusIdle, "Idle"},
	}

	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestStatusIcon(t *testing.T) {
	// Every status needs an icon so colorblind users get a shape cue
	for s := StatusReady; s <= StatusIdle; s++ {
		if s.Icon() == "" {
			t.Errorf("Status %v should have an icon", s)
		}
	}
}

func TestStatusBarWidthSelectsLayout(t *testing.T) {
	bar := newTestStatusBar()
	bar.SetService("http://localhost:8000", true)
	bar.SetDocScope(3, 7)

	widths := []int{40, 80, 140}
	for _, w := range widths {
		bar.SetWidth(w)
		if bar.View() == "" {
			t.Errorf("View at width %d should not be empty", w)
		}
	}
}

func TestStatusBarShowsDocScope(t *testing.T) {
	bar := newTestStatusBar()
	bar.SetWidth(90)
	bar.SetDocScope(3, 7)

	view := bar.View()
	if !strings.Contains(view, "3/7") {
		t.Errorf("Medium view should show document scope: %q", view)
	}
}

func TestStatusBarOfflineService(t *testing.T) {
	bar := newTestStatusBar()
	bar.SetWidth(90)
	bar.SetService("http://localhost:8000", false)

	if !strings.Contains(bar.View(), "offline") {
		t.Error("Disconnected service should be marked offline")
	}
}

func TestStatusBarUnconfiguredService(t *testing.T) {
	bar := newTestStatusBar()
	bar.SetWidth(90)

	if !strings.Contains(bar.View(), "not configured") {
		t.Error("Empty service URL should render as not configured")
	}
}

func TestStatusBarWideShowsShortcuts(t *testing.T) {
	bar := newTestStatusBar()
	bar.SetWidth(140)
	bar.SetService("http://localhost:8000", true)
	bar.ShowShortcuts = true

	view := bar.View()
	if !strings.Contains(view, "quit") {
		t.Errorf("Wide view should show shortcuts: %q", view)
	}
}
