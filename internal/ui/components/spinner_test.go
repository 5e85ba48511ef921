// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"
)

func TestSpinnerLifecycle(t *testing.T) {
	s := NewSpinner()

	if s.IsActive() {
		t.Error("New spinner should not be active")
	}
	if s.View() != "" {
		t.Error("Inactive spinner should render nothing")
	}

	cmd := s.Start()
	if cmd == nil {
		t.Error("Start() should return a tick command")
	}
	if !s.IsActive() {
		t.Error("Spinner should be active after Start()")
	}
	if s.View() == "" {
		t.Error("Active spinner should render something")
	}

	s.Stop()
	if s.IsActive() {
		t.Error("Spinner should be inactive after Stop()")
	}
}

func TestSpinnerMessage(t *testing.T) {
	s := NewSpinner()
	s.SetMessage("Working")
	s.Start()

	if !strings.Contains(s.View(), "Working") {
		t.Errorf("View should contain the message: %q", s.View())
	}
}

func TestSpinnerDetail(t *testing.T) {
	s := NewAnalyzingSpinner()
	s.SetDetail("Scanning page images")
	s.Start()

	view := s.View()
	if !strings.Contains(view, "Analyzing") {
		t.Errorf("View missing message: %q", view)
	}
	if !strings.Contains(view, "Scanning page images") {
		t.Errorf("View missing detail: %q", view)
	}
}

func TestSpinnerElapsed(t *testing.T) {
	s := NewSpinner()
	if s.GetElapsed() != 0 {
		t.Error("Elapsed should be zero before Start()")
	}
	s.Start()
	if s.GetElapsed() < 0 {
		t.Error("Elapsed should not be negative")
	}
}

func TestAnalysisIndicator(t *testing.T) {
	a := NewAnalysisIndicator()

	if a.IsActive() {
		t.Error("New indicator should not be active")
	}

	a.Start()
	if !a.IsActive() {
		t.Error("Indicator should be active after Start()")
	}

	a.SetDetail("Reading document")
	if !strings.Contains(a.View(), "Reading document") {
		t.Errorf("View missing detail: %q", a.View())
	}

	a.Stop()
	if a.IsActive() {
		t.Error("Indicator should be inactive after Stop()")
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{5 * time.Second, "5s"},
		{59 * time.Second, "59s"},
		{60 * time.Second, "1m 0s"},
		{125 * time.Second, "2m 5s"},
	}

	for _, tt := range tests {
		if got := formatElapsed(tt.d); got != tt.want {
			t.Errorf("formatElapsed(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
