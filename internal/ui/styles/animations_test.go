// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
	"time"
)

// =============================================================================
// SPINNER CONFIG TESTS
// =============================================================================

func TestSpinnerConfigs(t *testing.T) {
	spinners := []struct {
		name   string
		config SpinnerConfig
	}{
		{"LineSpinner", LineSpinner},
		{"DotsSpinner", DotsSpinner},
		{"PulseSpinner", PulseSpinner},
		{"BlockSpinner", BlockSpinner},
	}

	for _, s := range spinners {
		t.Run(s.name, func(t *testing.T) {
			if len(s.config.Frames) == 0 {
				t.Errorf("%s should have frames", s.name)
			}
			if s.config.FPS <= 0 {
				t.Errorf("%s FPS should be positive", s.name)
			}
			for _, frame := range s.config.Frames {
				for _, r := range frame {
					if r > 127 {
						t.Errorf("%s frame %q contains non-ASCII character", s.name, frame)
					}
				}
			}
		})
	}
}

func TestSpinnerConfigDuration(t *testing.T) {
	if d := LineSpinner.Duration(); d != time.Second/10 {
		t.Errorf("LineSpinner.Duration() = %v", d)
	}
	if d := DotsSpinner.Duration(); d != time.Second/6 {
		t.Errorf("DotsSpinner.Duration() = %v", d)
	}
}

// =============================================================================
// PROGRESS BAR TESTS
// =============================================================================

func TestRenderProgressBar(t *testing.T) {
	tests := []struct {
		name    string
		width   int
		percent float64
	}{
		{"empty", 10, 0},
		{"half", 10, 50},
		{"full", 10, 100},
		{"over", 10, 150},
		{"under", 10, -20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := RenderProgressBar(tt.width, tt.percent)
			if len(bar) != tt.width {
				t.Errorf("RenderProgressBar(%d, %v) length = %d", tt.width, tt.percent, len(bar))
			}
		})
	}

	if bar := RenderProgressBar(0, 50); bar != "" {
		t.Errorf("Zero width should render empty, got %q", bar)
	}
	if bar := RenderProgressBar(10, 100); strings.Contains(bar, ProgressEmpty) {
		t.Errorf("Full bar should contain no empty characters: %q", bar)
	}
}

func TestRenderScoreBar(t *testing.T) {
	full := RenderScoreBar(8, 1.0)
	empty := RenderScoreBar(8, 0.0)
	if strings.Count(full, ProgressFull) != 8 {
		t.Errorf("Score 1.0 should fill the bar: %q", full)
	}
	if strings.Count(empty, ProgressEmpty) != 8 {
		t.Errorf("Score 0.0 should leave the bar empty: %q", empty)
	}
}
