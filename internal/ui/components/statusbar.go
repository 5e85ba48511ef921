// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the docsight TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/docsight-tui/internal/ui/styles"
	"github.com/jeranaias/docsight-tui/internal/util"
)

// =============================================================================
// STATUS BAR COMPONENT - Bottom status bar
// =============================================================================

// Status represents the current application status
type Status int

const (
	StatusReady Status = iota
	StatusStreaming
	StatusAnalyzing
	StatusUploading
	StatusError
	StatusIdle
)

// String returns the display string for the status
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusStreaming:
		return "Streaming..."
	case StatusAnalyzing:
		return "Analyzing..."
	case StatusUploading:
		return "Uploading..."
	case StatusError:
		return "Error"
	case StatusIdle:
		return "Idle"
	default:
		return "Unknown"
	}
}

// Icon returns an icon for the status
// ACCESSIBILITY: Uses distinct shapes alongside colors for colorblind users
func (s Status) Icon() string {
	switch s {
	case StatusReady:
		return styles.StatusIndicators.Success
	case StatusStreaming:
		return "~"
	case StatusAnalyzing:
		return styles.StatusIndicators.Pending
	case StatusUploading:
		return styles.StatusIndicators.Pending
	case StatusError:
		return styles.StatusIndicators.Error
	case StatusIdle:
		return "-"
	default:
		return "?"
	}
}

// StatusBar renders the bottom status bar: service connection, document
// scope, turn status, and keyboard shortcuts.
type StatusBar struct {
	ServiceURL    string // Analysis service endpoint
	Connected     bool   // Last known connectivity state
	DocCount      int    // Documents in the current query scope
	TotalDocs     int    // Documents known to the service
	Status        Status // Current status
	Width         int    // Available width
	ShowShortcuts bool   // Show keyboard shortcuts
	theme         *styles.Theme
}

// NewStatusBar creates a new StatusBar component
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		ServiceURL:    "",
		Connected:     false,
		Status:        StatusReady,
		Width:         80,
		ShowShortcuts: true,
		theme:         theme,
	}
}

// SetWidth updates the status bar width
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetStatus updates the current status
func (s *StatusBar) SetStatus(status Status) {
	s.Status = status
}

// SetService updates the service endpoint display and connectivity state
func (s *StatusBar) SetService(url string, connected bool) {
	s.ServiceURL = url
	s.Connected = connected
}

// SetDocScope updates the document counts (in-scope vs total known)
func (s *StatusBar) SetDocScope(inScope, total int) {
	s.DocCount = inScope
	s.TotalDocs = total
}

// View renders the status bar
func (s *StatusBar) View() string {
	if s.Width < 60 {
		return s.viewNarrow()
	}
	if s.Width < 100 {
		return s.viewMedium()
	}
	return s.viewWide()
}

// viewNarrow renders a compact status bar for narrow terminals
// Format: [+|3d] Status
func (s *StatusBar) viewNarrow() string {
	parts := []string{}

	// Connectivity indicator
	if s.Connected {
		connStyle := lipgloss.NewStyle().Foreground(styles.SuccessHighContrast).Bold(true)
		parts = append(parts, connStyle.Render("+"))
	} else {
		connStyle := lipgloss.NewStyle().Foreground(styles.ErrorHighContrast).Bold(true)
		parts = append(parts, connStyle.Render("-"))
	}

	// Document scope
	docStyle := lipgloss.NewStyle().Foreground(styles.Emerald)
	parts = append(parts, docStyle.Render(util.IntToString(s.DocCount)+"d"))

	section := "[" + strings.Join(parts, "|") + "]"

	statusStyle := s.getStatusStyle()
	statusText := statusStyle.Render(s.Status.Icon())

	separator := lipgloss.NewStyle().Foreground(styles.Overlay).Render(" ")

	return lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		Foreground(styles.TextSecondary).
		Width(s.Width).
		Render(section + separator + statusText)
}

// viewMedium renders a medium-width status bar
// Format: service | docs: 3/7 | Status
func (s *StatusBar) viewMedium() string {
	separator := lipgloss.NewStyle().
		Foreground(styles.Overlay).
		Render(" | ")

	parts := []string{}

	parts = append(parts, s.renderService(20))
	parts = append(parts, s.renderDocScope())

	statusStyle := s.getStatusStyle()
	parts = append(parts, statusStyle.Render(s.Status.String()))

	result := strings.Join(parts, separator)

	return lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		Foreground(styles.TextSecondary).
		Padding(0, 1).
		Width(s.Width).
		Render(result)
}

// viewWide renders a full-featured status bar for wide terminals
// Format: service | docs: 3/7 | Status ... shortcuts
func (s *StatusBar) viewWide() string {
	separator := lipgloss.NewStyle().
		Foreground(styles.Overlay).
		Render(" | ")

	leftParts := []string{
		s.renderService(40),
		s.renderDocScope(),
		s.getStatusStyle().Render(s.Status.Icon() + " " + s.Status.String()),
	}
	left := strings.Join(leftParts, separator)

	right := ""
	if s.ShowShortcuts {
		right = s.renderShortcuts()
	}

	// Pad the middle so shortcuts sit flush right
	gap := s.Width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		Foreground(styles.TextSecondary).
		Padding(0, 1).
		Width(s.Width).
		Render(left + strings.Repeat(" ", gap) + right)
}

// =============================================================================
// RENDER HELPERS
// =============================================================================

func (s *StatusBar) renderService(maxWidth int) string {
	url := s.ServiceURL
	if url == "" {
		url = "not configured"
	}
	url = util.TruncateWidth(url, maxWidth)

	if s.Connected {
		style := lipgloss.NewStyle().Foreground(styles.TextSecondary)
		return style.Render(url)
	}
	style := lipgloss.NewStyle().Foreground(styles.ErrorHighContrast)
	return style.Render(url + " (offline)")
}

func (s *StatusBar) renderDocScope() string {
	label := lipgloss.NewStyle().Foreground(styles.TextMuted).Render("docs: ")
	count := lipgloss.NewStyle().Foreground(styles.Emerald).Bold(true).
		Render(util.IntToString(s.DocCount) + "/" + util.IntToString(s.TotalDocs))
	return label + count
}

func (s *StatusBar) renderShortcuts() string {
	keyStyle := lipgloss.NewStyle().Foreground(styles.Cyan).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)

	shortcuts := []struct {
		key  string
		desc string
	}{
		{"^C", "quit"},
		{"Esc", "cancel"},
		{"^D", "docs"},
	}

	parts := make([]string, 0, len(shortcuts))
	for _, sc := range shortcuts {
		parts = append(parts, keyStyle.Render(sc.key)+descStyle.Render(" "+sc.desc))
	}
	return strings.Join(parts, "  ")
}

func (s *StatusBar) getStatusStyle() lipgloss.Style {
	switch s.Status {
	case StatusReady:
		return lipgloss.NewStyle().Foreground(styles.SuccessHighContrast)
	case StatusStreaming, StatusAnalyzing, StatusUploading:
		return lipgloss.NewStyle().Foreground(styles.Amber)
	case StatusError:
		return lipgloss.NewStyle().Foreground(styles.ErrorHighContrast).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(styles.TextMuted)
	}
}
