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
// HEADER COMPONENT
// =============================================================================

// Header renders the top application header: brand, service endpoint, and
// the documents currently in scope for queries.
type Header struct {
	Title      string
	ServiceURL string
	DocCount   int
	Width      int
	theme      *styles.Theme
}

// NewHeader creates a new header component.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title: "docsight",
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetServiceURL updates the displayed service endpoint.
func (h *Header) SetServiceURL(url string) {
	h.ServiceURL = url
}

// SetDocCount updates the in-scope document count.
func (h *Header) SetDocCount(n int) {
	h.DocCount = n
}

// View renders the full header box.
func (h *Header) View() string {
	width := h.Width
	if width < 40 {
		width = 40
	}
	innerWidth := width - 6

	brandStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.Cyan)

	accentStyle := lipgloss.NewStyle().
		Foreground(styles.Purple)

	brand := accentStyle.Render("< ") +
		brandStyle.Render(h.Title) +
		accentStyle.Render(" >")

	subtitleParts := []string{}

	if h.ServiceURL != "" {
		serviceStyle := lipgloss.NewStyle().
			Foreground(styles.TextSecondary)
		subtitleParts = append(subtitleParts, serviceStyle.Render(util.TruncateWidth(h.ServiceURL, innerWidth/2)))
	}

	docStyle := lipgloss.NewStyle().Foreground(styles.Emerald)
	subtitleParts = append(subtitleParts, docStyle.Render("["+util.IntToString(h.DocCount)+" docs]"))

	subtitle := strings.Join(subtitleParts, " ")

	brandLine := lipgloss.NewStyle().
		Width(innerWidth).
		Align(lipgloss.Center).
		Render(brand)

	subtitleLine := lipgloss.NewStyle().
		Width(innerWidth).
		Align(lipgloss.Center).
		Foreground(styles.TextMuted).
		Render(subtitle)

	content := lipgloss.JoinVertical(lipgloss.Center, brandLine, subtitleLine)

	headerBox := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Purple).
		Background(styles.SurfaceDim).
		Padding(0, 2).
		Width(width)

	return headerBox.Render(content)
}

// ViewCompact renders a compact single-line header for narrow terminals.
// Format: <docsight> | service | [3 docs]
func (h *Header) ViewCompact() string {
	brandStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.Cyan)

	accentStyle := lipgloss.NewStyle().
		Foreground(styles.Purple)

	brand := accentStyle.Render("<") +
		brandStyle.Render(h.Title) +
		accentStyle.Render(">")

	parts := []string{brand}

	if h.ServiceURL != "" {
		serviceStyle := lipgloss.NewStyle().
			Foreground(styles.TextMuted)
		parts = append(parts, serviceStyle.Render(util.TruncateWidth(h.ServiceURL, 24)))
	}

	docStyle := lipgloss.NewStyle().Foreground(styles.Emerald)
	parts = append(parts, docStyle.Render("["+util.IntToString(h.DocCount)+" docs]"))

	separator := lipgloss.NewStyle().
		Foreground(styles.Overlay).
		Render(" | ")

	return strings.Join(parts, separator)
}
