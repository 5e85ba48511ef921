// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the docsight TUI.
package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/docsight-tui/internal/ui/styles"
	"github.com/jeranaias/docsight-tui/internal/util"
)

// =============================================================================
// WELCOME SCREEN MODEL
// =============================================================================

// Welcome is the welcome screen component.
type Welcome struct {
	// Display info
	version    string
	serviceURL string
	docCount   int

	// Dimensions
	width  int
	height int

	// Theme
	theme *styles.Theme
}

// NewWelcome creates a new welcome screen.
func NewWelcome(theme *styles.Theme) Welcome {
	return Welcome{
		version: "dev",
		theme:   theme,
	}
}

// SetVersion sets the version string.
func (w *Welcome) SetVersion(version string) {
	w.version = version
}

// SetServiceURL sets the analysis service endpoint shown on the screen.
func (w *Welcome) SetServiceURL(url string) {
	w.serviceURL = url
}

// SetDocCount sets the number of known documents.
func (w *Welcome) SetDocCount(n int) {
	w.docCount = n
}

// SetSize updates the dimensions.
func (w *Welcome) SetSize(width, height int) {
	w.width = width
	w.height = height
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init initializes the welcome screen.
func (w Welcome) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (w Welcome) Update(msg tea.Msg) (Welcome, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		w.height = msg.Height
	}
	return w, nil
}

// View renders the welcome screen.
// Responsive: adapts to terminal size, minimum 80x24 supported.
func (w Welcome) View() string {
	width := w.width
	if width == 0 {
		width = 80
	}
	height := w.height
	if height == 0 {
		height = 24
	}

	// Box width responsive to terminal width
	boxWidth := 58
	if width < 70 {
		boxWidth = width - 8
	}
	if boxWidth < 40 {
		boxWidth = 40
	}
	if boxWidth > width-4 {
		boxWidth = width - 4
	}

	verticalPadding := 1
	horizontalPadding := 4
	if width < 70 {
		horizontalPadding = 2
	}

	boxOverhead := 2 + 2*verticalPadding
	availableContentLines := height - boxOverhead

	var content string
	if availableContentLines >= 16 {
		content = w.renderLogo()
		content += "\n\n" + w.renderVersion()
		content += "\n\n" + w.renderSystemInfo()
		content += "\n\n" + w.renderPressKey()
	} else if availableContentLines >= 11 {
		content = w.renderLogo()
		content += "\n" + w.renderVersion()
		content += "\n" + w.renderSystemInfo()
		content += "\n" + w.renderPressKey()
	} else {
		// Ultra compact for tiny terminals
		verticalPadding = 0
		content = w.renderLogoCompact()
		content += "\n" + w.renderVersion()
		content += "\n" + w.renderPressKey()
	}

	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(styles.Purple).
		Padding(verticalPadding, horizontalPadding).
		Width(boxWidth).
		Align(lipgloss.Center).
		Render(content)

	boxHeight := lipgloss.Height(box)
	if boxHeight >= height {
		// Box is too tall, align top so the logo stays visible
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, box)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

// =============================================================================
// RENDER HELPERS
// =============================================================================

// renderLogo renders the ASCII art logo.
func (w Welcome) renderLogo() string {
	logo := ` ____   __    ___  ____  __  ___  _   _  ____
(  _ \ /  \  / __)/ ___)(  )/ __)/ )( \(_  _)
 ) D ((  O )( (__ \___ \ )(( (_ \) __ (  )(
(____/ \__/  \___)(____/(__)\___/\_)(_/ (__)`
	return lipgloss.NewStyle().Foreground(styles.Cyan).Bold(true).Render(logo) + "\n" +
		w.theme.WelcomeInfo.Render("see what your documents are saying")
}

// renderLogoCompact renders a minimal logo for tiny terminals.
func (w Welcome) renderLogoCompact() string {
	return w.theme.WelcomeLogo.Render("docsight")
}

// renderVersion renders the version line.
func (w Welcome) renderVersion() string {
	return w.theme.WelcomeVersion.Render("v" + w.version)
}

// renderSystemInfo renders the service and document lines.
func (w Welcome) renderSystemInfo() string {
	labelStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
	valueStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary)

	service := w.serviceURL
	if service == "" {
		service = "not configured"
	}

	lines := labelStyle.Render("Service: ") + valueStyle.Render(util.TruncateWidth(service, 36))
	lines += "\n" + labelStyle.Render("Documents: ") + valueStyle.Render(util.IntToString(w.docCount))
	return lines
}

// renderPressKey renders the call to action.
func (w Welcome) renderPressKey() string {
	return w.theme.WelcomeInfo.Render("Press ") +
		w.theme.WelcomeKey.Render("Enter") +
		w.theme.WelcomeInfo.Render(" to start asking questions")
}
