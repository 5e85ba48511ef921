// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the docsight TUI.
//
// The package exposes three layers:
//
//   - colors.go: the adaptive color palette. Every color is a
//     lipgloss.AdaptiveColor so light and dark terminals both get
//     readable output without runtime branching.
//   - theme.go: the Theme struct, which composes the palette into
//     ready-to-use lipgloss styles for every screen region (header,
//     message bubbles, citation chips, input area, status bar).
//   - animations.go: spinner frame sets and progress bar rendering.
//
// All animation frames and indicators are ASCII-only so the TUI degrades
// gracefully on terminals without Unicode fonts.
//
// # Usage
//
//	theme := styles.NewTheme()
//	theme.SetSize(width, height)
//	header := theme.Header.Render("docsight")
package styles
